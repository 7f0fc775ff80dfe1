package checker

import (
	"context"
	"errors"
	"fmt"

	"github.com/alovak/cardcheck/cardvalidation"
	"github.com/alovak/cardcheck/internal/cardgen"
	"github.com/alovak/cardcheck/models"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// ISO 8583 response codes (field 39) returned by AuthorizationResponseCode.
const (
	ResponseCodeApproved           = "00"
	ResponseCodeOtherInvalid       = "05"
	ResponseCodeNumberInvalid      = "14"
	ResponseCodeNoCardRecord       = "56"
	ResponseCodeNetworkUnsupported = "57"
	ResponseCodeSystemError        = "96"
)

type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With(slog.String("component", "service")),
	}
}

// CreateProduct stores a card product. The network is normalized but not
// checked: a product may name a network that numbers are never accepted for.
func (s *Service) CreateProduct(ctx context.Context, req models.CreateProduct) (*models.CardProduct, error) {
	product := &models.CardProduct{
		ID:      uuid.New().String(),
		Name:    req.Name,
		Network: models.NormalizeCardNetwork(req.Network),
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	if !product.Network.IsValid() {
		s.logger.Warn("product created with unsupported network",
			slog.String("product_id", product.ID),
			slog.String("network", string(product.Network)),
		)
	}

	return product, nil
}

func (s *Service) GetProduct(ctx context.Context, productID string) (*models.CardProduct, error) {
	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("finding product: %w", err)
	}

	return product, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]*models.CardProduct, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	return products, nil
}

// ValidateNumber validates pan for a card of the given product.
func (s *Service) ValidateNumber(ctx context.Context, productID, pan string) error {
	product, err := s.GetProduct(ctx, productID)
	if err != nil {
		return err
	}

	return s.validate(&models.Card{Product: product}, pan)
}

// ValidateForNetwork validates pan for a card of an ad-hoc product of network.
func (s *Service) ValidateForNetwork(network, pan string) error {
	card := &models.Card{
		Product: &models.CardProduct{Network: models.NormalizeCardNetwork(network)},
	}

	return s.validate(card, pan)
}

// RegisterCard validates the number against the product and stores the card.
// The returned card carries the masked number.
func (s *Service) RegisterCard(ctx context.Context, req models.RegisterCard) (*models.Card, error) {
	product, err := s.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	card := &models.Card{
		ID:      uuid.New().String(),
		Product: product,
	}

	if err := s.validate(card, req.PAN); err != nil {
		return nil, err
	}

	card.Number = cardgen.MaskPAN(req.PAN)

	if err := s.repo.CreateCard(ctx, card, req.PAN); err != nil {
		return nil, fmt.Errorf("creating card: %w", err)
	}

	s.logger.Info("card registered",
		slog.String("card_id", card.ID),
		slog.String("product_id", product.ID),
		slog.String("pan", card.Number),
	)

	return card, nil
}

// AuthorizationResponseCode validates pan and maps the outcome to an ISO 8583
// response code. A registered card is validated against its product; when
// none is registered and network is set, an ad-hoc card of that network is
// used instead.
func (s *Service) AuthorizationResponseCode(ctx context.Context, pan, network string) string {
	card, err := s.repo.FindCardByNumber(ctx, pan)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound) && network != "":
		card = &models.Card{
			Product: &models.CardProduct{Network: models.NormalizeCardNetwork(network)},
		}
	case errors.Is(err, ErrNotFound):
		return ResponseCodeNoCardRecord
	default:
		s.logger.Error("finding card", slog.String("pan", cardgen.MaskPAN(pan)), slog.Any("err", err))
		return ResponseCodeSystemError
	}

	return responseCode(s.validate(card, pan))
}

func (s *Service) validate(card *models.Card, pan string) error {
	err := cardvalidation.ValidateCardNumberLength(card, pan)
	if err != nil {
		s.logger.Info("card number rejected",
			slog.String("network", string(card.Network())),
			slog.String("pan", cardgen.MaskPAN(pan)),
			slog.Any("reason", err),
		)
	}

	return err
}

func responseCode(err error) string {
	if err == nil {
		return ResponseCodeApproved
	}

	typ, ok := cardvalidation.TypeOf(err)
	if !ok {
		return ResponseCodeSystemError
	}

	switch typ {
	case cardvalidation.NumberInvalid:
		return ResponseCodeNumberInvalid
	case cardvalidation.NetworkUnsupported:
		return ResponseCodeNetworkUnsupported
	default:
		return ResponseCodeOtherInvalid
	}
}
