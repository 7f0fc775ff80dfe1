package checker

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alovak/cardcheck/internal/cardgen"
	"github.com/alovak/cardcheck/models"
	"github.com/jackc/pgconn"
	"github.com/lib/pq"
)

var ErrNotFound = fmt.Errorf("not found")

var ErrConflict = fmt.Errorf("conflict")

//go:embed schema.sql
var schemaSQL string

// Repository stores card products and cards. It is backed by memory when
// built with NewRepository and by Postgres when built with NewPGRepository.
type Repository struct {
	Products []*models.CardProduct
	Cards    []*models.Card

	mu       sync.RWMutex
	panIndex map[string]*models.Card
	db       *sql.DB
	hashKey  []byte
}

func NewRepository() *Repository {
	return &Repository{
		Products: make([]*models.CardProduct, 0),
		Cards:    make([]*models.Card, 0),
		panIndex: make(map[string]*models.Card),
	}
}

// NewPGRepository constructs a db-backed repository. Card numbers are stored
// as HMAC-SHA256 hashes keyed with hashKey, plus BIN and last 4 digits.
func NewPGRepository(db *sql.DB, hashKey []byte) *Repository {
	return &Repository{db: db, hashKey: hashKey}
}

// EnsureSchema creates the checker schema and tables when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

func (r *Repository) CreateProduct(ctx context.Context, product *models.CardProduct) error {
	if r.db == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.Products = append(r.Products, product)
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO checker.card_products(product_id, name, network)
		VALUES ($1,$2,$3)
	`, product.ID, product.Name, string(product.Network))
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *Repository) GetProduct(ctx context.Context, productID string) (*models.CardProduct, error) {
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		for _, p := range r.Products {
			if p.ID == productID {
				return p, nil
			}
		}
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `SELECT product_id, name, network FROM checker.card_products WHERE product_id=$1`, productID)
	var p models.CardProduct
	var network string
	if err := row.Scan(&p.ID, &p.Name, &network); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Network = models.CardNetwork(network)
	return &p, nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]*models.CardProduct, error) {
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		out := make([]*models.CardProduct, len(r.Products))
		copy(out, r.Products)
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT product_id, name, network FROM checker.card_products ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*models.CardProduct, 0)
	for rows.Next() {
		var p models.CardProduct
		var network string
		if err := rows.Scan(&p.ID, &p.Name, &network); err != nil {
			return nil, err
		}
		p.Network = models.CardNetwork(network)
		out = append(out, &p)
	}
	return out, rows.Err()
}

// CreateCard stores card under pan. card.Product must be set. A second card
// with the same pan returns ErrConflict.
func (r *Repository) CreateCard(ctx context.Context, card *models.Card, pan string) error {
	if card.Product == nil {
		return fmt.Errorf("card %s has no product", card.ID)
	}
	if r.db == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, ok := r.panIndex[pan]; ok {
			return fmt.Errorf("card number exists: %w", ErrConflict)
		}
		r.Cards = append(r.Cards, card)
		r.panIndex[pan] = card
		return nil
	}
	panNorm := cardgen.NormalizePAN(pan)
	bin := cardgen.FirstN(panNorm, 6)
	last4 := cardgen.LastN(panNorm, 4)
	hash := cardgen.HashPANHMAC(panNorm, r.hashKey)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO checker.cards(card_id, product_id, bin, last4, pan_hash)
		VALUES ($1,$2,$3,$4,$5)
	`, card.ID, card.Product.ID, bin, last4, hash)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// FindCardByNumber returns the card registered under pan together with its
// product. The returned Number is masked.
func (r *Repository) FindCardByNumber(ctx context.Context, pan string) (*models.Card, error) {
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		if c, ok := r.panIndex[pan]; ok {
			return c, nil
		}
		return nil, ErrNotFound
	}
	hash := cardgen.HashPANHMAC(cardgen.NormalizePAN(pan), r.hashKey)
	row := r.db.QueryRowContext(ctx, `
		SELECT c.card_id, c.bin, c.last4, p.product_id, p.name, p.network
		  FROM checker.cards c
		  JOIN checker.card_products p ON p.product_id = c.product_id
		 WHERE c.pan_hash=$1
	`, hash)
	var id, bin, last4, network string
	var p models.CardProduct
	if err := row.Scan(&id, &bin, &last4, &p.ID, &p.Name, &network); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Network = models.CardNetwork(network)
	return &models.Card{ID: id, Product: &p, Number: bin + strings.Repeat("*", 6) + last4}, nil
}

// Ping returns DB readiness
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pe *pq.Error
	if errors.As(err, &pe) && pe.Code == "23505" {
		return true
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		return true
	}
	return false
}
