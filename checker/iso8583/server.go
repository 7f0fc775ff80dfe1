package iso8583

import (
	"context"
	"fmt"

	"github.com/moov-io/iso8583"
	connection "github.com/moov-io/iso8583-connection"
	"github.com/moov-io/iso8583-connection/server"
	"golang.org/x/exp/slog"
)

// Authorizer decides the response code for a card number. network is empty
// when the request does not carry field 48.
type Authorizer interface {
	AuthorizationResponseCode(ctx context.Context, pan, network string) string
}

// Server answers 0100 validation requests with 0110 responses.
type Server struct {
	Addr string

	addr       string
	logger     *slog.Logger
	authorizer Authorizer
	server     *server.Server
}

func NewServer(logger *slog.Logger, addr string, authorizer Authorizer) *Server {
	return &Server{
		addr:       addr,
		logger:     logger.With(slog.String("component", "iso8583-server")),
		authorizer: authorizer,
	}
}

func (s *Server) Start() error {
	s.server = server.New(Spec, ReadMessageLength, WriteMessageLength,
		connection.InboundMessageHandler(s.handleMessage),
	)

	if err := s.server.Start(s.addr); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	s.Addr = s.server.Addr
	s.logger.Info("iso8583 server started", slog.String("addr", s.Addr))

	return nil
}

func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	s.server.Close()
	s.logger.Info("iso8583 server stopped")

	return nil
}

func (s *Server) handleMessage(c *connection.Connection, message *iso8583.Message) {
	mti, err := message.GetMTI()
	if err != nil {
		s.logger.Error("getting MTI", slog.Any("err", err))
		return
	}

	if mti != MTIValidationRequest {
		s.logger.Error("unexpected MTI", slog.String("mti", mti))
		return
	}

	response, err := s.handleValidationRequest(message)
	if err != nil {
		s.logger.Error("handling validation request", slog.Any("err", err))
		return
	}

	if err := c.Reply(response); err != nil {
		s.logger.Error("replying to message", slog.Any("err", err))
	}
}

func (s *Server) handleValidationRequest(message *iso8583.Message) (*iso8583.Message, error) {
	pan, err := message.GetString(FieldPAN)
	if err != nil {
		return nil, fmt.Errorf("getting PAN: %w", err)
	}

	stan, err := message.GetString(FieldSTAN)
	if err != nil {
		return nil, fmt.Errorf("getting STAN: %w", err)
	}

	network, err := message.GetString(FieldCardNetwork)
	if err != nil {
		return nil, fmt.Errorf("getting card network: %w", err)
	}

	code := s.authorizer.AuthorizationResponseCode(context.Background(), pan, network)

	response := iso8583.NewMessage(Spec)
	response.MTI(MTIValidationResponse)
	if err := response.Field(FieldSTAN, stan); err != nil {
		return nil, fmt.Errorf("setting STAN: %w", err)
	}
	if err := response.Field(FieldResponseCode, code); err != nil {
		return nil, fmt.Errorf("setting response code: %w", err)
	}

	return response, nil
}
