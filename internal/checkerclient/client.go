package checkerclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alovak/cardcheck/cardvalidation"
	"github.com/alovak/cardcheck/models"
)

// Client talks to the checker HTTP API.
type Client struct {
	Base string
	HTTP *http.Client
}

func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{Base: strings.TrimRight(base, "/"), HTTP: hc}
}

// ValidateNetwork asks the checker to validate pan for network. A rejected
// number is returned as *cardvalidation.Error.
func (c *Client) ValidateNetwork(ctx context.Context, network, pan string) error {
	b, _ := json.Marshal(struct {
		Network string `json:"network"`
		PAN     string `json:"pan"`
	}{network, pan})

	resp, err := c.post(ctx, c.Base+"/validate", b)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return decodeError("validate", resp)
}

// RegisterCard registers pan under productID and returns the stored card.
func (c *Client) RegisterCard(ctx context.Context, productID, pan string) (*models.Card, error) {
	b, _ := json.Marshal(struct {
		PAN string `json:"pan"`
	}{pan})

	resp, err := c.post(ctx, fmt.Sprintf("%s/products/%s/cards", c.Base, productID), b)
	if err != nil {
		return nil, fmt.Errorf("register card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, decodeError("register card", resp)
	}

	var card models.Card
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("decode card: %w", err)
	}
	return &card, nil
}

func (c *Client) post(ctx context.Context, target string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.HTTP.Do(req)
}

// decodeError turns a 422 body back into a *cardvalidation.Error and any
// other status into a plain error.
func decodeError(op string, resp *http.Response) error {
	b, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusUnprocessableEntity {
		var payload struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(b, &payload); err != nil {
			return fmt.Errorf("decode %s error: %w", op, err)
		}
		typ, err := cardvalidation.ParseErrorType(payload.Type)
		if err != nil {
			return fmt.Errorf("decode %s error: %w", op, err)
		}
		return cardvalidation.NewOtherInvalid().
			Type(typ).
			Message(payload.Message).
			Build()
	}

	return fmt.Errorf("%s status=%d body=%s", op, resp.StatusCode, strings.TrimSpace(string(b)))
}
