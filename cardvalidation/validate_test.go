package cardvalidation_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/alovak/cardcheck/cardvalidation"
	"github.com/alovak/cardcheck/models"
	"github.com/stretchr/testify/require"
)

func cardFor(network models.CardNetwork) *models.Card {
	return &models.Card{
		ID:      "card-1",
		Product: &models.CardProduct{ID: "product-1", Name: "test", Network: network},
	}
}

func TestValidateCardNumberLength(t *testing.T) {
	tests := []struct {
		name     string
		network  models.CardNetwork
		pan      string
		wantType cardvalidation.ErrorType // zero means success
		wantMsg  string
	}{
		{
			name:    "visa with 16 digits",
			network: models.CardNetworkVisa,
			pan:     "4111111111111111",
		},
		{
			name:     "visa with 12 digits",
			network:  models.CardNetworkVisa,
			pan:      "411111111111",
			wantType: cardvalidation.NumberInvalid,
			wantMsg:  "Card number is not supported",
		},
		{
			name:     "visa with empty number",
			network:  models.CardNetworkVisa,
			pan:      "",
			wantType: cardvalidation.NumberInvalid,
			wantMsg:  "Card number is not supported",
		},
		{
			name:    "mastercard with 16 digits",
			network: models.CardNetworkMastercard,
			pan:     "5500005555555555",
		},
		{
			name:     "mastercard with 17 digits",
			network:  models.CardNetworkMastercard,
			pan:      "55000055555555555",
			wantType: cardvalidation.NetworkUnsupported,
			wantMsg:  "Network is not supported",
		},
		{
			name:     "mastercard with empty number",
			network:  models.CardNetworkMastercard,
			pan:      "",
			wantType: cardvalidation.NetworkUnsupported,
			wantMsg:  "Network is not supported",
		},
		{
			name:     "visa with 16 chars two of them letters",
			network:  models.CardNetworkVisa,
			pan:      "41111111111111ab",
			wantType: cardvalidation.NetworkUnsupported,
			wantMsg:  "Network is not supported",
		},
		{
			name:     "mastercard with 15 digits and a letter",
			network:  models.CardNetworkMastercard,
			pan:      "550000555555555x",
			wantType: cardvalidation.NetworkUnsupported,
			wantMsg:  "Network is not supported",
		},
		{
			name:     "visa with spaces",
			network:  models.CardNetworkVisa,
			pan:      "4111 1111 111111",
			wantType: cardvalidation.NetworkUnsupported,
			wantMsg:  "Network is not supported",
		},
		{
			name:     "amex is not supported",
			network:  "AMEX",
			pan:      "4111111111111111",
			wantType: cardvalidation.NetworkUnsupported,
			wantMsg:  "Network is not supported",
		},
		{
			name:     "lower case network is not supported",
			network:  "visa",
			pan:      "4111111111111111",
			wantType: cardvalidation.NetworkUnsupported,
			wantMsg:  "Network is not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := cardvalidation.ValidateCardNumberLength(cardFor(tt.network), tt.pan)

			if tt.wantType == 0 {
				require.NoError(t, err)
				return
			}

			var verr *cardvalidation.Error
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tt.wantType, verr.Type())
			require.Equal(t, tt.wantMsg, verr.Message())
			require.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestValidateCardNumberLength_UnsupportedNetworkIgnoresNumber(t *testing.T) {
	for _, network := range []models.CardNetwork{"AMEX", "DISCOVER", ""} {
		for _, pan := range []string{"", "4111111111111111", "abc", strings.Repeat("9", 19)} {
			err := cardvalidation.ValidateCardNumberLength(cardFor(network), pan)
			require.ErrorIs(t, err, cardvalidation.ErrNetworkUnsupported, "network %q pan %q", network, pan)
		}
	}
}

func TestValidateCardNumberLength_VisaLengths(t *testing.T) {
	for n := 0; n <= 20; n++ {
		pan := strings.Repeat("4", n)
		err := cardvalidation.ValidateCardNumberLength(cardFor(models.CardNetworkVisa), pan)
		if n == 16 {
			require.NoError(t, err)
			continue
		}
		require.ErrorIs(t, err, cardvalidation.ErrNumberInvalid, "length %d", n)
	}
}

func TestValidateCardNumberLength_MastercardLengths(t *testing.T) {
	for n := 0; n <= 20; n++ {
		pan := strings.Repeat("5", n)
		err := cardvalidation.ValidateCardNumberLength(cardFor(models.CardNetworkMastercard), pan)
		if n == 16 {
			require.NoError(t, err)
			continue
		}
		require.ErrorIs(t, err, cardvalidation.ErrNetworkUnsupported, "length %d", n)
	}
}

func TestValidateCardNumberLength_MissingProduct(t *testing.T) {
	err := cardvalidation.ValidateCardNumberLength(&models.Card{ID: "orphan"}, "4111111111111111")
	require.ErrorIs(t, err, cardvalidation.ErrNetworkUnsupported)

	err = cardvalidation.ValidateCardNumberLength(nil, "4111111111111111")
	require.ErrorIs(t, err, cardvalidation.ErrNetworkUnsupported)
}

func TestValidateCardNumberLength_CountsCharactersNotBytes(t *testing.T) {
	// 15 digits and one two-byte rune: 16 characters, so the length check
	// passes and the digit check rejects it.
	err := cardvalidation.ValidateCardNumberLength(cardFor(models.CardNetworkVisa), "411111111111111é")
	require.ErrorIs(t, err, cardvalidation.ErrNetworkUnsupported)
}

func TestValidateCardNumberLength_Idempotent(t *testing.T) {
	card := cardFor(models.CardNetworkVisa)
	for _, pan := range []string{"4111111111111111", "411111111111", "41111111111111ab"} {
		first := cardvalidation.ValidateCardNumberLength(card, pan)
		second := cardvalidation.ValidateCardNumberLength(card, pan)
		require.Equal(t, first, second)
	}
	require.Equal(t, models.CardNetworkVisa, card.Product.Network)
}

func TestValidateCardNumberLength_ErrorsSurviveWrapping(t *testing.T) {
	err := cardvalidation.ValidateCardNumberLength(cardFor(models.CardNetworkVisa), "4")
	wrapped := fmt.Errorf("validating card: %w", err)

	require.True(t, errors.Is(wrapped, cardvalidation.ErrNumberInvalid))
	require.False(t, errors.Is(wrapped, cardvalidation.ErrNetworkUnsupported))

	typ, ok := cardvalidation.TypeOf(wrapped)
	require.True(t, ok)
	require.Equal(t, cardvalidation.NumberInvalid, typ)
}
