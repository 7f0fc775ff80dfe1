package models

import (
	"strings"

	"golang.org/x/exp/slices"
)

// CardNetwork is the issuing scheme of a card. It is string backed so values
// decoded from JSON, the database or ISO 8583 messages may fall outside the
// supported set; use IsValid before relying on one.
type CardNetwork string

const (
	CardNetworkVisa       CardNetwork = "VISA"
	CardNetworkMastercard CardNetwork = "MASTERCARD"
)

var cardNetworks = []CardNetwork{
	CardNetworkVisa,
	CardNetworkMastercard,
}

// CardNetworks returns the supported networks.
func CardNetworks() []CardNetwork {
	return slices.Clone(cardNetworks)
}

// IsValid reports whether n is a member of the supported networks. The match
// is exact, "visa" is not VISA.
func (n CardNetwork) IsValid() bool {
	return slices.Contains(cardNetworks, n)
}

// NormalizeCardNetwork trims and upper-cases user input. It does not check
// membership.
func NormalizeCardNetwork(s string) CardNetwork {
	return CardNetwork(strings.ToUpper(strings.TrimSpace(s)))
}

type CardProduct struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Network CardNetwork `json:"network"`
}

type Card struct {
	ID      string       `json:"id"`
	Product *CardProduct `json:"product"`
	// Number is masked whenever a card leaves the service.
	Number string `json:"number"`
}

// Network returns the network of the card's product, or an empty network when
// the card has no product.
func (c *Card) Network() CardNetwork {
	if c == nil || c.Product == nil {
		return ""
	}
	return c.Product.Network
}

type CreateProduct struct {
	Name    string `json:"name" validate:"required"`
	Network string `json:"network" validate:"required"`
}

type RegisterCard struct {
	ProductID string `json:"-"`
	PAN       string `json:"pan"`
}
