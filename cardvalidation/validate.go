// Package cardvalidation checks that a card number fits the network of the
// card it belongs to.
package cardvalidation

import (
	"regexp"
	"unicode/utf8"

	"github.com/alovak/cardcheck/models"
	"golang.org/x/exp/slices"
)

var (
	VisaValidDigitLengths       = []int{16}
	MastercardValidDigitLengths = []int{16}
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// ValidateCardNumberLength checks primaryAccountNumber against the network of
// card's product and returns an *Error for the first rule it breaks:
//
//  1. the network is not supported: NetworkUnsupported
//  2. VISA with a length outside VisaValidDigitLengths: NumberInvalid
//  3. MASTERCARD with a length outside MastercardValidDigitLengths: NetworkUnsupported
//  4. a character other than 0-9: NetworkUnsupported
//
// A card without a product has no network and fails the first rule.
func ValidateCardNumberLength(card *models.Card, primaryAccountNumber string) error {
	network := card.Network()

	if !network.IsValid() {
		return NewNetworkUnsupported().Build()
	}

	length := utf8.RuneCountInString(primaryAccountNumber)

	if network == models.CardNetworkVisa && !slices.Contains(VisaValidDigitLengths, length) {
		return NewNumberInvalid().Build()
	}

	if network == models.CardNetworkMastercard && !slices.Contains(MastercardValidDigitLengths, length) {
		return NewNetworkUnsupported().Build()
	}

	if !digitsOnly.MatchString(primaryAccountNumber) {
		return NewNetworkUnsupported().Build()
	}

	return nil
}
