package cardgen

import (
	"bytes"
	"testing"

	"github.com/alovak/cardcheck/cardvalidation"
	"github.com/alovak/cardcheck/models"
)

func TestGeneratePAN_Lengths(t *testing.T) {
	for _, l := range []int{13, 16, 19} {
		pan, err := GeneratePAN("421234", l, "")
		if err != nil {
			t.Fatalf("GeneratePAN len %d: %v", l, err)
		}
		if len(pan) != l || !IsDigits(pan) {
			t.Fatalf("GeneratePAN len %d got %q", l, pan)
		}
		if pan[:6] != "421234" {
			t.Fatalf("bin not kept: %q", pan)
		}
		body := pan[:len(pan)-1]
		if cd := luhnCheckDigit(body); pan[len(pan)-1] != cd[0] {
			t.Fatalf("check digit %c want %s", pan[len(pan)-1], cd)
		}
	}
}

func TestGeneratePAN_Sequence(t *testing.T) {
	pan, err := GeneratePAN("421234", 16, "777")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if pan[12:15] != "777" {
		t.Fatalf("sequence not applied: %q", pan)
	}
}

func TestGeneratePAN_Errors(t *testing.T) {
	cases := []struct {
		bin string
		l   int
		seq string
	}{
		{"", 16, ""},
		{"42a234", 16, ""},
		{"4212", 16, ""},
		{"421234", 12, ""},
		{"421234", 20, ""},
		{"421234", 16, "12x"},
		{"421234", 16, "1234567890"},
	}
	for _, c := range cases {
		if _, err := GeneratePAN(c.bin, c.l, c.seq); err == nil {
			t.Fatalf("GeneratePAN(%q, %d, %q) expected error", c.bin, c.l, c.seq)
		}
	}
}

func TestDefaultBIN_GeneratesValidNumbers(t *testing.T) {
	for _, network := range models.CardNetworks() {
		bin, err := DefaultBIN(network)
		if err != nil {
			t.Fatalf("DefaultBIN(%s): %v", network, err)
		}
		pan, err := GeneratePAN(bin, 16, "")
		if err != nil {
			t.Fatalf("GeneratePAN: %v", err)
		}
		card := &models.Card{Product: &models.CardProduct{Network: network}}
		if err := cardvalidation.ValidateCardNumberLength(card, pan); err != nil {
			t.Fatalf("generated %s pan rejected: %v", network, err)
		}
	}
	if _, err := DefaultBIN("AMEX"); err == nil {
		t.Fatalf("expected error for AMEX")
	}
}

func TestMaskPAN(t *testing.T) {
	cases := []struct{ in, out string }{
		{"", ""},
		{"1234", "****"},
		{"123456789", "*****6789"},
		{"4111111111111111", "411111******1111"},
		{"4111 1111-1111 1111", "411111******1111"},
	}
	for _, c := range cases {
		if got := MaskPAN(c.in); got != c.out {
			t.Fatalf("MaskPAN(%q) = %q want %q", c.in, got, c.out)
		}
	}
}

func TestFirstLastN(t *testing.T) {
	if got := LastN("4111111111111111", 4); got != "1111" {
		t.Fatalf("LastN got %q", got)
	}
	if got := FirstN("4212345", 6); got != "421234" {
		t.Fatalf("FirstN got %q", got)
	}
	if got := FirstN("42", 6); got != "42" {
		t.Fatalf("FirstN short got %q", got)
	}
}

func TestHashPANHMAC(t *testing.T) {
	a := HashPANHMAC("4111111111111111", []byte("k1"))
	b := HashPANHMAC("4111111111111111", []byte("k1"))
	c := HashPANHMAC("4111111111111111", []byte("k2"))
	if !bytes.Equal(a, b) {
		t.Fatalf("hash not deterministic")
	}
	if bytes.Equal(a, c) {
		t.Fatalf("hash ignores key")
	}
	if len(a) != 32 {
		t.Fatalf("hash length %d", len(a))
	}
}
