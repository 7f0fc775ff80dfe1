package iso8583

import (
	"io"

	"github.com/moov-io/iso8583"
	"github.com/moov-io/iso8583/encoding"
	"github.com/moov-io/iso8583/field"
	"github.com/moov-io/iso8583/network"
	"github.com/moov-io/iso8583/padding"
	"github.com/moov-io/iso8583/prefix"
)

const (
	MTIValidationRequest  = "0100"
	MTIValidationResponse = "0110"
)

const (
	FieldPAN          = 2
	FieldSTAN         = 11
	FieldResponseCode = 39
	FieldCardNetwork  = 48
)

// Spec describes the card number validation messages.
var Spec *iso8583.MessageSpec = &iso8583.MessageSpec{
	Name: "Card Check Spec",
	Fields: map[int]field.Field{
		0: field.NewString(&field.Spec{
			Length:      4,
			Description: "Message Type Indicator",
			Enc:         encoding.ASCII,
			Pref:        prefix.ASCII.Fixed,
		}),
		1: field.NewBitmap(&field.Spec{
			Length:      8,
			Description: "Bitmap",
			Enc:         encoding.BytesToASCIIHex,
			Pref:        prefix.Hex.Fixed,
		}),
		FieldPAN: field.NewString(&field.Spec{
			Length:      19,
			Description: "Primary Account Number",
			Enc:         encoding.ASCII,
			Pref:        prefix.ASCII.LL,
		}),
		FieldSTAN: field.NewString(&field.Spec{
			Length:      6,
			Description: "Systems Trace Audit Number (STAN)",
			Enc:         encoding.ASCII,
			Pref:        prefix.ASCII.Fixed,
			Pad:         padding.Left('0'),
		}),
		FieldResponseCode: field.NewString(&field.Spec{
			Length:      2,
			Description: "Response Code",
			Enc:         encoding.ASCII,
			Pref:        prefix.ASCII.Fixed,
		}),
		FieldCardNetwork: field.NewString(&field.Spec{
			Length:      20,
			Description: "Card Network",
			Enc:         encoding.ASCII,
			Pref:        prefix.ASCII.LL,
		}),
	},
}

// ReadMessageLength reads the 2 byte binary length header.
func ReadMessageLength(r io.Reader) (int, error) {
	header := network.NewBinary2BytesHeader()
	n, err := header.ReadFrom(r)
	if err != nil {
		return n, err
	}

	return header.Length(), nil
}

// WriteMessageLength writes the 2 byte binary length header.
func WriteMessageLength(w io.Writer, length int) (int, error) {
	header := network.NewBinary2BytesHeader()
	header.SetLength(length)

	return header.WriteTo(w)
}
