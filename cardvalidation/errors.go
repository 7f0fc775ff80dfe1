package cardvalidation

import (
	"errors"
	"fmt"
)

type ErrorType int

const (
	NetworkUnsupported ErrorType = iota + 1
	NumberInvalid
	OtherInvalid
)

const (
	NetworkUnsupportedMessage = "Network is not supported"
	NumberInvalidMessage      = "Card number is not supported"
	OtherInvalidMessage       = "INVALID OTHER MESSAGE"
)

func (t ErrorType) String() string {
	switch t {
	case NetworkUnsupported:
		return "NETWORK_UNSUPPORTED"
	case NumberInvalid:
		return "NUMBER_INVALID"
	case OtherInvalid:
		return "OTHER_INVALID"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(t))
	}
}

// ParseErrorType is the inverse of ErrorType.String.
func ParseErrorType(s string) (ErrorType, error) {
	switch s {
	case "NETWORK_UNSUPPORTED":
		return NetworkUnsupported, nil
	case "NUMBER_INVALID":
		return NumberInvalid, nil
	case "OTHER_INVALID":
		return OtherInvalid, nil
	default:
		return 0, fmt.Errorf("unknown error type %q", s)
	}
}

// Error is a card validation failure. It has no setters; build one with
// NewNetworkUnsupported, NewNumberInvalid or NewOtherInvalid.
type Error struct {
	typ     ErrorType
	message string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) Type() ErrorType {
	return e.typ
}

func (e *Error) Message() string {
	return e.message
}

// Is matches any *Error of the same type, regardless of message, so
// errors.Is(err, ErrNumberInvalid) works for errors with an overridden message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.typ == e.typ
}

var (
	ErrNetworkUnsupported = NewNetworkUnsupported().Build()
	ErrNumberInvalid      = NewNumberInvalid().Build()
	ErrOtherInvalid       = NewOtherInvalid().Build()
)

// TypeOf returns the type of the first *Error in err's chain.
func TypeOf(err error) (ErrorType, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.typ, true
	}
	return 0, false
}

// ErrorBuilder collects the type and message of an Error.
type ErrorBuilder struct {
	typ     ErrorType
	message string
}

func NewNetworkUnsupported() *ErrorBuilder {
	return (&ErrorBuilder{}).
		Message(NetworkUnsupportedMessage).
		Type(NetworkUnsupported)
}

func NewNumberInvalid() *ErrorBuilder {
	return (&ErrorBuilder{}).
		Message(NumberInvalidMessage).
		Type(NumberInvalid)
}

func NewOtherInvalid() *ErrorBuilder {
	return (&ErrorBuilder{}).
		Message(OtherInvalidMessage).
		Type(OtherInvalid)
}

func (b *ErrorBuilder) Message(message string) *ErrorBuilder {
	b.message = message
	return b
}

func (b *ErrorBuilder) Type(typ ErrorType) *ErrorBuilder {
	b.typ = typ
	return b
}

// Build returns a new Error. Later changes to the builder do not affect it.
func (b *ErrorBuilder) Build() *Error {
	return &Error{
		typ:     b.typ,
		message: b.message,
	}
}
