package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNoToken is returned when an authenticated call is attempted without a token
	ErrNoToken = errors.New("no authentication token found")
	// ErrNoTokenReceived is returned when a successful login carries no access token
	ErrNoTokenReceived = errors.New("no token received")
)

// Kind classifies a failed API call
type Kind int

const (
	// KindTransport is a network or decoding failure; no usable server answer
	KindTransport Kind = iota + 1
	// KindGeneral is a server-reported failure with a message only
	KindGeneral
	// KindValidation is a server-reported failure with a per-field message map
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindGeneral:
		return "general"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every Client method that reached the wire
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Message != "" {
			return fmt.Sprintf("%s: %v", e.Message, e.Err)
		}
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsError extracts an *Error from err's chain
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Message returns the user-facing message for err, or fallback when err carries none.
// Transport errors always map to fallback so raw dial errors never reach a view.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	apiErr, ok := AsError(err)
	if !ok {
		return fallback
	}
	if apiErr.Kind == KindTransport || apiErr.Message == "" {
		return fallback
	}
	return apiErr.Message
}

// FieldErrors returns the validation map carried by err, if any
func FieldErrors(err error) map[string]string {
	apiErr, ok := AsError(err)
	if !ok || apiErr.Kind != KindValidation {
		return nil
	}
	return apiErr.Fields
}

func transportError(op string, err error) *Error {
	return &Error{Kind: KindTransport, Message: op, Err: err}
}
