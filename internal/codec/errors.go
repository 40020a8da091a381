package codec

import (
	"errors"
	"fmt"
)

// Field validation errors, surfaced to callers for structured reporting
var (
	ErrUnknownOption         = errors.New("unknown option")
	ErrUnknownUser           = errors.New("unknown user")
	ErrInvalidDate           = errors.New("invalid date (want YYYY-MM-DD)")
	ErrInvalidValue          = errors.New("invalid value")
	ErrUnsupportedColumnType = errors.New("unsupported column type")
)

// FieldError carries the column and input that failed to coerce.
// It unwraps to one of the sentinels above.
type FieldError struct {
	Kind   error
	Column string
	Input  string
	Detail string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	msg := fmt.Sprintf("column %q: %v: %q", e.Column, e.Kind, e.Input)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

// Unwrap returns the sentinel kind
func (e *FieldError) Unwrap() error {
	return e.Kind
}

// IsValidation reports whether err is one of the codec's validation errors
func IsValidation(err error) bool {
	return errors.Is(err, ErrUnknownOption) ||
		errors.Is(err, ErrUnknownUser) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrUnsupportedColumnType)
}
