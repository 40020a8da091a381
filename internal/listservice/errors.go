package listservice

import (
	"errors"
	"fmt"
)

// ErrMethodUnsupported signals that the service does not offer a method.
// Schema discovery treats it as "try the next source"; it is never shown to users.
var ErrMethodUnsupported = errors.New("method unsupported")

// ErrNotFound is returned when the service reports a missing list or item
var ErrNotFound = errors.New("not found")

// unsupportedCodes are service error codes meaning the method is unavailable
var unsupportedCodes = map[string]bool{
	"unknown_method":         true,
	"method_not_supported":   true,
	"not_supported":          true,
	"not_allowed_token_type": true,
	"feature_not_enabled":    true,
}

var notFoundCodes = map[string]bool{
	"list_not_found": true,
	"item_not_found": true,
	"not_found":      true,
}

// APIError is an error reported by the service in its response envelope
type APIError struct {
	Method string
	Code   string
	Status int // HTTP status, 0 when not applicable
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Method, e.Code, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Method, e.Code)
}

// Is lets errors.Is match the classification sentinels
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrMethodUnsupported:
		return unsupportedCodes[e.Code] || (e.Status == 404 && e.Code == "")
	case ErrNotFound:
		return notFoundCodes[e.Code]
	}
	return false
}

// IsMethodUnsupported reports whether err classifies as "method unsupported"
func IsMethodUnsupported(err error) bool {
	return errors.Is(err, ErrMethodUnsupported)
}
