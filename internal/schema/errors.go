package schema

import "errors"

// Schema lookup errors
var (
	ErrColumnNotFound  = errors.New("column not found")
	ErrAmbiguousColumn = errors.New("more than one column matches; pass an explicit column")

	// ErrInvalidSchema is returned when a raw representation has no recognizable column list
	ErrInvalidSchema = errors.New("invalid schema representation")
)
