package cli

import "fmt"

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: service failures, network errors, cache I/O errors,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: missing --list, unknown backend, or a column role that
	// needs an explicit column reference.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: column not found, list or item not found, or no schema
	// could be discovered for the list.
	ExitNotFound = 3

	// ExitDataErr indicates invalid or malformed data.
	// Use for: an unreadable or malformed schema override file.
	ExitDataErr = 4

	// ExitValidation indicates a validation error.
	// Use for: unknown select options, unknown users, bad dates,
	// out-of-range ratings, or unsupported column types.
	ExitValidation = 5
)

// ExitCodeError carries the process exit code for a failure that has already
// been reported to the user
type ExitCodeError struct {
	Code int
	Err  error
}

// Error implements the error interface.
func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit %d: %v", e.Code, e.Err)
}

// Unwrap returns the underlying error
func (e *ExitCodeError) Unwrap() error {
	return e.Err
}
