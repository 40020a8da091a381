package cli

import (
	"errors"

	"github.com/thenoetrevino/listctl/internal/codec"
	"github.com/thenoetrevino/listctl/internal/listservice"
	"github.com/thenoetrevino/listctl/internal/resolver"
	"github.com/thenoetrevino/listctl/internal/schema"
	"github.com/thenoetrevino/listctl/internal/schemacache"
)

// Command-level errors
var (
	ErrUsage    = errors.New("usage")
	ErrNoSchema = errors.New("no schema could be discovered for the list")
)

// failure is how one error class is reported
type failure struct {
	code       string
	exit       int
	suggestion string
}

// classify maps err to its reported code and exit status
func classify(err error) failure {
	switch {
	case errors.Is(err, schema.ErrColumnNotFound):
		return failure{"COLUMN_NOT_FOUND", ExitNotFound, "List columns with: listctl schema show --list <list-id>"}
	case errors.Is(err, schema.ErrAmbiguousColumn):
		return failure{"AMBIGUOUS_COLUMN", ExitUsage, "Pass the column id, key or name explicitly"}
	case errors.Is(err, ErrNoSchema):
		return failure{"NO_SCHEMA", ExitNotFound, "Provide one with --schema-file, or add items to the list first"}
	case codec.IsValidation(err):
		return validationFailure(err)
	case errors.Is(err, schemacache.ErrInvalidListID):
		return failure{"USAGE_ERROR", ExitUsage, "List ids contain only letters, digits, '.', '_' and '-'"}
	case errors.Is(err, listservice.ErrNotFound):
		return failure{"NOT_FOUND", ExitNotFound, ""}
	case errors.Is(err, resolver.ErrOverrideFile):
		return failure{"SCHEMA_FILE_ERROR", ExitDataErr, ""}
	case errors.Is(err, ErrNoToken):
		return failure{"NO_TOKEN", ExitUsage, "Export your token, or use --backend local"}
	case errors.Is(err, ErrUsage):
		return failure{"USAGE_ERROR", ExitUsage, ""}
	default:
		return failure{"ERROR", ExitError, ""}
	}
}

// validationFailure maps a codec validation error to its code. When the kind
// has no stock suggestion the field error's detail is used instead.
func validationFailure(err error) failure {
	f := failure{"INVALID_VALUE", ExitValidation, ""}
	switch {
	case errors.Is(err, codec.ErrUnknownOption):
		f.code = "UNKNOWN_OPTION"
	case errors.Is(err, codec.ErrUnknownUser):
		f.code, f.suggestion = "UNKNOWN_USER", "Pass a user id, email, display name or real name"
	case errors.Is(err, codec.ErrInvalidDate):
		f.code, f.suggestion = "INVALID_DATE", "Dates use YYYY-MM-DD"
	case errors.Is(err, codec.ErrUnsupportedColumnType):
		f.code = "UNSUPPORTED_COLUMN_TYPE"
	}

	var fieldErr *codec.FieldError
	if f.suggestion == "" && errors.As(err, &fieldErr) {
		f.suggestion = fieldErr.Detail
	}
	return f
}

// HandleError reports err through the formatter and returns an *ExitCodeError
// carrying the matching exit code
func HandleError(formatter *OutputFormatter, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return err
	}

	f := classify(err)
	if fmtErr := formatter.ErrorWithSuggestion(f.code, err.Error(), f.suggestion); fmtErr != nil {
		return &ExitCodeError{Code: f.exit, Err: errors.Join(err, fmtErr)}
	}
	return &ExitCodeError{Code: f.exit, Err: err}
}

// ExitCode returns the process exit status for err
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitError
}
