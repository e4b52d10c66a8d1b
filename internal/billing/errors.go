package billing

import (
	"errors"
	"fmt"
)

// Configuration errors: the run context must be fully set up before any
// invoice can be populated or a batch started.
var (
	ErrIssuerNotSet = errors.New("issuer not configured for this run")
	ErrTermsNotSet  = errors.New("terms and conditions not configured for this run")
	ErrDueNotSet    = errors.New("invoice has no due date")
)

// ErrFileFormat is returned for input files with an unsupported extension.
var ErrFileFormat = errors.New("unsupported file format")

// ValidationError reports a field value rejected at construction time.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// NewValidationError builds a ValidationError for the given field and value.
func NewValidationError(field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: fmt.Sprint(value), Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
