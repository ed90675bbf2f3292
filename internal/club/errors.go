package club

import (
	"errors"
	"fmt"

	"github.com/erazemk/oprema/internal/model"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = model.ErrNotFound

// ValidationError is a rejected input. Nothing was persisted.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Err: errors.New(message)}
}

func invalidErr(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
}
