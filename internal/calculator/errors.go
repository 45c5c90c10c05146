package calculator

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every validation failure in this package.
var ErrInvalidInput = errors.New("invalid input")

// InputError describes a rejected field of a group snapshot or split request.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrInvalidInput, e.Reason, e.Field)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, format string, args ...any) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
