package domain

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation")
	ErrUnavailable = errors.New("unavailable")
)

// Invalid wraps ErrValidation with a field-level message so handlers can
// surface it while still matching errors.Is(err, ErrValidation).
func Invalid(msg string) error {
	return &fieldError{msg: msg}
}

type fieldError struct{ msg string }

func (e *fieldError) Error() string { return e.msg }

func (e *fieldError) Is(target error) bool { return target == ErrValidation }
