package domain

import "errors"

var (
	ErrDuplicateEmail  = errors.New("email already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrTaskNotFound    = errors.New("task not found")
	ErrValidation      = errors.New("validation failed")
	ErrStorage         = errors.New("storage failure")
)

// ValidationError reports a missing or malformed input field.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Required returns a ValidationError for a missing field.
func Required(field string) error {
	return &ValidationError{Msg: field + " is required"}
}
