package domain

import "errors"

var (
	ErrStoreNotFound = errors.New("store not found")
)

// ValidationError is a structural or range violation in caller input.
// Message is localized and safe to show; Field is for logs.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
