package domain

import "errors"

var (
	// Chart errors
	ErrChartNotFound = errors.New("chart of accounts not found")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrParentNotFound  = errors.New("parent account not found")

	// Transaction errors
	ErrTransactionNotFound = errors.New("transaction not found")
)

// ValidationError is a named, human-readable rule violation. It is returned
// synchronously to the caller and never retried. Validation is fail-fast: the
// message describes the first rule that failed.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
