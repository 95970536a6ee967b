package countdown

import (
	"errors"
	"fmt"
)

// DefaultValidationMessage is shown when a duration is rejected.
const DefaultValidationMessage = "duration must be a positive number of seconds"

// ErrorCode categorizes rejected input.
type ErrorCode string

const (
	// ErrCodeInvalidDuration indicates input that is not a positive number.
	ErrCodeInvalidDuration ErrorCode = "INVALID_DURATION"
)

// ValidationError describes a rejected SetDuration input.
type ValidationError struct {
	Code    ErrorCode
	Message string
	Input   string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("%s: %s (input=%q)", e.Code, e.Message, e.Input)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func newInvalidDuration(input string) *ValidationError {
	return &ValidationError{
		Code:    ErrCodeInvalidDuration,
		Message: DefaultValidationMessage,
		Input:   input,
	}
}
