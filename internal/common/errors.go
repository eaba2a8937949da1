package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Failure taxonomy. Every stage degrades to an absent value; these sentinels
// classify the warning that gets surfaced instead of aborting the batch.
var (
	ErrAcquisition  = errors.New("text acquisition failed")   // PDF unreadable / OCR unavailable
	ErrService      = errors.New("model service failed")      // endpoint unreachable, non-2xx, timeout
	ErrParse        = errors.New("model response unparsable") // not JSON even after brace recovery
	ErrInvalidInput = errors.New("invalid input")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
