package errors

import (
	"errors"
	"fmt"
)

// Error types used to classify failures across layers
const (
	ErrorTypeValidation   = "validation"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeInternal     = "internal"
	ErrorTypeExternal     = "external"
)

// AppError is an error with a type that handlers translate into a status code
type AppError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same type, or matches the wrapped error
func (e *AppError) Is(target error) bool {
	if target == nil {
		return false
	}

	if appErr, ok := target.(*AppError); ok {
		return e.Type == appErr.Type
	}

	return errors.Is(e.Err, target)
}

func newError(errorType, message string) *AppError {
	return &AppError{Type: errorType, Message: message}
}

// NewValidation creates a new validation error
func NewValidation(message string) *AppError {
	return newError(ErrorTypeValidation, message)
}

// NewNotFound creates a new not found error
func NewNotFound(message string) *AppError {
	return newError(ErrorTypeNotFound, message)
}

// NewConflict creates a new conflict error
func NewConflict(message string) *AppError {
	return newError(ErrorTypeConflict, message)
}

// NewUnauthorized creates a new authentication/authorization error
func NewUnauthorized(message string) *AppError {
	return newError(ErrorTypeUnauthorized, message)
}

// NewInternal creates a new internal error
func NewInternal(message string) *AppError {
	return newError(ErrorTypeInternal, message)
}

// NewExternal creates a new external dependency error
func NewExternal(message string) *AppError {
	return newError(ErrorTypeExternal, message)
}

// Wrap wraps err with a message. The type of an AppError anywhere in the
// chain is preserved; anything else becomes internal.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Type:    appErr.Type,
			Message: message,
			Err:     err,
		}
	}

	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// WrapAs wraps err with an explicit type regardless of what it wraps
func WrapAs(err error, errorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Type: errorType, Message: message, Err: err}
}

// IsValidation checks if error is a validation error
func IsValidation(err error) bool {
	return hasErrorType(err, ErrorTypeValidation)
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return hasErrorType(err, ErrorTypeNotFound)
}

// IsConflict checks if error is a conflict error
func IsConflict(err error) bool {
	return hasErrorType(err, ErrorTypeConflict)
}

// IsUnauthorized checks if error is an unauthorized error
func IsUnauthorized(err error) bool {
	return hasErrorType(err, ErrorTypeUnauthorized)
}

// IsInternal checks if error is an internal error
func IsInternal(err error) bool {
	return hasErrorType(err, ErrorTypeInternal)
}

// IsExternal checks if error is an external dependency error
func IsExternal(err error) bool {
	return hasErrorType(err, ErrorTypeExternal)
}

func hasErrorType(err error, errorType string) bool {
	if err == nil {
		return false
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}

	return false
}

// GetErrorType returns the error type, or "unknown" if err is not an AppError
func GetErrorType(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}

	return "unknown"
}
