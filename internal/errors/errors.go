package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error.
type ErrorType string

const (
	ErrorTypeNoData           ErrorType = "NO_DATA"
	ErrorTypeInsufficientData ErrorType = "INSUFFICIENT_DATA"
	ErrorTypeInvalidParameter ErrorType = "INVALID_PARAMETER"
	ErrorTypeValidation       ErrorType = "VALIDATION_ERROR"
	ErrorTypeIO               ErrorType = "IO_ERROR"
	ErrorTypeStore            ErrorType = "STORE_ERROR"
	ErrorTypeInternal         ErrorType = "INTERNAL_ERROR"
)

// AppError represents an application error with additional context.
type AppError struct {
	Type    ErrorType              `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// New creates a new AppError.
func New(errType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
	}
}

// Wrap wraps an existing error.
func Wrap(err error, errType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// NewNoDataError reports an input that yielded no samples.
func NewNoDataError(source string) *AppError {
	return New(ErrorTypeNoData, fmt.Sprintf("%s does not contain any timestamps", source))
}

// NewInsufficientDataError reports fewer samples than an operation needs.
func NewInsufficientDataError(have, need int) *AppError {
	return New(ErrorTypeInsufficientData,
		fmt.Sprintf("need at least %d samples, got %d", need, have)).
		WithDetails(map[string]interface{}{"have": have, "need": need})
}

// NewInvalidParameterError reports a rejected argument.
func NewInvalidParameterError(name string, value interface{}) *AppError {
	return New(ErrorTypeInvalidParameter, fmt.Sprintf("invalid %s: %v", name, value)).
		WithDetails(map[string]interface{}{"parameter": name, "value": value})
}

// WrapValidationError wraps a rejected configuration.
func WrapValidationError(err error, message string) *AppError {
	return Wrap(err, ErrorTypeValidation, message)
}

// WrapIOError wraps a filesystem failure.
func WrapIOError(err error, message string) *AppError {
	return Wrap(err, ErrorTypeIO, message)
}

// WrapStoreError wraps a result store failure.
func WrapStoreError(err error, message string) *AppError {
	return Wrap(err, ErrorTypeStore, message)
}

// WrapInternalError wraps an unexpected error.
func WrapInternalError(err error, message string) *AppError {
	return Wrap(err, ErrorTypeInternal, message)
}

// GetAppError extracts an AppError anywhere in the error chain.
func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err carries an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	appErr, ok := GetAppError(err)
	return ok && appErr.Type == errType
}

// TypeOf returns the error type, or ErrorTypeInternal for foreign errors.
func TypeOf(err error) ErrorType {
	if appErr, ok := GetAppError(err); ok {
		return appErr.Type
	}
	return ErrorTypeInternal
}
