// Package errors provides the structured error type used across pagesmith.
//
// Every failure that reaches the CLI carries a category (config, io, build,
// validation, internal), a stable code and, where known, the file it
// concerns. Callers construct errors with the New* helpers or attach a
// category to an existing error with the Wrap* helpers; both interoperate
// with the standard errors.Is / errors.As machinery.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeBuild      ErrorType = "build"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeConfigMissing    = "ERR_CONFIG_MISSING"
	ErrCodeConfigMalformed  = "ERR_CONFIG_MALFORMED"
	ErrCodeConfigField      = "ERR_CONFIG_FIELD"
	ErrCodeFileNotFound     = "ERR_FILE_NOT_FOUND"
	ErrCodeWriteFailed      = "ERR_WRITE_FAILED"
	ErrCodeRenderFailed     = "ERR_RENDER_FAILED"
	ErrCodeDuplicateSlot    = "ERR_DUPLICATE_SLOT"
	ErrCodeScaffoldExists   = "ERR_SCAFFOLD_EXISTS"
	ErrCodeValidationFailed = "ERR_VALIDATION_FAILED"
	ErrCodeInternalError    = "ERR_INTERNAL"
)

// SiteError is a structured error type with context.
type SiteError struct {
	Type     ErrorType
	Code     string
	Message  string
	Cause    error
	Context  map[string]interface{}
	FilePath string
}

// Error implements the error interface.
func (e *SiteError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *SiteError) Unwrap() error {
	return e.Cause
}

// Is reports a match when both type and code agree.
func (e *SiteError) Is(target error) bool {
	var t *SiteError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *SiteError) WithContext(key string, value interface{}) *SiteError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithFile records the file the error concerns.
func (e *SiteError) WithFile(filePath string) *SiteError {
	e.FilePath = filePath

	return e
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *SiteError {
	return &SiteError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
	}
}

// NewBuildError creates a build error.
func NewBuildError(code, message string, cause error) *SiteError {
	return &SiteError{
		Type:    ErrorTypeBuild,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *SiteError {
	return &SiteError{
		Type:    ErrorTypeIO,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *SiteError {
	return &SiteError{
		Type:    ErrorTypeConfig,
		Code:    code,
		Message: message,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *SiteError {
	return &SiteError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IsConfigError checks if an error is configuration-related.
func IsConfigError(err error) bool {
	return hasType(err, ErrorTypeConfig)
}

// IsIOError checks if an error is I/O-related.
func IsIOError(err error) bool {
	return hasType(err, ErrorTypeIO)
}

// IsBuildError checks if an error is build-related.
func IsBuildError(err error) bool {
	return hasType(err, ErrorTypeBuild)
}

func hasType(err error, t ErrorType) bool {
	var se *SiteError
	if errors.As(err, &se) {
		return se.Type == t
	}

	return false
}

// ErrMissingField reports a required configuration key that is absent.
func ErrMissingField(file, key string) *SiteError {
	return NewConfigError(ErrCodeConfigField, "missing required field: "+key).
		WithFile(file).
		WithContext("field", key)
}

// ErrFileNotFound creates a missing-file error.
func ErrFileNotFound(path string, cause error) *SiteError {
	return NewIOError(ErrCodeFileNotFound, "file not found", cause).WithFile(path)
}
