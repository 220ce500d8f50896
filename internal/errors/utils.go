package errors

import (
	"errors"
)

// Wrap wraps an error with additional context, creating a SiteError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *SiteError {
	if err == nil {
		return nil
	}

	// Keep the inner file path so the outermost error still names the file.
	var se *SiteError
	if errors.As(err, &se) {
		return &SiteError{
			Type:     errType,
			Code:     code,
			Message:  message,
			Cause:    se,
			Context:  se.Context,
			FilePath: se.FilePath,
		}
	}

	return &SiteError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// WrapBuild wraps an error as a build error.
func WrapBuild(err error, code, message string) *SiteError {
	return Wrap(err, ErrorTypeBuild, code, message)
}

// WrapIO wraps an error as an I/O error for the given file.
func WrapIO(err error, code, message, file string) *SiteError {
	se := Wrap(err, ErrorTypeIO, code, message)
	if se != nil && file != "" {
		se.FilePath = file
	}
	return se
}

// WrapConfig wraps an error as a configuration error for the given file.
func WrapConfig(err error, code, message, file string) *SiteError {
	se := Wrap(err, ErrorTypeConfig, code, message)
	if se != nil && file != "" {
		se.FilePath = file
	}
	return se
}

// GetErrorType extracts the error type from an error, returning empty string if not a SiteError
func GetErrorType(err error) ErrorType {
	var se *SiteError
	if errors.As(err, &se) {
		return se.Type
	}
	return ""
}

// GetErrorCode extracts the error code from an error, returning empty string if not a SiteError
func GetErrorCode(err error) string {
	var se *SiteError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
