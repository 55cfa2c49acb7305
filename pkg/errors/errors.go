package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Provisioning errors
	ErrToolNotFound    ErrorCode = "TOOL_NOT_FOUND"
	ErrInstallFailed   ErrorCode = "INSTALL_FAILED"
	ErrBootstrapFailed ErrorCode = "BOOTSTRAP_FAILED"
	ErrVerifyFailed    ErrorCode = "VERIFY_FAILED"

	// Settings errors
	ErrSettingsParse   ErrorCode = "SETTINGS_PARSE"
	ErrSettingsWrite   ErrorCode = "SETTINGS_WRITE"
	ErrSettingsRestore ErrorCode = "SETTINGS_RESTORE"

	// Profile errors
	ErrProfileRead ErrorCode = "PROFILE_READ"
	ErrProfileSync ErrorCode = "PROFILE_SYNC"

	// Network errors
	ErrNetwork  ErrorCode = "NETWORK"
	ErrDownload ErrorCode = "DOWNLOAD"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// StrapError represents a structured error with code and details
type StrapError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *StrapError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *StrapError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *StrapError) Is(target error) bool {
	var targetErr *StrapError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new StrapError with the given code and message
func New(code ErrorCode, message string) *StrapError {
	return &StrapError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new StrapError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *StrapError {
	return &StrapError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a StrapError
func Wrap(err error, code ErrorCode, message string) *StrapError {
	if err == nil {
		return nil
	}
	return &StrapError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *StrapError {
	if err == nil {
		return nil
	}
	return &StrapError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *StrapError) WithDetail(key string, value interface{}) *StrapError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var strapErr *StrapError
	if errors.As(err, &strapErr) {
		return strapErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a StrapError
func GetErrorCode(err error) ErrorCode {
	var strapErr *StrapError
	if errors.As(err, &strapErr) {
		return strapErr.Code
	}
	return ErrUnknown
}
