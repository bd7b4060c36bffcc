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
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Identity errors
	ErrMalformedIdentity ErrorCode = "MALFORMED_IDENTITY"

	// Resolution errors
	ErrArtifactNotFound ErrorCode = "ARTIFACT_NOT_FOUND"
	ErrNetwork          ErrorCode = "NETWORK"
	ErrChecksumMismatch ErrorCode = "CHECKSUM_MISMATCH"

	// Manifest errors
	ErrUnsafeEntryPath ErrorCode = "UNSAFE_ENTRY_PATH"
	ErrDuplicateEntry  ErrorCode = "DUPLICATE_ENTRY"
	ErrCorruptManifest ErrorCode = "CORRUPT_MANIFEST"
	ErrArchiveRead     ErrorCode = "ARCHIVE_READ"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// DopatchError represents a structured error with code and details
type DopatchError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DopatchError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DopatchError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DopatchError) Is(target error) bool {
	var targetErr *DopatchError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DopatchError with the given code and message
func New(code ErrorCode, message string) *DopatchError {
	return &DopatchError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DopatchError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DopatchError {
	return &DopatchError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DopatchError
func Wrap(err error, code ErrorCode, message string) *DopatchError {
	if err == nil {
		return nil
	}
	return &DopatchError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DopatchError {
	if err == nil {
		return nil
	}
	return &DopatchError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DopatchError) WithDetail(key string, value interface{}) *DopatchError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *DopatchError) WithDetails(details map[string]interface{}) *DopatchError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode reports whether any DopatchError in err's chain carries code.
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var dopatchErr *DopatchError
		if !errors.As(err, &dopatchErr) {
			return false
		}
		if dopatchErr.Code == code {
			return true
		}
		err = dopatchErr.Wrapped
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DopatchError
func GetErrorCode(err error) ErrorCode {
	var dopatchErr *DopatchError
	if errors.As(err, &dopatchErr) {
		return dopatchErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DopatchError
func GetErrorDetails(err error) map[string]interface{} {
	var dopatchErr *DopatchError
	if errors.As(err, &dopatchErr) {
		return dopatchErr.Details
	}
	return nil
}

// IsRetryable reports whether err is a transient failure that a caller may
// retry without changing its input. A checksum mismatch qualifies because a
// failed verification never leaves a cache entry, so the retry re-fetches.
func IsRetryable(err error) bool {
	return IsErrorCode(err, ErrNetwork) || IsErrorCode(err, ErrChecksumMismatch)
}
