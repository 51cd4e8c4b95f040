package errors

import (
	"errors"
	"fmt"
)

// Standard error types for the complaint workflow. Every failure a stage can
// produce maps to exactly one of these; stages recover by returning to the
// nearest safe state, none of them is fatal to the process.
var (
	ErrCapabilityMissing  = errors.New("required capability missing")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrUnavailable        = errors.New("capability unavailable")
	ErrTimedOut           = errors.New("timed out")
	ErrBackendUnreachable = errors.New("backend unreachable")
	ErrSubmissionFailed   = errors.New("submission failed")
	ErrInvalidState       = errors.New("invalid state")
)

// AppError represents a workflow error with context
type AppError struct {
	Err     error  `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code string, message string) *AppError {
	return &AppError{
		Err:     err,
		Code:    code,
		Message: message,
	}
}

// Common error constructors

func CapabilityMissing(capability string) *AppError {
	return &AppError{
		Err:     ErrCapabilityMissing,
		Code:    "CAPABILITY_MISSING",
		Message: fmt.Sprintf("%s is not available on this device", capability),
	}
}

func PermissionDenied(capability string) *AppError {
	return &AppError{
		Err:     ErrPermissionDenied,
		Code:    "PERMISSION_DENIED",
		Message: fmt.Sprintf("permission for %s was denied", capability),
	}
}

func Unavailable(capability string) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Code:    "UNAVAILABLE",
		Message: fmt.Sprintf("%s could not produce a result", capability),
	}
}

func TimedOut(operation string) *AppError {
	return &AppError{
		Err:     ErrTimedOut,
		Code:    "TIMED_OUT",
		Message: fmt.Sprintf("%s timed out", operation),
	}
}

func BackendUnreachable(err error) *AppError {
	return &AppError{
		Err:     errors.Join(ErrBackendUnreachable, err),
		Code:    "BACKEND_UNREACHABLE",
		Message: "backend is not reachable",
	}
}

func SubmissionFailed(err error) *AppError {
	return &AppError{
		Err:     errors.Join(ErrSubmissionFailed, err),
		Code:    "SUBMISSION_FAILED",
		Message: "submission failed, please try again",
	}
}

func InvalidState(message string) *AppError {
	return &AppError{
		Err:     ErrInvalidState,
		Code:    "INVALID_STATE",
		Message: message,
	}
}

// Is reports whether any error in err's tree matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// CodeOf extracts the AppError code, or "UNKNOWN" for foreign errors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}
