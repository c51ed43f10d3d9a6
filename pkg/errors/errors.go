// Package errors provides structured error types for xrpex.
//
// This package defines error codes that let the CLI map failures from the
// ratio engine and the display collaborator to stable, machine-readable
// categories and to short user-facing messages.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input that does not match a grammar or naming rule
//   - UNSOLVABLE_*: Well-formed ratios that cannot be realized exactly
//   - *_NOT_FOUND: Missing resources such as monitors
//   - DISPLAY_ERROR / INTERNAL_ERROR: Failures outside the user's control
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidMonitor, "monitor name cannot be empty")
//	if errors.Is(err, errors.ErrCodeInvalidMonitor) {
//	    // Handle validation error
//	}
//
//	// Classify an error coming out of the ratio engine
//	err = errors.Classify(evalErr, "evaluate %s", ratio)
package errors

import (
	"errors"
	"fmt"

	"github.com/xrpex/xrpex/pkg/rpex"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidRatio     Code = "INVALID_RATIO"
	ErrCodeInvalidRectangle Code = "INVALID_RECTANGLE"
	ErrCodeInvalidMonitor   Code = "INVALID_MONITOR"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	// Ratios that parse but cannot be realized on the rectangle
	ErrCodeDoesNotDivide Code = "UNSOLVABLE_DOES_NOT_DIVIDE"
	ErrCodeUnequalScales Code = "UNSOLVABLE_UNEQUAL_SCALES"
	ErrCodeUnsolvable    Code = "UNSOLVABLE_RATIO"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeMonitorNotFound Code = "MONITOR_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Display and internal errors
	ErrCodeDisplay     Code = "DISPLAY_ERROR"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message and the cause without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}

// CodeOf maps an error from the ratio engine to its code.
// Unknown errors map to ErrCodeInternal.
func CodeOf(err error) Code {
	var (
		pe *rpex.ParseError
		ue *rpex.UnequalScalesError
		dd *rpex.DoesNotDivideError
		el *rpex.ExceedsLengthError
		ov *rpex.OverflowError
		dm *rpex.DimensionMismatchError
		zl *rpex.ZeroLengthError
	)
	switch {
	case errors.As(err, &zl):
		return ErrCodeInvalidRectangle
	case errors.As(err, &pe) && pe.Code == rpex.KindZeroLength:
		return ErrCodeInvalidRectangle
	case errors.As(err, &pe):
		return ErrCodeInvalidRatio
	case errors.As(err, &ue):
		return ErrCodeUnequalScales
	case errors.As(err, &dd):
		return ErrCodeDoesNotDivide
	case errors.As(err, &el), errors.As(err, &ov):
		return ErrCodeUnsolvable
	case errors.As(err, &dm), errors.Is(err, rpex.ErrZeroDimensions):
		return ErrCodeInvalidInput
	default:
		return ErrCodeInternal
	}
}

// Classify wraps err with the code chosen by CodeOf.
// Errors that already carry a code are returned unchanged.
func Classify(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if GetCode(err) != "" {
		return err
	}
	return Wrap(CodeOf(err), err, format, args...)
}
