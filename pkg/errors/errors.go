// Package errors provides structured error types for sceneforge.
//
// Errors carry a machine-readable [Code] so the CLI, the terminal editor and
// the HTTP API can react to the category of a failure without parsing
// messages:
//   - INVALID_*: input validation failures
//   - *_NOT_FOUND: an id or path that does not resolve
//   - CANCELED: the user backed out of an interactive operation
//   - IO_ERROR: persistence or asset import failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidName, "name cannot be empty")
//	if errors.Is(err, errors.ErrCodeInvalidName) {
//	    // reject the input
//	}
//
//	err = errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidName    Code = "INVALID_NAME"
	ErrCodeInvalidTag     Code = "INVALID_TAG"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidProject Code = "INVALID_PROJECT"
	ErrCodeCycle          Code = "CYCLE"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeObjectNotFound  Code = "OBJECT_NOT_FOUND"
	ErrCodeSceneNotFound   Code = "SCENE_NOT_FOUND"
	ErrCodeProjectNotFound Code = "PROJECT_NOT_FOUND"

	// State errors
	ErrCodeNoProject Code = "NO_PROJECT"
	ErrCodeCanceled  Code = "CANCELED"

	// Backend errors
	ErrCodeIO          Code = "IO_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
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
// The outermost *Error in the chain decides.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsCanceled reports whether err anywhere in its chain carries the CANCELED code.
// A canceled dialog is wrapped by several layers before it reaches the UI,
// so unlike Is this looks past the outermost code.
func IsCanceled(err error) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == ErrCodeCanceled {
			return true
		}
		err = e.Cause
	}
	return false
}

// IsNotFound reports whether err carries one of the not-found codes.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeObjectNotFound, ErrCodeSceneNotFound, ErrCodeProjectNotFound:
		return true
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

// UserMessage returns the message without the code prefix for *Error values
// and err.Error() otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
