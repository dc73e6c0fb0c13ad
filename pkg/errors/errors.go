// Package errors provides the coded errors shared by the pkgcycle CLI and
// HTTP API.
//
// Every user-facing failure carries a [Code]. The API turns the code into a
// status and a JSON body; the CLI turns it into an exit status via
// [ExitCode]. Codes are grouped by prefix:
//
//   - INVALID_*: the caller sent something unusable (bad flag, config, facts)
//   - *NOT_FOUND: a named resource does not exist
//   - CYCLES_FOUND: analysis succeeded but the tree has package cycles
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidLanguage, "unsupported language: %s", lang)
//	if errors.Is(err, errors.ErrCodeInvalidLanguage) {
//	    ...
//	}
//
//	err = errors.Wrap(errors.ErrCodeInvalidGraph, err, "cannot enumerate circuits")
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidLanguage Code = "INVALID_LANGUAGE"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidGraph    Code = "INVALID_GRAPH"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeReportNotFound Code = "REPORT_NOT_FOUND"

	ErrCodeCyclesFound Code = "CYCLES_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Codes lists every defined code.
var Codes = []Code{
	ErrCodeInvalidInput, ErrCodeInvalidLanguage, ErrCodeInvalidFormat,
	ErrCodeInvalidPath, ErrCodeInvalidGraph, ErrCodeInvalidConfig,
	ErrCodeNotFound, ErrCodeReportNotFound,
	ErrCodeCyclesFound,
	ErrCodeInternal, ErrCodeUnsupported,
}

// Invalid reports whether c is an input validation code.
func (c Code) Invalid() bool { return strings.HasPrefix(string(c), "INVALID_") }

// NotFound reports whether c names a missing resource.
func (c Code) NotFound() bool { return strings.HasSuffix(string(c), "NOT_FOUND") }

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error formats the error as "CODE: message[: cause]".
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without the code
// prefix, or err.Error() for other errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ExitCode maps err to a process exit status: 0 for nil, 2 for
// [ErrCodeCyclesFound], 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case Is(err, ErrCodeCyclesFound):
		return 2
	default:
		return 1
	}
}
