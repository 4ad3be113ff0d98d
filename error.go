package erldoc

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECANCELED = "canceled"
	EHTTP     = "http"
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	EIO       = "io"
	ENETWORK  = "network"
	ENOTFOUND = "not_found"
	EPARSE    = "parse"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract the code and message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string

	// Status holds the remote HTTP status code for EHTTP errors.
	Status int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("erldoc error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// HTTPErrorf returns an EHTTP error carrying the remote status code.
func HTTPErrorf(status int, format string, args ...any) *Error {
	return &Error{
		Code:    EHTTP,
		Message: fmt.Sprintf(format, args...),
		Status:  status,
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// HTTPStatus returns the remote status code carried by an EHTTP error,
// or 0 for any other error.
func HTTPStatus(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Code == EHTTP {
		return e.Status
	}
	return 0
}

// IsTransient reports whether err is worth retrying: network failures,
// 5xx responses and 429 Too Many Requests.
func IsTransient(err error) bool {
	switch ErrorCode(err) {
	case ENETWORK:
		return true
	case EHTTP:
		status := HTTPStatus(err)
		return status >= 500 || status == 429
	}
	return false
}
