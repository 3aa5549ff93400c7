// Package errors provides standardized domain errors with codes for the
// campus library API.
//
// Usage:
//
//	// In services - return typed errors
//	if activeLoans >= cap {
//	    return errors.StudentLoanLimit("loan limit reached")
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrNotFound) {
//	    response.NotFound(w, err.Error(), logger)
//	    return
//	}
//
//	// Or use the Code directly for switch statements
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeNoCopiesAvailable:
//	        ...
//	    }
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application. The four admission codes plus
// NOTHING_TO_RETURN are the structured reasons surfaced per circulation item.
const (
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
	CodeValidation    Code = "VALIDATION"
	CodeConflict      Code = "CONFLICT"
	CodeInternal      Code = "INTERNAL"

	CodeStudentLoanLimit  Code = "STUDENT_LOAN_LIMIT"
	CodeDailyLimitReached Code = "DAILY_LIMIT_REACHED"
	CodeNoCopiesAvailable Code = "NO_COPIES_AVAILABLE"
	CodeAlreadyBorrowed   Code = "ALREADY_BORROWED"
	CodeNothingToReturn   Code = "NOTHING_TO_RETURN"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeConflict, CodeAlreadyBorrowed:
		return http.StatusConflict
	case CodeValidation:
		return http.StatusBadRequest
	case CodeStudentLoanLimit, CodeDailyLimitReached, CodeNoCopiesAvailable, CodeNothingToReturn:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound      = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists = &Error{Code: CodeAlreadyExists, Message: "already exists"}
	ErrValidation    = &Error{Code: CodeValidation, Message: "validation error"}
	ErrConflict      = &Error{Code: CodeConflict, Message: "conflict"}
	ErrInternal      = &Error{Code: CodeInternal, Message: "internal error"}

	ErrStudentLoanLimit  = &Error{Code: CodeStudentLoanLimit, Message: "student loan limit reached"}
	ErrDailyLimitReached = &Error{Code: CodeDailyLimitReached, Message: "daily borrowing limit reached"}
	ErrNoCopiesAvailable = &Error{Code: CodeNoCopiesAvailable, Message: "no copies available"}
	ErrAlreadyBorrowed   = &Error{Code: CodeAlreadyBorrowed, Message: "book already borrowed"}
	ErrNothingToReturn   = &Error{Code: CodeNothingToReturn, Message: "nothing to return"}
)

// Constructor functions for creating errors with custom messages.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// AlreadyExists creates an already exists error.
func AlreadyExists(msg string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: msg}
}

// AlreadyExistsf creates an already exists error with formatted message.
func AlreadyExistsf(format string, args ...any) *Error {
	return &Error{Code: CodeAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Conflict creates a conflict error.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// StudentLoanLimit creates a student loan limit error.
func StudentLoanLimit(msg string) *Error {
	return &Error{Code: CodeStudentLoanLimit, Message: msg}
}

// StudentLoanLimitf creates a student loan limit error with formatted message.
func StudentLoanLimitf(format string, args ...any) *Error {
	return &Error{Code: CodeStudentLoanLimit, Message: fmt.Sprintf(format, args...)}
}

// DailyLimitReached creates a daily limit error.
func DailyLimitReached(msg string) *Error {
	return &Error{Code: CodeDailyLimitReached, Message: msg}
}

// DailyLimitReachedf creates a daily limit error with formatted message.
func DailyLimitReachedf(format string, args ...any) *Error {
	return &Error{Code: CodeDailyLimitReached, Message: fmt.Sprintf(format, args...)}
}

// NoCopiesAvailable creates a copy availability error.
func NoCopiesAvailable(msg string) *Error {
	return &Error{Code: CodeNoCopiesAvailable, Message: msg}
}

// NoCopiesAvailablef creates a copy availability error with formatted message.
func NoCopiesAvailablef(format string, args ...any) *Error {
	return &Error{Code: CodeNoCopiesAvailable, Message: fmt.Sprintf(format, args...)}
}

// AlreadyBorrowed creates a duplicate active loan error.
func AlreadyBorrowed(msg string) *Error {
	return &Error{Code: CodeAlreadyBorrowed, Message: msg}
}

// AlreadyBorrowedf creates a duplicate active loan error with formatted message.
func AlreadyBorrowedf(format string, args ...any) *Error {
	return &Error{Code: CodeAlreadyBorrowed, Message: fmt.Sprintf(format, args...)}
}

// NothingToReturn creates an error for a return with no active loan.
func NothingToReturn(msg string) *Error {
	return &Error{Code: CodeNothingToReturn, Message: msg}
}

// NothingToReturnf creates a nothing-to-return error with formatted message.
func NothingToReturnf(format string, args ...any) *Error {
	return &Error{Code: CodeNothingToReturn, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
