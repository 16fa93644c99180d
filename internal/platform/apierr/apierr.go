package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the HTTP-facing error. Message is what the caller sees; Err is the
// internal cause and is only ever logged.
type Error struct {
	Status  int
	Code    string
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &Error{Status: status, Code: code, Message: msg, Err: err}
}

func NotFound(what string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "not_found", Message: what + " not found"}
}

func Unauthorized() *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "unauthenticated"}
}

func Forbidden(msg string) *Error {
	if msg == "" {
		msg = "forbidden"
	}
	return &Error{Status: http.StatusForbidden, Code: "forbidden", Message: msg}
}

// Validation reports per-field rule failures.
func Validation(fields map[string][]string) *Error {
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    "validation_failed",
		Message: "The given data was invalid.",
		Fields:  fields,
	}
}

// FieldError is Validation for a single field.
func FieldError(field, msg string) *Error {
	return Validation(map[string][]string{field: {msg}})
}

// TransactionFailed hides cause behind a generic retry-later message.
func TransactionFailed(message string, cause error) *Error {
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    "transaction_failed",
		Message: message,
		Err:     cause,
	}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
