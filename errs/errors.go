// Package errs defines the typed request errors shared by the service and
// controller layers. Every service failure is one of these; the error
// middleware maps them onto the wire envelope and anything else onto a
// generic 500.
package errs

import (
	"errors"
	"net/http"
)

const (
	CodeValidation        = "validation_error"
	CodeUserNotFound      = "user_not_found"
	CodeIncorrectPassword = "incorrect_password"
	CodeNotAuthenticated  = "not_authenticated"
	CodeUserAlreadyExists = "user_already_exists"
	CodeUnknown           = "unknown_error"
)

// FieldError carries every violated rule for a single input field.
type FieldError struct {
	Path     string   `json:"path"`
	Messages []string `json:"messages"`
}

// RequestError is an error with an HTTP status and a stable error code.
type RequestError struct {
	Status  int          `json:"-"`
	Code    string       `json:"errorCode"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

func (e *RequestError) Error() string {
	return e.Message
}

// NewValidation returns a validation_error carrying the accumulated field
// errors. Callers collect all violations before constructing it, never just
// the first one.
func NewValidation(fields []FieldError) *RequestError {
	return &RequestError{
		Status:  http.StatusBadRequest,
		Code:    CodeValidation,
		Message: "Invalid inputs",
		Errors:  fields,
	}
}

func NewUserNotFound() *RequestError {
	return &RequestError{
		Status:  http.StatusNotFound,
		Code:    CodeUserNotFound,
		Message: "User was not found",
	}
}

func NewIncorrectPassword() *RequestError {
	return &RequestError{
		Status:  http.StatusBadRequest,
		Code:    CodeIncorrectPassword,
		Message: "Incorrect password",
	}
}

func NewNotAuthenticated() *RequestError {
	return &RequestError{
		Status:  http.StatusUnauthorized,
		Code:    CodeNotAuthenticated,
		Message: "Not authenticated",
	}
}

func NewUserAlreadyExists() *RequestError {
	return &RequestError{
		Status:  http.StatusBadRequest,
		Code:    CodeUserAlreadyExists,
		Message: "User with same username already exists",
	}
}

func NewUnknown() *RequestError {
	return &RequestError{
		Status:  http.StatusInternalServerError,
		Code:    CodeUnknown,
		Message: "Unknown error",
	}
}

// As unwraps err into a *RequestError if it is one.
func As(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}
