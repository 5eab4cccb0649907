// apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed submission.
type Kind string

// Submission failure kinds. Every kind except InternalError is a
// user-correctable input problem.
const (
	MissingData   Kind = "MissingData"
	MissingName   Kind = "MissingName"
	MissingEmail  Kind = "MissingEmail"
	InvalidName   Kind = "InvalidName"
	InvalidEmail  Kind = "InvalidEmail"
	InternalError Kind = "InternalError"
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case MissingData, MissingName, MissingEmail, InvalidName, InvalidEmail:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GenericMessage is the client-facing message for InternalError.
const GenericMessage = "An error occurred while processing your request"

// Error is a structured submission failure: a kind, a human-readable
// message, and a short machine-oriented tag that is sent as "error".
type Error struct {
	Kind    Kind
	Message string
	Tag     string

	// Err is the underlying fault, if any. Only InternalError carries one.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for the error.
func (e *Error) HTTPStatus() int {
	return e.Kind.Status()
}

// New creates an Error of the given kind.
func New(kind Kind, message, tag string) *Error {
	return &Error{Kind: kind, Message: message, Tag: tag}
}

// NoData and the constructors below build the input-error kinds with their
// fixed client-facing text.
func NoData() *Error {
	return New(MissingData, "No data received", "Missing JSON data")
}

func NoName() *Error {
	return New(MissingName, "Name is required", "Missing name field")
}

func NoEmail() *Error {
	return New(MissingEmail, "Email is required", "Missing email field")
}

func BadName() *Error {
	return New(InvalidName, "Name must be between 2 and 50 characters", "Invalid name format")
}

func BadEmail() *Error {
	return New(InvalidEmail, "Please enter a valid email address", "Invalid email format")
}

// Internal wraps an unexpected fault. The fault's description becomes the
// tag so it reaches the client for diagnostics.
func Internal(err error) *Error {
	tag := "unknown error"
	if err != nil {
		tag = err.Error()
	}
	return &Error{
		Kind:    InternalError,
		Message: GenericMessage,
		Tag:     tag,
		Err:     err,
	}
}

// From extracts an *Error from err if possible, or wraps it as an internal error.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// KindOf returns the kind of err, or InternalError for foreign errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return From(err).Kind
}
