// Package errors is the typed error vocabulary shared by services and the
// HTTP layer. A Code fixes the status, retry hint and how much of the error a
// client may see.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeInvalidPayload  Code = "INVALID_PAYLOAD"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeIdempotency     Code = "IDEMPOTENCY_KEY_REUSED"
	CodeStorage         Code = "STORAGE_FAILURE"
	CodeDependency      Code = "DEPENDENCY_ERROR"
	CodeInternal        Code = "INTERNAL_ERROR"
)

// Metadata is the HTTP policy of a code. ExposeMessage lets the caller's own
// message replace PublicMessage; DetailsAllowed does the same for details.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	ExposeMessage  bool
	DetailsAllowed bool
}

func clientError(status int, public string, details bool) Metadata {
	return Metadata{HTTPStatus: status, PublicMessage: public, ExposeMessage: true, DetailsAllowed: details}
}

func serverError(status int, public string, details bool) Metadata {
	return Metadata{HTTPStatus: status, PublicMessage: public, Retryable: true, DetailsAllowed: details}
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:      clientError(http.StatusBadRequest, "validation failed", true),
	CodeInvalidPayload:  clientError(http.StatusBadRequest, "invalid payload", true),
	CodeUnauthenticated: clientError(http.StatusUnauthorized, "authentication required", false),
	CodeForbidden:       clientError(http.StatusForbidden, "access denied", false),
	CodeNotFound:        clientError(http.StatusNotFound, "resource not found", false),
	CodeConflict:        clientError(http.StatusConflict, "conflict detected", false),
	CodeInvalidState:    clientError(http.StatusUnprocessableEntity, "state transition disallowed", true),
	CodeIdempotency:     clientError(http.StatusConflict, "idempotency key reused", true),
	CodeStorage:         serverError(http.StatusServiceUnavailable, "storage unavailable", false),
	CodeDependency:      serverError(http.StatusServiceUnavailable, "dependency unavailable", true),
	CodeInternal:        serverError(http.StatusInternalServerError, "internal server error", false),
}

// MetadataFor falls back to CodeInternal for unknown codes.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails attaches structured context and returns e for chaining.
func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the outermost typed error in err's chain.
func As(err error) *Error {
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsCode reports whether err carries the given code anywhere in its chain.
func IsCode(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
