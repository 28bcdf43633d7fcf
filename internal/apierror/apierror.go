// Package apierror defines the closed set of application errors that the HTTP
// layer knows how to render, together with the wire model they serialize to.
//
// Every variant is a Kind with a fixed status code and machine-readable code.
// The mapping lives in a single table so that adding a variant means adding a
// row rather than a new type:
//
//	Kind                  status  code
//	KindServer            500     server-error
//	KindNotFound          404     not-found
//	KindMethodNotAllowed  405     method-not-allowed
//	KindValidation        400     validation-error
//	KindInvalidJSON       400     invalid-json
//
// Errors are created where a fault is detected, consumed once by the
// translator in internal/http/handlers, and then discarded.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind tags an Error with one of the known variants.
type Kind int

const (
	KindServer Kind = iota
	KindNotFound
	KindMethodNotAllowed
	KindValidation
	KindInvalidJSON
)

// Machine-readable codes, stable across releases.
const (
	CodeServer           = "server-error"
	CodeNotFound         = "not-found"
	CodeMethodNotAllowed = "method-not-allowed"
	CodeValidation       = "validation-error"
	CodeInvalidJSON      = "invalid-json"
)

type variant struct {
	status int
	code   string
}

var variants = map[Kind]variant{
	KindServer:           {http.StatusInternalServerError, CodeServer},
	KindNotFound:         {http.StatusNotFound, CodeNotFound},
	KindMethodNotAllowed: {http.StatusMethodNotAllowed, CodeMethodNotAllowed},
	KindValidation:       {http.StatusBadRequest, CodeValidation},
	KindInvalidJSON:      {http.StatusBadRequest, CodeInvalidJSON},
}

// lookup returns the variant row for k. Unknown kinds resolve to the server
// error row so that a bad tag can never produce an empty status or code.
func (k Kind) lookup() variant {
	if v, ok := variants[k]; ok {
		return v
	}
	return variants[KindServer]
}

// StatusCode returns the HTTP status associated with k.
func (k Kind) StatusCode() int { return k.lookup().status }

// Code returns the machine-readable code associated with k.
func (k Kind) Code() string { return k.lookup().code }

// String implements fmt.Stringer.
func (k Kind) String() string { return k.Code() }

// Error is an application-level fault that renders to a JSON error response.
//
// Data is an optional payload that is serialized verbatim; only validation
// errors set it. Cause is kept for logging and errors.Is/As and is never sent
// to clients.
type Error struct {
	Kind  Kind
	Data  any
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%d): %v", e.Kind.Code(), e.Kind.StatusCode(), e.Cause)
	}
	return fmt.Sprintf("%s (%d)", e.Kind.Code(), e.Kind.StatusCode())
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.Cause }

// StatusCode returns the HTTP status code of the error.
func (e *Error) StatusCode() int { return e.Kind.StatusCode() }

// Code returns the machine-readable error code.
func (e *Error) Code() string { return e.Kind.Code() }

// Is reports whether target is an *Error of the same Kind, so callers can
// write errors.Is(err, apierror.NotFound()).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithCause sets the underlying cause and returns the receiver.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// Server returns a 500 server-error. It never carries data.
func Server() *Error { return &Error{Kind: KindServer} }

// NotFound returns a 404 not-found error.
func NotFound() *Error { return &Error{Kind: KindNotFound} }

// MethodNotAllowed returns a 405 method-not-allowed error.
func MethodNotAllowed() *Error { return &Error{Kind: KindMethodNotAllowed} }

// Validation returns a 400 validation-error carrying data that describes
// which fields failed and why.
func Validation(data any) *Error { return &Error{Kind: KindValidation, Data: data} }

// InvalidJSON returns a 400 invalid-json error.
func InvalidJSON() *Error { return &Error{Kind: KindInvalidJSON} }

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr != nil {
		return apiErr, true
	}
	return nil, false
}
