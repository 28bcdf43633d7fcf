// Package handlers turns errors raised while handling a request into the
// standard JSON error response.
//
// This file holds the translator. Every error that reaches the response
// boundary is classified by an ordered table of named handlers, most specific
// first:
//
//  1. handleAPIError             *apierror.Error            -> itself
//  2. handleBadRequest           bad request, JSON decode   -> invalid-json
//  3. handleNotFound             no matching route          -> not-found
//  4. handleMethodNotAllowed     route exists, wrong method -> method-not-allowed
//  5. handleInternalServerError  internal server error      -> server-error
//
// Anything left over goes to handleUncaught, which logs the error with full
// request context and answers with server-error. Exactly one handler applies
// to any input, and none of them can fail.
//
// Decode request bodies with BindJSON, not gin's c.BindJSON or c.Bind*: those
// write a 400 status before the translator runs, leaving the client an empty
// body.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/tbourn/go-api-errors/internal/apierror"
	"github.com/tbourn/go-api-errors/internal/http/fault"
	"github.com/tbourn/go-api-errors/internal/http/middleware"
)

// translator maps an error to an API error. ok is false when the error is
// not in the handler's category.
type translator func(c *gin.Context, err error) (apiErr *apierror.Error, ok bool)

// route is one named entry of the classification table.
type route struct {
	name      string
	translate translator
}

var routes = []route{
	{"api_error", handleAPIError},
	{"bad_request", handleBadRequest},
	{"not_found", handleNotFound},
	{"method_not_allowed", handleMethodNotAllowed},
	{"internal_server_error", handleInternalServerError},
}

// Translate classifies err and returns the API error to render. It always
// returns a non-nil error value.
func Translate(c *gin.Context, err error) *apierror.Error {
	err = normalize(err)
	for _, r := range routes {
		if apiErr, ok := r.translate(c, err); ok {
			middleware.LoggerFrom(c).Debug().
				Str("translator", r.name).
				Str("code", apiErr.Code()).
				Msg("error translated")
			return apiErr
		}
	}
	return handleUncaught(c, err)
}

// normalize rewrites errors recorded with gin.ErrorTypeBind, e.g.
// c.Error(err).SetType(gin.ErrorTypeBind) after c.ShouldBindJSON, into the
// categories the table knows: decode failures become a JSON bad request and
// struct-tag failures become a validation-error. Errors from c.BindJSON never
// get here with a body to write, because it sends a bare 400 itself; use
// BindJSON from this package instead.
func normalize(err error) error {
	var ge *gin.Error
	if !errors.As(err, &ge) || !ge.IsType(gin.ErrorTypeBind) {
		return err
	}
	return bindError(ge.Err)
}

func bindError(err error) error {
	var ves validator.ValidationErrors
	switch {
	case errors.As(err, &ves):
		return apierror.FromValidationErrors(err)
	case isJSONDecodeError(err):
		return fault.DecodeJSON(err)
	default:
		return fault.NewBadRequest(http.StatusText(http.StatusBadRequest), err)
	}
}

// isJSONDecodeError reports whether err came from decoding a malformed or
// mistyped JSON body, including an empty one.
func isJSONDecodeError(err error) bool {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

func handleAPIError(c *gin.Context, err error) (*apierror.Error, bool) {
	apiErr, ok := apierror.As(err)
	if !ok {
		return nil, false
	}
	if apiErr.StatusCode() >= http.StatusInternalServerError {
		ev := middleware.LoggerFrom(c).Error().
			Int("status", apiErr.StatusCode()).
			Str("code", apiErr.Code())
		if apiErr.Cause != nil {
			ev = ev.Err(apiErr.Cause)
		}
		ev.Msg("api error")
	}
	return apiErr, true
}

func handleBadRequest(_ *gin.Context, err error) (*apierror.Error, bool) {
	f, ok := asFault(err, fault.BadRequest)
	if !ok || !f.IsJSONDecode() {
		// Other bad requests fall through to handleUncaught.
		return nil, false
	}
	return apierror.InvalidJSON().WithCause(err), true
}

func handleNotFound(_ *gin.Context, err error) (*apierror.Error, bool) {
	if _, ok := asFault(err, fault.NotFound); !ok {
		return nil, false
	}
	return apierror.NotFound(), true
}

func handleMethodNotAllowed(_ *gin.Context, err error) (*apierror.Error, bool) {
	if _, ok := asFault(err, fault.MethodNotAllowed); !ok {
		return nil, false
	}
	return apierror.MethodNotAllowed(), true
}

// handleInternalServerError maps faults already reported elsewhere (Recovery
// logs panics with their stack) and so does not log again.
func handleInternalServerError(_ *gin.Context, err error) (*apierror.Error, bool) {
	if _, ok := asFault(err, fault.InternalServerError); !ok {
		return nil, false
	}
	return apierror.Server().WithCause(err), true
}

// handleUncaught is the fallback for every error outside the table. The
// client only sees server-error; the details go to the log.
func handleUncaught(c *gin.Context, err error) *apierror.Error {
	if err == nil {
		err = errors.New("nil error reached the error translator")
	}
	ev := middleware.LoggerFrom(c).Error().
		Err(err).
		Str("error_type", fmt.Sprintf("%T", rootCause(err))).
		Str("error_chain", fmt.Sprintf("%+v", err)).
		Str("route", c.FullPath())
	if c.Handler() != nil {
		ev = ev.Str("handler", c.HandlerName())
	}
	if c.Request != nil {
		ev = ev.
			Str("method", c.Request.Method).
			Str("url", c.Request.URL.String()).
			Str("remote_ip", c.ClientIP())
	}
	ev.Msg("uncaught error")
	return apierror.Server().WithCause(err)
}

func asFault(err error, kind fault.Kind) (*fault.Fault, bool) {
	var f *fault.Fault
	if errors.As(err, &f) && f != nil && f.Kind == kind {
		return f, true
	}
	return nil, false
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
