// Package handlers provides the error-rendering helpers shared by the
// application factory and route handlers.
//
// This file writes responses. Errors() is the middleware that renders the last
// error recorded on the context after the chain runs; Abort and Fail are the
// entry points handlers use to raise an error.
//
// Example error response:
//
//	HTTP/1.1 400 Bad Request
//	Access-Control-Allow-Origin: *
//	Access-Control-Allow-Methods: *
//	{"status_code":400,"code":"validation-error","data":{"email":["is required"]}}
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-api-errors/internal/apierror"
	"github.com/tbourn/go-api-errors/internal/http/middleware"
	"github.com/tbourn/go-api-errors/internal/observability"
)

const contentTypeJSON = "application/json; charset=utf-8"

// Errors returns the middleware that renders the last error recorded on the
// Gin context once the rest of the chain has run. Responses that were already
// written are left alone; the access logger still reports their errors.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		render(c, Translate(c, c.Errors.Last()))
	}
}

// Abort records err on the context and stops the chain. The response is
// written by Errors().
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Fail translates err and writes the error response immediately. Use it
// where the Errors() middleware is not installed.
func Fail(c *gin.Context, err error) {
	render(c, Translate(c, err))
}

// render writes apiErr as JSON and aborts the chain. If the error cannot be
// rendered as-is the server error body is written instead.
func render(c *gin.Context, apiErr *apierror.Error) {
	status, body, err := apierror.Render(apiErr)
	code := apiErr.Code()
	if err != nil {
		middleware.LoggerFrom(c).Error().
			Err(err).
			Str("code", code).
			Msg("error response rejected, sending server-error")
		code = apierror.CodeServer
	}

	middleware.RecordAPIError(code, status)
	if c.Request != nil {
		observability.RecordAPIError(c.Request.Context(), code, status, apiErr.Cause)
	}
	c.Data(status, contentTypeJSON, body)
	c.Abort()
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
