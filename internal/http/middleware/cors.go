// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides CORS, the cross-origin hook installed on every engine.
// It stamps a permissive policy on every response before the rest of the
// chain runs, so success responses, translated error responses, routing
// misses and recovered panics all carry the same headers:
//
//	Access-Control-Allow-Origin:   *
//	Access-Control-Allow-Methods:  *
//	Access-Control-Expose-Headers: X-Request-ID
//
// Preflight (OPTIONS with an Origin header) is answered by gin-contrib/cors
// and short-circuits the chain with 204.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	HeaderAllowOrigin   = "Access-Control-Allow-Origin"
	HeaderAllowMethods  = "Access-Control-Allow-Methods"
	HeaderExposeHeaders = "Access-Control-Expose-Headers"

	allowAny = "*"
)

// corsConfig is fixed: any origin, any method, no credentials.
func corsConfig() cors.Config {
	return cors.Config{
		AllowAllOrigins:           true,
		AllowMethods:              []string{allowAny},
		AllowHeaders:              []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders:             []string{requestIDHeader},
		AllowCredentials:          false, // must remain false with AllowAllOrigins
		MaxAge:                    12 * time.Hour,
		OptionsResponseStatusCode: http.StatusNoContent,
	}
}

// CORS returns the cross-origin hook. Place it first so that no response can
// leave the engine without the headers.
func CORS() gin.HandlerFunc {
	preflight := cors.New(corsConfig())
	return func(c *gin.Context) {
		stampCORS(c.Writer.Header())

		// Sets preflight/normal headers and aborts OPTIONS preflight with 204.
		preflight(c)
		if c.IsAborted() {
			return
		}
		c.Next()
	}
}

// stampCORS writes the permissive headers unconditionally, overriding any
// value set earlier.
func stampCORS(h http.Header) {
	h.Set(HeaderAllowOrigin, allowAny)
	h.Set(HeaderAllowMethods, allowAny)
	h.Set(HeaderExposeHeaders, requestIDHeader)
}
