package handlers

import (
	"github.com/gin-gonic/gin"
)

// BindJSON decodes the request body into dst and runs its `binding` tags.
//
// A body that is not valid JSON for dst yields a fault.BadRequest whose
// description starts with fault.JSONDecodePrefix; tag failures yield an
// apierror validation-error listing every failed field. Pass the result to
// Abort to have it rendered.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return bindError(err)
	}
	return nil
}
