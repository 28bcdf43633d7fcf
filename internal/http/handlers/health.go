package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health returns a liveness handler reporting the application name.
func Health(app string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, http.StatusOK, gin.H{"status": "ok", "app": app})
	}
}

// EchoRequest is the body accepted by Echo.
type EchoRequest struct {
	Name    string `json:"name" binding:"required,max=64"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"omitempty,max=280"`
}

// Echo validates an EchoRequest and returns it unchanged. Malformed bodies
// are answered with invalid-json and tag failures with validation-error.
func Echo(c *gin.Context) {
	var req EchoRequest
	if err := BindJSON(c, &req); err != nil {
		Abort(c, err)
		return
	}
	ok(c, http.StatusOK, req)
}
