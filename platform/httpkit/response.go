package httpkit

import (
	"errors"
	"net/http"

	"resto_admin_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the wire shape of every error this service returns.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// JSON writes a response with an explicit status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error writes an ErrorResponse with the given status.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// OK writes a 200 response.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Created writes a 201 response.
func Created(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusCreated, payload)
}

// HandleError translates a service error into an HTTP response and reports
// whether it wrote one. Typed errors map through their Kind; anything
// untyped is a 500, so storage failures are never blamed on the client.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var typed *apperr.Error
	if errors.As(err, &typed) {
		c.JSON(typed.HTTPStatus(), ErrorResponse{Error: typed.Message, Details: typed.Details})
		return true
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	return true
}
