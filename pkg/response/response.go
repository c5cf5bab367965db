package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/ower-flow/sms-be/pkg/errors"
)

// JSON sends a success payload as-is. Login responses have a fixed top-level
// shape, so no envelope is wrapped around the data.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error renders any error as {"detail": <message>} with the error's HTTP
// status. The detail messages come from a fixed catalog and are part of the
// API contract.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, gin.H{"detail": appErr.Message})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
