package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// All handlers answer with the same envelope: {"success": bool} plus either
// "data" on success or "message" (and optionally "errors") on failure.

func respondOK(c *gin.Context, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func respondCreated(c *gin.Context, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(http.StatusCreated, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// FieldError points a validation failure at the offending request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondValidation(c *gin.Context, errors []FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Validation failed",
		"errors":  errors,
	})
}
