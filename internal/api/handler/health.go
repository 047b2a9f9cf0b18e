package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	authenticated func() bool
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(authenticated func() bool) *HealthHandler {
	return &HealthHandler{authenticated: authenticated}
}

// Health returns the health status of the gateway and whether a session is active.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"authenticated": h.authenticated(),
	})
}
