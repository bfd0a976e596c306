package handlers

import (
	"net/http"
	"time"

	"codeme-client/internal/auth"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	tokens  auth.TokenReader
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(tokens auth.TokenReader, version string) *HealthHandler {
	return &HealthHandler{
		tokens:  tokens,
		version: version,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	LoggedIn  bool      `json:"logged_in"`
}

// Health returns the health status of the companion server
// @Summary Health check
// @Description Reports that the server is up and whether a bearer token is held
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse "Server is healthy"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   h.version,
		LoggedIn:  h.tokens.HasToken(),
	})
}

// Live returns the liveness status of the application
// @Summary Liveness check
// @Description Check if the application is alive and responding
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Application is alive"
// @Router /health/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"alive":     true,
		"timestamp": time.Now(),
	})
}
