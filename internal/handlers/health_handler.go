package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthCheckHandler handles the health check endpoint
type HealthCheckHandler struct {
	ledger *Ledger
}

// NewHealthCheckHandler creates a new health check handler
func NewHealthCheckHandler(ledger *Ledger) *HealthCheckHandler {
	return &HealthCheckHandler{ledger: ledger}
}

// HealthCheck reports liveness and the ledger's record counts
//
// Method: GET /health
// Success: 200 {"status": "healthy", "time": "...", "ledger": {...}}
func (h *HealthCheckHandler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"ledger": h.ledger.Stats(),
	})
}
