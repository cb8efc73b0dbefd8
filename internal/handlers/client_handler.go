package handlers

import (
	"log/slog"
	"net/http"

	"ega-bank-client/internal/dto"

	"github.com/labstack/echo/v4"
)

// ClientHandler serves the bank's customers and their accounts
type ClientHandler struct {
	ledger *Ledger
	logger *slog.Logger
}

func NewClientHandler(ledger *Ledger, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{ledger: ledger, logger: logger}
}

// ListClients returns every client with its accounts
//
// Method: GET /api/clients
// Success: 200 [client]
// Errors: 401
func (h *ClientHandler) ListClients(c echo.Context) error {
	return c.JSON(http.StatusOK, h.ledger.Clients())
}

// CreateClient registers a client
//
// Method: POST /api/clients
// Success: 200 client
// Errors: 400 validation body, 401
func (h *ClientHandler) CreateClient(c echo.Context) error {
	var req dto.CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return SendBindError(c)
	}

	if err := c.Validate(req); err != nil {
		return SendRequestError(c, err)
	}

	client := h.ledger.CreateClient(req)
	h.logger.InfoContext(c.Request().Context(), "client created",
		slog.Int64("client_id", client.ID),
		slog.String("trace_id", getTraceID(c)),
		slog.String("ip", getClientIP(c)),
	)
	return c.JSON(http.StatusOK, client)
}
