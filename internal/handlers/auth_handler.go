package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"ega-bank-client/internal/dto"
	"ega-bank-client/internal/services"

	"github.com/labstack/echo/v4"
)

const RoleUser = "ROLE_USER"

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	ledger    *Ledger
	tokens    services.TokenServiceInterface
	passwords services.PasswordServiceInterface
	audit     services.AuditLoggerInterface
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(
	ledger *Ledger,
	tokens services.TokenServiceInterface,
	passwords services.PasswordServiceInterface,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		ledger:    ledger,
		tokens:    tokens,
		passwords: passwords,
		audit:     services.NewAuditLogger(logger),
	}
}

// Register creates a user.
//
// Method: POST /api/auth/register
// Success: 200 with an empty body
// Errors: 400 plain text "Username already exists", 400 validation body
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return SendBindError(c)
	}

	if err := c.Validate(req); err != nil {
		return SendRequestError(c, err)
	}

	hash, err := h.passwords.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, services.ErrPasswordTooLong) || errors.Is(err, services.ErrPasswordEmpty) {
			return SendValidationError(c, map[string]string{"password": err.Error()})
		}
		return err
	}

	if err := h.ledger.AddUser(req.Username, hash, []string{RoleUser}); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return SendPlainError(c, http.StatusBadRequest, err.Error())
		}
		return err
	}

	h.audit.LogUserRegistered(c.Request().Context(), req.Username, getTraceID(c))
	return c.NoContent(http.StatusOK)
}

// Login exchanges credentials for a signed token.
//
// Method: POST /api/auth/login
// Success: 200 {"token": "..."}
// Errors: 401 {"error": "Bad credentials"}
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return SendBindError(c)
	}

	if err := c.Validate(req); err != nil {
		return SendRequestError(c, err)
	}

	hash, roles, ok := h.ledger.User(req.Username)
	if !ok || !h.passwords.ComparePassword(req.Password, hash) {
		h.audit.LogLoginRejected(c.Request().Context(), req.Username, getTraceID(c))
		return SendError(c, http.StatusUnauthorized, "Bad credentials")
	}

	token, _, err := h.tokens.GenerateAccessToken(req.Username, roles)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
