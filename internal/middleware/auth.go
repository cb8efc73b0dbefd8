package middleware

import (
	"net/http"
	"strings"

	"ega-bank-client/internal/handlers"
	"ega-bank-client/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	MsgInvalidToken = "Invalid or expired token"
	MsgForbidden    = "Forbidden"

	// StatementTokenParam carries the token on statement downloads, which are
	// opened as plain links and cannot set headers
	StatementTokenParam = "auth"
)

// RequireAuth creates a middleware that requires a valid bearer token. When
// queryParam is not empty the token may also arrive as that query parameter.
//
// A missing token is 403 with {"error": "Forbidden"}. A token that does not
// verify is 401 with {"error": "Invalid or expired token"}.
func RequireAuth(tokenService services.TokenServiceInterface, queryParam string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ""
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader != "" {
				extracted, err := tokenService.ExtractTokenFromHeader(authHeader)
				if err != nil {
					return handlers.SendError(c, http.StatusUnauthorized, MsgInvalidToken)
				}
				token = extracted
			} else if queryParam != "" {
				token = strings.TrimSpace(c.QueryParam(queryParam))
			}

			if token == "" {
				return c.JSON(http.StatusForbidden, handlers.ErrorResponse{Error: MsgForbidden, Status: http.StatusForbidden})
			}

			claims, err := tokenService.ValidateAccessToken(token)
			if err != nil {
				return handlers.SendError(c, http.StatusUnauthorized, MsgInvalidToken)
			}

			c.Set(handlers.UsernameContextKey, claims.Subject)
			c.Set(handlers.RolesContextKey, claims.Roles)

			return next(c)
		}
	}
}
