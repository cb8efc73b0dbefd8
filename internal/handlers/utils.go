package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	// UsernameContextKey holds the authenticated subject set by the auth middleware
	UsernameContextKey = "username"
	// RolesContextKey holds the authenticated roles
	RolesContextKey = "roles"
)

// ErrUnauthorized is returned when user context is invalid
var ErrUnauthorized = fmt.Errorf("unauthorized")

// Helper function to extract the username from context
// Returns ErrUnauthorized if it is missing
func getUsernameFromContext(c echo.Context) (string, error) {
	username, ok := c.Get(UsernameContextKey).(string)
	if !ok || username == "" {
		return "", ErrUnauthorized
	}
	return username, nil
}

// parseDateTimeParam accepts an RFC 3339 instant or a zone-less local date
// time, which is read as UTC
func parseDateTimeParam(c echo.Context, name string) (time.Time, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return time.Time{}, fmt.Errorf("%s is required", name)
	}

	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(LocalDateTimeLayout, raw, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%s must be an ISO-8601 date time", name)
}

func getClientIP(c echo.Context) string {
	xff := c.Request().Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	xri := c.Request().Header.Get("X-Real-IP")
	if xri != "" {
		return xri
	}

	return c.Request().RemoteAddr
}
