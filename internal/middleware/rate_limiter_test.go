package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitedRequest(t *testing.T, handler echo.HandlerFunc, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	require.NoError(t, handler(echo.New().NewContext(req, rec)))
	return rec
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 3)
	handler := limiter.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, rateLimitedRequest(t, handler, "192.168.1.100:12345").Code)
	}

	rec := rateLimitedRequest(t, handler, "192.168.1.100:12345")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Too many requests"}`, rec.Body.String())

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, rateLimitedRequest(t, handler, "10.0.0.1:999").Code)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(10, 10)
	limiter.now = func() time.Time { return now }

	handler := limiter.Middleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	rateLimitedRequest(t, handler, "192.168.1.1:1")

	now = now.Add(time.Minute)
	rateLimitedRequest(t, handler, "192.168.1.2:1")

	now = now.Add(visitorIdleTimeout)
	assert.Equal(t, 1, limiter.Cleanup())
	assert.Len(t, limiter.visitors, 1)
	assert.Contains(t, limiter.visitors, "192.168.1.2")
}

func TestRateLimiter_RunCleanupStops(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		limiter.RunCleanup(stop)
		close(done)
	}()
	close(stop)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunCleanup did not return after stop")
	}
}
