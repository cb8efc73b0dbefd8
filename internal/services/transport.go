package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const TraceIDHeader = "X-Trace-ID"

type anonymousKey struct{}

// withoutAuth marks a request as one that must not carry the session token
func withoutAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey{}, true)
}

func isAnonymous(ctx context.Context) bool {
	anonymous, _ := ctx.Value(anonymousKey{}).(bool)
	return anonymous
}

// SessionTransport authenticates each request from the session store at the
// moment it is sent, so a token saved or cleared between calls is honored
type SessionTransport struct {
	session SessionStoreInterface
	limiter *rate.Limiter
	base    http.RoundTripper
}

// NewSessionTransport wraps base; a nil limiter disables rate limiting
func NewSessionTransport(session SessionStoreInterface, limiter *rate.Limiter, base http.RoundTripper) *SessionTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &SessionTransport{
		session: session,
		limiter: limiter,
		base:    base,
	}
}

func (t *SessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req = req.Clone(ctx)

	if !isAnonymous(ctx) {
		for name, values := range t.session.AuthHeader(ctx) {
			for _, value := range values {
				req.Header.Add(name, value)
			}
		}
	}

	if req.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	traceID := TraceIDFromContext(ctx)
	if traceID == "" {
		traceID = uuid.New().String()
	}
	req.Header.Set(TraceIDHeader, traceID)

	return t.base.RoundTrip(req)
}
