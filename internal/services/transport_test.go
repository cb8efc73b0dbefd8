package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/time/rate"
)

type SessionTransportTestSuite struct {
	suite.Suite
	ctx      context.Context
	session  SessionStoreInterface
	server   *httptest.Server
	received chan *http.Request
}

func (s *SessionTransportTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.session = NewSessionStore(NewMemoryTokenStorage(), "ega_token", discardLogger())
	s.received = make(chan *http.Request, 8)
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.received <- r
		w.WriteHeader(http.StatusNoContent)
	}))
}

func (s *SessionTransportTestSuite) TearDownTest() {
	s.server.Close()
}

func TestSessionTransportSuite(t *testing.T) {
	suite.Run(t, new(SessionTransportTestSuite))
}

func (s *SessionTransportTestSuite) send(ctx context.Context, transport http.RoundTripper, method, body string) *http.Request {
	var req *http.Request
	var err error
	if body == "" {
		req, err = http.NewRequestWithContext(ctx, method, s.server.URL, nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, s.server.URL, strings.NewReader(body))
	}
	s.Require().NoError(err)

	resp, err := transport.RoundTrip(req)
	s.Require().NoError(err)
	resp.Body.Close()

	return <-s.received
}

func (s *SessionTransportTestSuite) TestAddsSessionHeaders() {
	s.Require().NoError(s.session.SaveToken(s.ctx, "T"))
	transport := NewSessionTransport(s.session, nil, nil)

	got := s.send(WithTraceID(s.ctx, "trace-1"), transport, http.MethodPost, `{"amount":1}`)
	s.Equal("Bearer T", got.Header.Get("Authorization"))
	s.Equal("application/json", got.Header.Get("Content-Type"))
	s.Equal("application/json", got.Header.Get("Accept"))
	s.Equal("trace-1", got.Header.Get(TraceIDHeader))
}

func (s *SessionTransportTestSuite) TestGeneratesTraceIDWhenMissing() {
	transport := NewSessionTransport(s.session, nil, nil)

	got := s.send(s.ctx, transport, http.MethodGet, "")
	s.NotEmpty(got.Header.Get(TraceIDHeader))
	s.Empty(got.Header.Get("Content-Type"))
	s.Empty(got.Header.Get("Authorization"))
}

func (s *SessionTransportTestSuite) TestAnonymousRequestsSkipTheToken() {
	s.Require().NoError(s.session.SaveToken(s.ctx, "T"))
	transport := NewSessionTransport(s.session, nil, nil)

	got := s.send(withoutAuth(s.ctx), transport, http.MethodPost, `{}`)
	s.Empty(got.Header.Get("Authorization"))
}

func (s *SessionTransportTestSuite) TestDoesNotMutateCallerRequest() {
	s.Require().NoError(s.session.SaveToken(s.ctx, "T"))
	transport := NewSessionTransport(s.session, nil, nil)

	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, s.server.URL, nil)
	s.Require().NoError(err)
	resp, err := transport.RoundTrip(req)
	s.Require().NoError(err)
	resp.Body.Close()
	<-s.received

	s.Empty(req.Header.Get("Authorization"))
}

func (s *SessionTransportTestSuite) TestLimiterHonorsContext() {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	transport := NewSessionTransport(s.session, limiter, nil)

	s.send(s.ctx, transport, http.MethodGet, "")

	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.server.URL, nil)
	s.Require().NoError(err)

	_, err = transport.RoundTrip(req)
	s.Error(err)
}
