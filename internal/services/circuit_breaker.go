package services

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"ega-bank-client/internal/models"
)

var (
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
)

type CircuitBreakerConfig struct {
	// MaxFailures consecutive failed calls open the circuit; zero disables it
	MaxFailures int
	// ResetTimeout is how long an open circuit rejects calls before probing
	ResetTimeout time.Duration
	// HalfOpenMaxSucc successful probes close the circuit again. It also caps
	// the probes in flight while half-open.
	HalfOpenMaxSucc int
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxFailures:     5,
		ResetTimeout:    30 * time.Second,
		HalfOpenMaxSucc: 1,
	}
}

const (
	StateClosed   = models.CircuitClosed
	StateOpen     = models.CircuitOpen
	StateHalfOpen = models.CircuitHalfOpen
)

// CircuitBreaker stops calling the bank after repeated transport or server
// failures. A 4xx is the bank answering and keeps the circuit healthy.
type CircuitBreaker struct {
	mu             sync.Mutex
	config         CircuitBreakerConfig
	state          models.CircuitBreakerState
	failures       int
	probes         int
	probeSuccesses int
	openedAt       time.Time
	now            func() time.Time
}

func NewCircuitBreaker(config CircuitBreakerConfig) CircuitBreakerInterface {
	if config.HalfOpenMaxSucc <= 0 {
		config.HalfOpenMaxSucc = 1
	}
	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
		now:    time.Now,
	}
}

// Allow admits one call. Once the reset timeout has passed an open circuit
// turns half-open and admits up to HalfOpenMaxSucc probes at a time. Every
// admitted call must be followed by Observe or Abandon.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.now().Sub(cb.openedAt) <= cb.config.ResetTimeout {
			return ErrCircuitBreakerOpen
		}
		cb.state = StateHalfOpen
		cb.probes = 0
		cb.probeSuccesses = 0
		fallthrough
	case StateHalfOpen:
		if cb.probes >= cb.config.HalfOpenMaxSucc {
			return ErrCircuitBreakerOpen
		}
		cb.probes++
	}
	return nil
}

// Observe records how an admitted call ended: a transport error or a 5xx is
// a failure, any other status a success
func (cb *CircuitBreaker) Observe(status int, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.releaseProbe()
	if countsAsFailure(status, err) {
		cb.fail()
		return
	}
	cb.succeed()
}

// Abandon releases an admitted call that never produced a verdict, such as
// one cancelled by the caller
func (cb *CircuitBreaker) Abandon() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.releaseProbe()
}

func countsAsFailure(status int, err error) bool {
	return err != nil || status >= http.StatusInternalServerError
}

func (cb *CircuitBreaker) releaseProbe() {
	if cb.state == StateHalfOpen && cb.probes > 0 {
		cb.probes--
	}
}

func (cb *CircuitBreaker) fail() {
	switch cb.state {
	case StateHalfOpen:
		cb.open()
	case StateClosed:
		cb.failures++
		if cb.config.MaxFailures > 0 && cb.failures >= cb.config.MaxFailures {
			cb.open()
		}
	}
}

func (cb *CircuitBreaker) succeed() {
	switch cb.state {
	case StateHalfOpen:
		cb.probeSuccesses++
		if cb.probeSuccesses >= cb.config.HalfOpenMaxSucc {
			cb.close()
		}
	case StateClosed:
		cb.failures = 0
	}
}

func (cb *CircuitBreaker) open() {
	cb.state = StateOpen
	cb.openedAt = cb.now()
	cb.probes = 0
	cb.probeSuccesses = 0
}

func (cb *CircuitBreaker) close() {
	cb.state = StateClosed
	cb.failures = 0
	cb.probes = 0
	cb.probeSuccesses = 0
}

func (cb *CircuitBreaker) GetState() models.CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.close()
}

func (cb *CircuitBreaker) GetFailureCount() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}
