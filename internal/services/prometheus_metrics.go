package services

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	apiRequestsTotal          *prometheus.CounterVec
	apiRequestDuration        *prometheus.HistogramVec
	intentsTotal              *prometheus.CounterVec
	intentsDebouncedTotal     *prometheus.CounterVec
	circuitBreakerState       *prometheus.GaugeVec
	transferAmount            prometheus.Histogram
	accountsListed            prometheus.Gauge
	transactionsListed        prometheus.Gauge
	authenticationEventsTotal *prometheus.CounterVec
}

// NewPrometheusMetrics registers the client metrics with reg
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsRecorderInterface {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		apiRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bank_api_requests_total",
				Help: "Total number of requests sent to the bank API",
			},
			[]string{"operation", "status"},
		),
		apiRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bank_api_request_duration_seconds",
				Help:    "Bank API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		intentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bank_client_intents_total",
				Help: "Total number of user intents handled, by outcome",
			},
			[]string{"intent", "outcome"},
		),
		intentsDebouncedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bank_client_intents_debounced_total",
				Help: "Mutating intents rejected because the same intent was outstanding for the account",
			},
			[]string{"intent"},
		),
		circuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
		transferAmount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "bank_client_transfer_amount",
				Help:    "Requested transfer amount in base currency units",
				Buckets: prometheus.ExponentialBuckets(1, 10, 8),
			},
		),
		accountsListed: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bank_client_accounts_listed",
				Help: "Number of accounts returned by the last successful listing",
			},
		),
		transactionsListed: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bank_client_transactions_listed",
				Help: "Number of transactions returned by the last history query",
			},
		),
		authenticationEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "api.request":
		m.apiRequestsTotal.WithLabelValues(tags["operation"], tags["status"]).Inc()
	case "intent.result":
		m.intentsTotal.WithLabelValues(tags["intent"], tags["outcome"]).Inc()
	case "intent.debounced":
		m.intentsDebouncedTotal.WithLabelValues(tags["intent"]).Inc()
	case "authentication_event":
		if eventType := tags["event_type"]; eventType != "" {
			m.authenticationEventsTotal.WithLabelValues(eventType).Inc()
		}
	}
}

// RecordProcessingTime observes durations named "api.<operation>"
func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	if operation, ok := strings.CutPrefix(name, "api."); ok {
		m.apiRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "circuit_breaker.state":
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(value)
	case "transfer_amount":
		m.transferAmount.Observe(value)
	case "accounts_listed":
		m.accountsListed.Set(value)
	case "transactions_listed":
		m.transactionsListed.Set(value)
	}
}
