// Package metrics defines Prometheus collectors for the gateway client,
// the session manager, and the credential store.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Gateway client metrics
var (
	// APIRequestsTotal tracks outbound API calls by operation and outcome.
	// Outcome is "success", "api_error", or "transport_error".
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total outbound API requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// APIRequestDuration tracks outbound API call latency in seconds
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Outbound API request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// APIBreakerStateChanges tracks gateway circuit breaker transitions
	APIBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_circuit_breaker_state_changes_total",
			Help: "Gateway circuit breaker state transitions by new state",
		},
		[]string{"state"},
	)
)

// Session manager metrics
var (
	// SessionAuthenticated is 1 while a user is signed in, 0 otherwise
	SessionAuthenticated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "session_authenticated",
			Help: "Whether the session is currently authenticated (0/1)",
		},
	)

	// SessionActionsTotal tracks session manager actions by name and result
	SessionActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_actions_total",
			Help: "Session manager actions by action and result",
		},
		[]string{"action", "result"},
	)

	// SessionRefreshesTotal tracks automatic token refresh outcomes
	SessionRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_refreshes_total",
			Help: "Token refresh attempts by result",
		},
		[]string{"result"},
	)
)

// Credential store metrics
var (
	// CredStoreOpsTotal tracks credential store operations by backend, op, and status
	CredStoreOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credential_store_operations_total",
			Help: "Credential store operations by backend, operation, and status",
		},
		[]string{"backend", "operation", "status"},
	)
)
