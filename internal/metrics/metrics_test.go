package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistration(t *testing.T) {
	// Verify all metrics are registered without conflicts
	metrics := []prometheus.Collector{
		APIRequestsTotal,
		APIRequestDuration,
		APIBreakerStateChanges,

		SessionAuthenticated,
		SessionActionsTotal,
		SessionRefreshesTotal,

		CredStoreOpsTotal,
	}

	for _, metric := range metrics {
		desc := make(chan *prometheus.Desc, 1)
		metric.Describe(desc)
		close(desc)

		require.NotNil(t, <-desc, "metric should have a valid descriptor")
	}
}

func TestAPIRequestsTotal_Labels(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("login", "success"))
	APIRequestsTotal.WithLabelValues("login", "success").Inc()
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("login", "success"))
	assert.Equal(t, before+1, after)
}

func TestSessionAuthenticated_Gauge(t *testing.T) {
	SessionAuthenticated.Set(1)
	assert.Equal(t, 1.0, testutil.ToFloat64(SessionAuthenticated))
	SessionAuthenticated.Set(0)
	assert.Equal(t, 0.0, testutil.ToFloat64(SessionAuthenticated))
}
