package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/counsellor/internal/metrics"
)

func TestObserve(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.ObserveModelCall("chat", "ok", time.Second)
	m.ObserveModelCall("chat", "ok", time.Second)
	m.ObserveModelCall("chat", "model_unavailable", time.Second)
	m.ObserveDirectoryLookup("hit")
	m.ObserveTaskRun("sql_maintenance", errors.New("boom"))

	assert.InDelta(t, 2, testutil.ToFloat64(m.ModelCalls.WithLabelValues("chat", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ModelCalls.WithLabelValues("chat", "model_unavailable")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.DirectoryLookups.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.TaskRuns.WithLabelValues("sql_maintenance", "failure")), 0)
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ObserveModelCall("chat", "ok", time.Second)
		m.ObserveDirectoryLookup("ok")
		m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
		m.ObserveTaskRun("x", nil)
	})
	assert.Nil(t, m.Registry())
}

func TestHandler(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.ObserveHTTPRequest("GET", "/healthcheck", http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `counsellor_http_requests_total{code="200",method="GET",route="/healthcheck"} 1`)
}
