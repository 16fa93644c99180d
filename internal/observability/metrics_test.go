package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetricsHandlerExposesCounters(t *testing.T) {
	m := NewMetrics(nil)
	m.ObserveAPI("GET", "/api/programs/:program_id/pathways", "200", 12*time.Millisecond)
	m.ObserveOperation("step.create", "success", 3*time.Millisecond)
	m.ObserveAdjustment(2, 1)
	m.IncBusEvent("")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)
	for _, want := range []string{
		`caseline_http_requests_total{method="GET",route="/api/programs/:program_id/pathways",status="200"} 1`,
		`caseline_write_operations_total{op="step.create",status="success"} 1`,
		`caseline_pathway_steps_repositioned_total 2`,
		`caseline_alerts_reconciled_total 1`,
		`caseline_pathway_events_received_total{type="unknown"} 1`,
	} {
		require.True(t, strings.Contains(out, want), "missing %q", want)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/", "200", time.Millisecond)
	m.ObserveOperation("x", "success", time.Millisecond)
	m.ObserveAdjustment(1, 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 503, rec.Code)
}

func TestParseRatioClamps(t *testing.T) {
	f, ok := parseRatio("1.5")
	require.True(t, ok)
	require.Equal(t, 1.0, f)
	_, ok = parseRatio("abc")
	require.False(t, ok)
}
