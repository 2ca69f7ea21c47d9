package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordProxyRequest(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordProxyRequest("callAoai", 200, 3*time.Second)
	m.RecordProxyRequest("callAoai", 200, time.Second)
	m.RecordProxyRequest("callAoai", 500, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProxyRequestsTotal.WithLabelValues("callAoai", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProxyRequestsTotal.WithLabelValues("callAoai", "500")))
}

func TestRecordHTTPRequestAndErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordHTTPRequest("spa", "GET", 200, time.Millisecond)
	m.RecordProxyError()
	m.RecordUnauthorized("not_listed")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("spa", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProxyErrorsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UnauthorizedTotal.WithLabelValues("not_listed")))

	count, err := testutil.GatherAndCount(reg, "doc_reviewer_http_request_duration_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewRegistryIncludesRuntimeCollectors(t *testing.T) {
	reg := NewRegistry()
	New(reg)

	families, err := reg.Gather()
	assert.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
}

func TestTrackInFlight(t *testing.T) {
	m := New(prometheus.NewRegistry())

	doneA := m.TrackInFlight()
	doneB := m.TrackInFlight()
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsInFlight))

	doneA()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsInFlight))

	doneB()
	assert.Equal(t, 0.0, testutil.ToFloat64(m.HTTPRequestsInFlight))
}
