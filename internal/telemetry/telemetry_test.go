package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCountersIncrement(t *testing.T) {
	r := New(zap.NewNop())

	r.IncFREDRequests("get_fred_series_observations", "ok")
	r.IncFREDRequests("get_fred_series_observations", "ok")
	r.IncCacheHit("observations")
	r.IncCacheMiss("observations")
	r.IncRateLimitBlock()
	r.IncRetry("get_fred_series_observations")

	snap, err := r.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, float64(2), snap.Counters[`fred_requests_total{status=ok}{tool=get_fred_series_observations}`])
	assert.Equal(t, float64(1), snap.Counters[`cache_hits_total{namespace=observations}`])
	assert.Equal(t, float64(1), snap.Counters[`cache_misses_total{namespace=observations}`])
	assert.Equal(t, float64(1), snap.Counters[`rate_limit_blocks_total`])
	assert.Equal(t, float64(1), snap.Counters[`retries_total{tool=get_fred_series_observations}`])
}

func TestGauges(t *testing.T) {
	r := New(zap.NewNop())

	r.SetCacheSize("metadata", 42)
	r.SetLimiterPenaltyMs(1500)

	snap, err := r.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, float64(42), snap.Gauges[`cache_size{namespace=metadata}`])
	assert.Equal(t, float64(1500), snap.Gauges[`limiter_active_penalty_ms`])
}

func TestHistogramPercentiles(t *testing.T) {
	r := New(zap.NewNop())

	durations := []time.Duration{
		40 * time.Millisecond,
		90 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		900 * time.Millisecond,
	}
	for _, d := range durations {
		r.ObserveFREDDuration("search_fred_series", d)
	}

	snap, err := r.Snapshot()
	require.NoError(t, err)

	hist, ok := snap.Histograms[`fred_request_duration_ms{tool=search_fred_series}`]
	require.True(t, ok)
	assert.Equal(t, uint64(5), hist.Count)
	assert.Greater(t, hist.P95, hist.P50)
	assert.GreaterOrEqual(t, hist.P99, hist.P95)
}

func TestLogFREDCallUpdatesMetrics(t *testing.T) {
	r := New(zap.NewNop())

	r.LogFREDCall(FREDCallRecord{
		Tool:       "get_fred_series_observations",
		RequestID:  "req-1",
		DurationMs: 120,
		Status:     "ok",
		CacheHit:   false,
		RetryCount: 2,
	})

	snap, err := r.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, float64(1), snap.Counters[`fred_requests_total{status=ok}{tool=get_fred_series_observations}`])
	assert.Equal(t, float64(2), snap.Counters[`retries_total{tool=get_fred_series_observations}`])
}

func TestSnapshotEmptyRegistryHasNoHistogramEntries(t *testing.T) {
	r := New(zap.NewNop())

	snap, err := r.Snapshot()
	require.NoError(t, err)

	for _, h := range snap.Histograms {
		assert.Equal(t, uint64(0), h.Count)
	}
}
