// Package telemetry is the process-wide metric registry and structured
// logging facade described in spec §4.3. It wraps prometheus counters,
// gauges, and histograms behind a small typed API so callers never touch
// label cardinality or bucket boundaries directly, and it renders a
// Snapshot() for the system_health tool without requiring a scrape loop.
package telemetry

import (
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"
)

// durationBucketsMs are the histogram buckets for request/op duration
// instruments, in milliseconds (spec §4.3).
var durationBucketsMs = []float64{50, 100, 250, 500, 1000, 2500}

// Registry is the process-wide metric registry. It is a plain struct, not
// a package-level singleton, so tests and the health tool can each hold
// their own instance.
type Registry struct {
	reg *prometheus.Registry

	fredRequestsTotal   *prometheus.CounterVec
	cacheHitsTotal      *prometheus.CounterVec
	cacheMissesTotal    *prometheus.CounterVec
	rateLimitBlocks     prometheus.Counter
	retriesTotal        *prometheus.CounterVec
	cacheSize           *prometheus.GaugeVec
	limiterPenaltyMs    prometheus.Gauge
	fredRequestDuration *prometheus.HistogramVec
	cacheOpDuration     *prometheus.HistogramVec

	logger *zap.Logger
}

// New builds a Registry with every required instrument (spec §4.3)
// pre-registered, and the given logger used for structured log records.
// Pass zap.NewNop() in tests that don't care about log output.
func New(logger *zap.Logger) *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,
		fredRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fred_requests_total",
			Help: "Total FRED client calls (including cache-served and cancelled ones), by tool and outcome status.",
		}, []string{"tool", "status"}),
		cacheHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total cache hits, by namespace.",
		}, []string{"namespace"}),
		cacheMissesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total cache misses, by namespace.",
		}, []string{"namespace"}),
		rateLimitBlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rate_limit_blocks_total",
			Help: "Total times an Acquire() call had to wait for a token.",
		}),
		retriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "retries_total",
			Help: "Total FRED request retries, by tool.",
		}, []string{"tool"}),
		cacheSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current entry count, by namespace.",
		}, []string{"namespace"}),
		limiterPenaltyMs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "limiter_active_penalty_ms",
			Help: "Current active rate-limit penalty in milliseconds.",
		}),
		fredRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fred_request_duration_ms",
			Help:    "FRED HTTP request duration in milliseconds, by tool.",
			Buckets: durationBucketsMs,
		}, []string{"tool"}),
		cacheOpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cache_op_duration_ms",
			Help:    "Cache backend operation duration in milliseconds, by namespace.",
			Buckets: durationBucketsMs,
		}, []string{"namespace"}),
		logger: logger,
	}

	reg.MustRegister(
		r.fredRequestsTotal,
		r.cacheHitsTotal,
		r.cacheMissesTotal,
		r.rateLimitBlocks,
		r.retriesTotal,
		r.cacheSize,
		r.limiterPenaltyMs,
		r.fredRequestDuration,
		r.cacheOpDuration,
	)
	return r
}

// Logger returns the structured logger backing this registry.
func (r *Registry) Logger() *zap.Logger { return r.logger }

// ─── Counters ─────────────────────────────────────────────────────────────────

func (r *Registry) IncFREDRequests(tool, status string) {
	r.fredRequestsTotal.WithLabelValues(tool, status).Inc()
}

func (r *Registry) IncCacheHit(namespace string) {
	r.cacheHitsTotal.WithLabelValues(namespace).Inc()
}

func (r *Registry) IncCacheMiss(namespace string) {
	r.cacheMissesTotal.WithLabelValues(namespace).Inc()
}

func (r *Registry) IncRateLimitBlock() {
	r.rateLimitBlocks.Inc()
}

func (r *Registry) IncRetry(tool string) {
	r.retriesTotal.WithLabelValues(tool).Inc()
}

// ─── Gauges ───────────────────────────────────────────────────────────────────

func (r *Registry) SetCacheSize(namespace string, n int) {
	r.cacheSize.WithLabelValues(namespace).Set(float64(n))
}

func (r *Registry) SetLimiterPenaltyMs(ms int64) {
	r.limiterPenaltyMs.Set(float64(ms))
}

// ─── Histograms ───────────────────────────────────────────────────────────────

func (r *Registry) ObserveFREDDuration(tool string, d time.Duration) {
	r.fredRequestDuration.WithLabelValues(tool).Observe(msFloat(d))
}

func (r *Registry) ObserveCacheOpDuration(namespace string, d time.Duration) {
	r.cacheOpDuration.WithLabelValues(namespace).Observe(msFloat(d))
}

func msFloat(d time.Duration) float64 { return float64(d.Microseconds()) / 1000.0 }

// ─── Structured logging (spec §4.3) ───────────────────────────────────────────

// FREDCallRecord is the structured record emitted for every FRED call.
type FREDCallRecord struct {
	Tool       string
	RequestID  string
	DurationMs int64
	Status     string
	CacheHit   bool
	RetryCount int
	Err        error
}

// LogFREDCall emits the spec §4.3 structured log record for one FRED call
// and updates the matching counters/histograms in one place so callers
// (the FRED client) don't have to remember to do both.
func (r *Registry) LogFREDCall(rec FREDCallRecord) {
	r.IncFREDRequests(rec.Tool, rec.Status)
	r.ObserveFREDDuration(rec.Tool, time.Duration(rec.DurationMs)*time.Millisecond)
	if rec.RetryCount > 0 {
		for i := 0; i < rec.RetryCount; i++ {
			r.IncRetry(rec.Tool)
		}
	}

	fields := []zap.Field{
		zap.String("tool", rec.Tool),
		zap.String("request_id", rec.RequestID),
		zap.Int64("duration_ms", rec.DurationMs),
		zap.String("status", rec.Status),
		zap.Bool("cache_hit", rec.CacheHit),
		zap.Int("retry_count", rec.RetryCount),
	}
	if rec.Err != nil {
		fields = append(fields, zap.Error(rec.Err))
		r.logger.Warn("fred_call", fields...)
		return
	}
	r.logger.Info("fred_call", fields...)
}

// ─── Snapshot (for the system_health tool) ────────────────────────────────────

// HistogramPercentiles holds the approximated p50/p95/p99 for one histogram
// series, derived from cumulative bucket counts (linear interpolation
// within the bucket that crosses the target rank — spec §4.3).
type HistogramPercentiles struct {
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Count uint64  `json:"count"`
	Sum   float64 `json:"sum"`
}

// Snapshot is the JSON-serializable view returned by system_health.
type Snapshot struct {
	Counters   map[string]float64              `json:"counters"`
	Gauges     map[string]float64               `json:"gauges"`
	Histograms map[string]HistogramPercentiles  `json:"histograms"`
}

// Snapshot gathers every registered metric family and renders counters,
// current gauge values, and approximate histogram percentiles.
func (r *Registry) Snapshot() (Snapshot, error) {
	families, err := r.reg.Gather()
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		Counters:   map[string]float64{},
		Gauges:     map[string]float64{},
		Histograms: map[string]HistogramPercentiles{},
	}

	for _, mf := range families {
		name := mf.GetName()
		switch mf.GetType() {
		case dto.MetricType_COUNTER:
			var total float64
			for _, m := range mf.Metric {
				total += m.GetCounter().GetValue()
				snap.Counters[metricKey(name, m)] = m.GetCounter().GetValue()
			}
		case dto.MetricType_GAUGE:
			for _, m := range mf.Metric {
				snap.Gauges[metricKey(name, m)] = m.GetGauge().GetValue()
			}
		case dto.MetricType_HISTOGRAM:
			for _, m := range mf.Metric {
				snap.Histograms[metricKey(name, m)] = percentilesOf(m.GetHistogram())
			}
		}
	}
	return snap, nil
}

func metricKey(name string, m *dto.Metric) string {
	labels := m.GetLabel()
	if len(labels) == 0 {
		return name
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i].GetName() < labels[j].GetName() })
	key := name
	for _, l := range labels {
		key += "{" + l.GetName() + "=" + l.GetValue() + "}"
	}
	return key
}

// percentilesOf approximates p50/p95/p99 from a prometheus histogram's
// cumulative bucket counts via linear interpolation within the bucket
// that first reaches the target rank.
func percentilesOf(h *dto.Histogram) HistogramPercentiles {
	count := h.GetSampleCount()
	result := HistogramPercentiles{Count: count, Sum: h.GetSampleSum()}
	if count == 0 {
		return result
	}
	buckets := h.GetBucket()

	interp := func(rank float64) float64 {
		target := rank * float64(count)
		var prevCum float64
		var prevBound float64
		for _, b := range buckets {
			cum := float64(b.GetCumulativeCount())
			bound := b.GetUpperBound()
			if cum >= target {
				if cum == prevCum {
					return bound
				}
				frac := (target - prevCum) / (cum - prevCum)
				return prevBound + frac*(bound-prevBound)
			}
			prevCum = cum
			prevBound = bound
		}
		if len(buckets) > 0 {
			return buckets[len(buckets)-1].GetUpperBound()
		}
		return 0
	}

	result.P50 = interp(0.50)
	result.P95 = interp(0.95)
	result.P99 = interp(0.99)
	return result
}
