package tools

import (
	"context"
	"time"

	"fredmcp/internal/apperr"
	"fredmcp/internal/model"
)

// bootTime is set once per process, at package init, to compute
// uptime_seconds.
var bootTime = time.Now()

// Version is the server's advertised version string, overridable by the
// build (left as a plain var rather than ldflags injection since this
// server has no release pipeline of its own yet).
var Version = "1.0.0"

// SystemHealthArgs is the input for system_health; it takes no arguments.
type SystemHealthArgs struct{}

// SystemHealthData is the data payload of the system_health response:
// cache/limiter/telemetry snapshots plus version and uptime.
type SystemHealthData struct {
	Cache       model.CacheSnapshot      `json:"cache"`
	RateLimiter model.LimiterSnapshot    `json:"rate_limiter"`
	Metrics     interface{}              `json:"metrics"`
	Version     string                   `json:"version"`
	UptimeSecs  float64                  `json:"uptime_seconds"`
}

// SystemHealth renders internal/cache, internal/ratelimiter, and
// internal/telemetry snapshots — the only externally observable view of
// the cache/limiter/telemetry subsystems.
func (t *Tools) SystemHealth(ctx context.Context, _ SystemHealthArgs) model.ToolResponse {
	const tool = "system_health"

	backend, connected, namespaces, err := t.deps.Cache.Snapshot(ctx)
	if err != nil {
		return errorResponse(tool, apperr.KindTransport, err)
	}
	nsStats := make(map[string]model.CacheNamespaceStats, len(namespaces))
	for ns, s := range namespaces {
		nsStats[ns] = model.CacheNamespaceStats{
			TTLSeconds: s.TTLSeconds,
			Entries:    s.Entries,
			Hits:       s.Hits,
			Misses:     s.Misses,
		}
	}
	cacheSnap := model.CacheSnapshot{Backend: backend, Connected: connected, Namespaces: nsStats}

	ls := t.deps.Limiter.Snapshot()
	limiterSnap := model.LimiterSnapshot{
		WindowSeconds:   ls.WindowSeconds,
		MaxRequests:     ls.MaxRequests,
		InUse:           ls.InUse,
		ActivePenaltyMs: ls.ActivePenaltyMs,
		Last429At:       ls.Last429At,
	}

	metricsSnap, err := t.deps.Telemetry.Snapshot()
	if err != nil {
		return errorResponse(tool, apperr.KindTransport, err)
	}

	data := SystemHealthData{
		Cache:       cacheSnap,
		RateLimiter: limiterSnap,
		Metrics:     metricsSnap,
		Version:     Version,
		UptimeSecs:  time.Since(bootTime).Seconds(),
	}
	return dataResponse(tool, data, nil, false, nil)
}
