// Package app wires together configuration, logging, telemetry, the
// cache, the rate limiter, and the FRED client into a single Deps struct
// that tools and workflows receive at construction time.
package app

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fredmcp/internal/cache"
	"fredmcp/internal/config"
	"fredmcp/internal/fred"
	"fredmcp/internal/ratelimiter"
	"fredmcp/internal/telemetry"
)

// Deps holds every runtime dependency injected into tool and workflow
// constructors. Nothing here is a package-level global (spec §8).
type Deps struct {
	Config    *config.Config
	Logger    *zap.Logger
	Telemetry *telemetry.Registry
	Cache     cache.Cache
	Limiter   *ratelimiter.Limiter
	Client    *fred.Client
}

// New builds a Deps from resolved config: logger first (so later errors
// can be logged), then cache, then telemetry, then the limiter (whose
// block/penalty observers report into telemetry), then the FRED client that
// ties them together.
func New(cfg *config.Config) (*Deps, error) {
	logger, err := buildLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	backend, err := cache.New(cache.Options{
		Kind:        cache.BackendKind(cfg.CacheBackend),
		DefaultTTL:  cfg.CacheDefaultTTL,
		DiskRoot:    cfg.CacheDiskRoot,
		ExternalURL: cfg.CacheExternalURL,
	})
	if err != nil {
		return nil, err
	}

	tel := telemetry.New(logger)

	limiter := ratelimiter.New(
		cfg.RateLimitWindowSeconds,
		cfg.RateLimitMax,
		ratelimiter.WithBlockObserver(tel.IncRateLimitBlock),
		ratelimiter.WithPenaltyObserver(func(d time.Duration) { tel.SetLimiterPenaltyMs(d.Milliseconds()) }),
	)

	client := fred.NewClient(fred.Config{
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Cache:     backend,
		Limiter:   limiter,
		Telemetry: tel,
	})

	return &Deps{
		Config:    cfg,
		Logger:    logger,
		Telemetry: tel,
		Cache:     backend,
		Limiter:   limiter,
		Client:    client,
	}, nil
}

func buildLogger(level, format string) (*zap.Logger, error) {
	var zapCfg zap.Config
	if format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zapCfg.Level.SetLevel(lvl)

	return zapCfg.Build()
}
