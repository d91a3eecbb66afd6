package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fredmcp/internal/config"
)

// clearEnv unsets every config env var so each test starts from defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvAPIKey, config.EnvBaseURL, config.EnvUserAgent,
		config.EnvCacheBackend, config.EnvCacheDefaultTTL, config.EnvCacheDiskRoot,
		config.EnvCacheExternal, config.EnvRateLimitMax, config.EnvRateLimitWindow,
		config.EnvLogLevel, config.EnvLogFormat, config.EnvValidateTables,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.stlouisfed.org", cfg.BaseURL)
	assert.Equal(t, "fredmcp/1.0", cfg.UserAgent)
	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, 300*time.Second, cfg.CacheDefaultTTL)
	assert.Equal(t, 120, cfg.RateLimitMax)
	assert.Equal(t, 60, cfg.RateLimitWindowSeconds)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "plain", cfg.LogFormat)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(config.EnvAPIKey, "envkey")
	t.Setenv(config.EnvCacheBackend, "disk")
	t.Setenv(config.EnvRateLimitMax, "240")
	t.Setenv(config.EnvLogFormat, "json")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "envkey", cfg.APIKey)
	assert.Equal(t, "disk", cfg.CacheBackend)
	assert.Equal(t, 240, cfg.RateLimitMax)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestValidateRequiresAPIKey(t *testing.T) {
	cfg := &config.Config{CacheBackend: "memory", RateLimitMax: 1, RateLimitWindowSeconds: 1}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FRED_API_KEY")
}

func TestValidateRejectsUnknownCacheBackend(t *testing.T) {
	cfg := &config.Config{APIKey: "k", CacheBackend: "bogus", RateLimitMax: 1, RateLimitWindowSeconds: 1}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_BACKEND")
}

func TestValidateRequiresExternalURLForExternalBackend(t *testing.T) {
	cfg := &config.Config{APIKey: "k", CacheBackend: "external", RateLimitMax: 1, RateLimitWindowSeconds: 1}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CACHE_EXTERNAL_URL")
}

func TestValidateRejectsNonPositiveRateLimit(t *testing.T) {
	cfg := &config.Config{APIKey: "k", CacheBackend: "memory", RateLimitMax: 0, RateLimitWindowSeconds: 60}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RATE_LIMIT_MAX")
}

func TestValidatePasses(t *testing.T) {
	cfg := &config.Config{APIKey: "k", CacheBackend: "memory", RateLimitMax: 120, RateLimitWindowSeconds: 60}
	assert.NoError(t, cfg.Validate())
}

func TestRedactedAPIKeyNormal(t *testing.T) {
	cfg := &config.Config{APIKey: "abcdefghij"}
	redacted := cfg.RedactedAPIKey()
	assert.True(t, len(redacted) > 0)
	assert.Contains(t, redacted, "****")
	assert.NotEqual(t, cfg.APIKey, redacted)
}

func TestRedactedAPIKeyShort(t *testing.T) {
	for _, key := range []string{"", "a", "ab", "abc", "abcd"} {
		cfg := &config.Config{APIKey: key}
		assert.Equal(t, "****", cfg.RedactedAPIKey())
	}
}
