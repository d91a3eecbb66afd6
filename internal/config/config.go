// Package config resolves fredmcp's runtime configuration from layered
// sources: built-in defaults, an optional .env file, then process
// environment variables (spec §6). There is no config.json and no CLI
// flags — the server's only caller is an MCP client over stdio, so the
// environment is the entire surface.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

// Environment variable names (spec §6).
const (
	EnvAPIKey          = "FRED_API_KEY"
	EnvBaseURL         = "FRED_BASE_URL"
	EnvUserAgent       = "FRED_USER_AGENT"
	EnvCacheBackend    = "CACHE_BACKEND"
	EnvCacheDefaultTTL = "CACHE_DEFAULT_TTL"
	EnvCacheDiskRoot   = "CACHE_DISK_ROOT"
	EnvCacheExternal   = "CACHE_EXTERNAL_URL"
	EnvRateLimitMax    = "RATE_LIMIT_MAX"
	EnvRateLimitWindow = "RATE_LIMIT_WINDOW_SECONDS"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvValidateTables  = "VALIDATE_TABLES_ON_BOOT"
)

// Config is the fully-resolved runtime configuration every package reads
// from, injected rather than read ad hoc so tests can substitute fresh
// instances (spec §8).
type Config struct {
	APIKey    string
	BaseURL   string
	UserAgent string

	CacheBackend    string
	CacheDefaultTTL time.Duration
	CacheDiskRoot   string
	CacheExternalURL string

	RateLimitMax           int
	RateLimitWindowSeconds int

	LogLevel  string
	LogFormat string

	ValidateTablesOnBoot bool
}

// Load reads .env (if present, silently ignored otherwise), then resolves
// every variable through viper with the defaults below, then process
// environment via AutomaticEnv.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional; missing .env is not an error

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault(EnvBaseURL, "https://api.stlouisfed.org")
	v.SetDefault(EnvUserAgent, "fredmcp/1.0")
	v.SetDefault(EnvCacheBackend, "memory")
	v.SetDefault(EnvCacheDefaultTTL, 300)
	v.SetDefault(EnvCacheDiskRoot, defaultCacheRoot())
	v.SetDefault(EnvRateLimitMax, 120)
	v.SetDefault(EnvRateLimitWindow, 60)
	v.SetDefault(EnvLogLevel, "INFO")
	v.SetDefault(EnvLogFormat, "plain")
	v.SetDefault(EnvValidateTables, true)

	for _, key := range []string{
		EnvAPIKey, EnvBaseURL, EnvUserAgent, EnvCacheBackend, EnvCacheDefaultTTL,
		EnvCacheDiskRoot, EnvCacheExternal, EnvRateLimitMax, EnvRateLimitWindow,
		EnvLogLevel, EnvLogFormat, EnvValidateTables,
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, eris.Wrapf(err, "binding env var %s", key)
		}
	}

	cfg := &Config{
		APIKey:                 v.GetString(EnvAPIKey),
		BaseURL:                v.GetString(EnvBaseURL),
		UserAgent:              v.GetString(EnvUserAgent),
		CacheBackend:           v.GetString(EnvCacheBackend),
		CacheDefaultTTL:        time.Duration(v.GetInt64(EnvCacheDefaultTTL)) * time.Second,
		CacheDiskRoot:          v.GetString(EnvCacheDiskRoot),
		CacheExternalURL:       v.GetString(EnvCacheExternal),
		RateLimitMax:           v.GetInt(EnvRateLimitMax),
		RateLimitWindowSeconds: v.GetInt(EnvRateLimitWindow),
		LogLevel:               v.GetString(EnvLogLevel),
		LogFormat:              v.GetString(EnvLogFormat),
		ValidateTablesOnBoot:   v.GetBool(EnvValidateTables),
	}
	return cfg, nil
}

func defaultCacheRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fredmcp/cache"
	}
	return home + "/.fredmcp/cache"
}

// Validate returns a CONFIG-kind error if required settings are missing.
// Called once at bootstrap; failure is fatal (spec §7).
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return eris.New(
			"FRED_API_KEY is required. Get a free key at " +
				"https://fred.stlouisfed.org/docs/api/api_key.html and set it " +
				"in the environment or a .env file.",
		)
	}
	switch c.CacheBackend {
	case "memory", "disk", "external":
	default:
		return eris.Errorf("CACHE_BACKEND must be memory, disk, or external (got %q)", c.CacheBackend)
	}
	if c.CacheBackend == "external" && c.CacheExternalURL == "" {
		return eris.New("CACHE_EXTERNAL_URL is required when CACHE_BACKEND=external")
	}
	if c.RateLimitMax <= 0 {
		return eris.Errorf("RATE_LIMIT_MAX must be positive (got %d)", c.RateLimitMax)
	}
	if c.RateLimitWindowSeconds <= 0 {
		return eris.Errorf("RATE_LIMIT_WINDOW_SECONDS must be positive (got %d)", c.RateLimitWindowSeconds)
	}
	return nil
}

// RedactedAPIKey returns the API key with most characters replaced by
// asterisks. Safe for logging and display.
func (c *Config) RedactedAPIKey() string {
	if len(c.APIKey) <= 4 {
		return "****"
	}
	return c.APIKey[:2] + "****" + c.APIKey[len(c.APIKey)-2:]
}
