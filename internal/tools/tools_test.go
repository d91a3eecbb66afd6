package tools_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"fredmcp/internal/app"
	"fredmcp/internal/cache"
	"fredmcp/internal/config"
	"fredmcp/internal/fred"
	"fredmcp/internal/ratelimiter"
	"fredmcp/internal/telemetry"
	"fredmcp/internal/tools"
)

// testTools builds a Tools instance wired to an httptest stub standing in
// for the FRED API, mirroring the construction internal/app.New performs
// but without going through config.Load (tests set only what they need).
func testTools(t *testing.T, handler http.HandlerFunc) (*tools.Tools, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)

	limiter := ratelimiter.New(60, 120)
	tel := telemetry.New(zap.NewNop())
	backend := cache.NewMemoryBackend(0)
	client := fred.NewClient(fred.Config{
		APIKey:    "test-key",
		BaseURL:   srv.URL + "/fred/",
		Cache:     backend,
		Limiter:   limiter,
		Telemetry: tel,
	})

	deps := &app.Deps{
		Config:    &config.Config{},
		Logger:    zap.NewNop(),
		Telemetry: tel,
		Cache:     backend,
		Limiter:   limiter,
		Client:    client,
	}
	return tools.New(deps), srv
}
