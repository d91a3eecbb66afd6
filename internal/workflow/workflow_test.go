package workflow_test

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
	"fredmcp/internal/workflow"
)

// testService mirrors internal/tools' testTools helper: a Service wired to
// a real fred.Client pointed at an httptest stub, with the same cache/
// limiter/telemetry plumbing every other package's tests exercise.
func testService(t *testing.T, handler http.HandlerFunc) (*workflow.Service, *httptest.Server) {
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
	return workflow.New(deps), srv
}

// fixedObservations writes the same observation window for any series_id,
// units, or frequency the caller requested - enough to exercise alignment
// and derived-variant math without depending on live FRED data.
func fixedObservations(w http.ResponseWriter, r *http.Request) {
	body := `{"observations":[` +
		`{"date":"2018-01-01","value":"100.0"},` +
		`{"date":"2019-01-01","value":"105.0"},` +
		`{"date":"2020-01-01","value":"108.0"},` +
		`{"date":"2021-01-01","value":"112.0"},` +
		`{"date":"2022-01-01","value":"118.0"},` +
		`{"date":"2023-01-01","value":"123.0"}` +
		`]}`
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}
