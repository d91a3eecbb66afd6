package fred

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"fredmcp/internal/cache"
	"fredmcp/internal/ratelimiter"
	"fredmcp/internal/telemetry"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	limiter := ratelimiter.New(60, 120)
	tel := telemetry.New(zap.NewNop())
	c := NewClient(Config{
		APIKey:    "test-key",
		BaseURL:   srv.URL + "/fred/",
		Cache:     cache.NewMemoryBackend(0),
		Limiter:   limiter,
		Telemetry: tel,
	})
	return c, srv
}

func TestGetObservationsHitsCacheOnSecondCall(t *testing.T) {
	var calls int32
	c, srv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"observations":[{"date":"2020-01-01","value":"100.0"}]}`))
	})
	defer srv.Close()

	ctx := context.Background()
	data1, err := c.GetObservations(ctx, "CPIAUCSL", ObsOptions{})
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	hitCtx, hit := CaptureCacheHit(ctx)
	data2, err := c.GetObservations(hitCtx, "CPIAUCSL", ObsOptions{})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !*hit {
		t.Error("expected second call to be a cache hit")
	}
	if len(data1.Obs) != len(data2.Obs) || data1.Obs[0].Value != data2.Obs[0].Value {
		t.Errorf("payload mismatch between calls: %+v vs %+v", data1, data2)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected exactly 1 upstream call, got %d", calls)
	}
}

func TestGetRetriesOn500ThenSucceeds(t *testing.T) {
	var calls int32
	c, srv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"observations":[{"date":"2020-01-01","value":"1.0"}]}`))
	})
	defer srv.Close()

	data, err := c.GetObservations(context.Background(), "GDP", ObsOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Obs) != 1 {
		t.Fatalf("expected 1 observation, got %d", len(data.Obs))
	}
	if atomic.LoadInt32(&calls) < 2 {
		t.Errorf("expected at least 2 attempts, got %d", calls)
	}
}

func TestGetClassifiesUpstream4xxWithoutRetry(t *testing.T) {
	var calls int32
	c, srv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_message":"Bad Request. Variable series_id is not a valid series"}`))
	})
	defer srv.Close()

	_, err := c.GetObservations(context.Background(), "NOPE", ObsOptions{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected exactly 1 attempt for a 4xx (no retry), got %d", calls)
	}
}

func TestCanonicalizeDropsEmptyValuesAndSortsKeys(t *testing.T) {
	params := map[string][]string{
		"b": {"2"},
		"a": {"1"},
		"c": {""},
	}
	got := canonicalize(params)
	want := "a=1&b=2&"
	if got != want {
		t.Errorf("canonicalize: got %q, want %q", got, want)
	}
}
