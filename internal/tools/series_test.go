package tools_test

import (
	"context"
	"net/http"
	"testing"

	"fredmcp/internal/tools"
)

func TestSearchFredSeriesRejectsEmptySearchText(t *testing.T) {
	tl, srv := testTools(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("FRED should not be called on a validation failure")
	})
	defer srv.Close()

	resp := tl.SearchFredSeries(context.Background(), tools.SearchFredSeriesArgs{})
	if resp.Error == "" {
		t.Fatal("expected a validation error")
	}
	if resp.Metadata.ErrorKind != "VALIDATION" {
		t.Errorf("expected error_kind VALIDATION, got %q", resp.Metadata.ErrorKind)
	}
}

func TestSearchFredSeriesHappyPath(t *testing.T) {
	tl, srv := testTools(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"seriess":[{"id":"UNRATE","title":"Unemployment Rate"}]}`))
	})
	defer srv.Close()

	resp := tl.SearchFredSeries(context.Background(), tools.SearchFredSeriesArgs{SearchText: "unemployment"})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	if resp.Tool != "search_fred_series" {
		t.Errorf("tool name: got %q", resp.Tool)
	}
	if resp.Metadata.FetchDate == "" {
		t.Error("expected fetch_date to be set")
	}
}

func TestGetFredSeriesObservationsRejectsBadDateFormat(t *testing.T) {
	tl, srv := testTools(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("FRED should not be called on a validation failure")
	})
	defer srv.Close()

	resp := tl.GetFredSeriesObservations(context.Background(), tools.GetFredSeriesObservationsArgs{
		SeriesID:         "GDP",
		ObservationStart: "2020/01/01",
	})
	if resp.Metadata.ErrorKind != "VALIDATION" {
		t.Fatalf("expected VALIDATION, got %q (error=%s)", resp.Metadata.ErrorKind, resp.Error)
	}
}

func TestGetFredSeriesObservationsRejectsStartAfterEnd(t *testing.T) {
	tl, srv := testTools(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("FRED should not be called on a validation failure")
	})
	defer srv.Close()

	resp := tl.GetFredSeriesObservations(context.Background(), tools.GetFredSeriesObservationsArgs{
		SeriesID:         "GDP",
		ObservationStart: "2021-01-01",
		ObservationEnd:   "2020-01-01",
	})
	if resp.Metadata.ErrorKind != "VALIDATION" {
		t.Fatalf("expected VALIDATION, got %q", resp.Metadata.ErrorKind)
	}
}

func TestGetFredSeriesObservationsRejectsUnknownUnits(t *testing.T) {
	tl, srv := testTools(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("FRED should not be called on a validation failure")
	})
	defer srv.Close()

	resp := tl.GetFredSeriesObservations(context.Background(), tools.GetFredSeriesObservationsArgs{
		SeriesID: "GDP",
		Units:    "bogus",
	})
	if resp.Metadata.ErrorKind != "VALIDATION" {
		t.Fatalf("expected VALIDATION, got %q", resp.Metadata.ErrorKind)
	}
}

func TestGetFredSeriesObservationsCacheHitOnSecondCall(t *testing.T) {
	tl, srv := testTools(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"observations":[{"date":"2020-01-01","value":"100.0"}]}`))
	})
	defer srv.Close()

	args := tools.GetFredSeriesObservationsArgs{SeriesID: "CPIAUCSL"}
	first := tl.GetFredSeriesObservations(context.Background(), args)
	if first.Error != "" {
		t.Fatalf("unexpected error: %s", first.Error)
	}
	if first.Metadata.CacheHit {
		t.Error("first call should not be a cache hit")
	}
	second := tl.GetFredSeriesObservations(context.Background(), args)
	if !second.Metadata.CacheHit {
		t.Error("second call should be a cache hit")
	}
}
