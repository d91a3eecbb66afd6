package tools_test

import (
	"context"
	"net/http"
	"testing"

	"fredmcp/internal/tools"
)

func TestGetFredCategoryRejectsNegativeID(t *testing.T) {
	tl, srv := testTools(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("FRED should not be called on a validation failure")
	})
	defer srv.Close()

	resp := tl.GetFredCategory(context.Background(), tools.GetFredCategoryArgs{CategoryID: -1})
	if resp.Metadata.ErrorKind != "VALIDATION" {
		t.Fatalf("expected VALIDATION, got %q", resp.Metadata.ErrorKind)
	}
}

func TestGetFredCategoryRootHappyPath(t *testing.T) {
	tl, srv := testTools(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"categories":[{"id":0,"name":"Categories","parent_id":0}]}`))
	})
	defer srv.Close()

	resp := tl.GetFredCategory(context.Background(), tools.GetFredCategoryArgs{CategoryID: 0})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
}

func TestGetFredCategorySeriesClampsLimit(t *testing.T) {
	tl, srv := testTools(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "1000" {
			t.Errorf("expected clamped limit 1000, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"seriess":[]}`))
	})
	defer srv.Close()

	resp := tl.GetFredCategorySeries(context.Background(), tools.GetFredCategorySeriesArgs{
		CategoryID: 125,
		Limit:      5000,
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
}
