package tools_test

import (
	"context"
	"net/http"
	"testing"

	"fredmcp/internal/model"
	"fredmcp/internal/tools"
)

func TestGetFredSeriesByTagsRequiresTagNames(t *testing.T) {
	tl, srv := testTools(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("FRED should not be called on a validation failure")
	})
	defer srv.Close()

	resp := tl.GetFredSeriesByTags(context.Background(), tools.GetFredSeriesByTagsArgs{})
	if resp.Metadata.ErrorKind != "VALIDATION" {
		t.Fatalf("expected VALIDATION, got %q", resp.Metadata.ErrorKind)
	}
}

func TestGetFredSeriesByTagsExcludesMatchingTitles(t *testing.T) {
	tl, srv := testTools(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"seriess":[
			{"id":"A","title":"Monthly Employment Report"},
			{"id":"B","title":"Quarterly GDP Figures"}
		]}`))
	})
	defer srv.Close()

	resp := tl.GetFredSeriesByTags(context.Background(), tools.GetFredSeriesByTagsArgs{
		TagNames:        "employment",
		ExcludeTagNames: "gdp",
	})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
	series, ok := resp.Data.([]model.SeriesMeta)
	if !ok || len(series) != 1 || series[0].ID != "A" {
		t.Fatalf("expected only series A after excluding gdp, got %#v", resp.Data)
	}
}

func TestGetFredTagsListsWithoutRequiredArgs(t *testing.T) {
	tl, srv := testTools(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"tags":[{"name":"gdp","group_id":"gen"}]}`))
	})
	defer srv.Close()

	resp := tl.GetFredTags(context.Background(), tools.GetFredTagsArgs{})
	if resp.Error != "" {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
}

func TestGetFredRelatedTagsRequiresTagNames(t *testing.T) {
	tl, srv := testTools(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("FRED should not be called on a validation failure")
	})
	defer srv.Close()

	resp := tl.GetFredRelatedTags(context.Background(), tools.GetFredRelatedTagsArgs{})
	if resp.Metadata.ErrorKind != "VALIDATION" {
		t.Fatalf("expected VALIDATION, got %q", resp.Metadata.ErrorKind)
	}
}
