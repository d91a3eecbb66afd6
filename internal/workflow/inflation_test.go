package workflow_test

import (
	"context"
	"net/http"
	"testing"

	"fredmcp/internal/apperr"
	"fredmcp/internal/workflow"
)

func TestCompareInflationAcrossRegionsHappyPath(t *testing.T) {
	svc, srv := testService(t, fixedObservations)
	defer srv.Close()

	result, err := svc.CompareInflationAcrossRegions(context.Background(), workflow.InflationArgs{
		Regions: []string{"USA", "GBR", "DEU"},
		Metric:  "all",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Comparison.LatestSnapshot) != 3 {
		t.Fatalf("expected 3 regions in latest snapshot, got %d", len(result.Comparison.LatestSnapshot))
	}
	if len(result.Comparison.Trends) == 0 {
		t.Error("expected trends to be populated for metric=all")
	}
	for _, tr := range result.Comparison.Trends {
		if tr.R2 < 0 || tr.R2 > 1 {
			t.Errorf("region %s: r2 out of [0,1] range: %g", tr.RegionCode, tr.R2)
		}
	}
	if result.Comparison.Convergence == nil {
		t.Error("expected convergence to be populated for metric=all")
	}
	if len(result.SeriesUsed) != 3 {
		t.Fatalf("expected 3 entries in series_used, got %d", len(result.SeriesUsed))
	}
}

func TestCompareInflationAcrossRegionsExpandsPreset(t *testing.T) {
	svc, srv := testService(t, fixedObservations)
	defer srv.Close()

	result, err := svc.CompareInflationAcrossRegions(context.Background(), workflow.InflationArgs{
		Regions: []string{"nordic"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.SeriesUsed) != 4 {
		t.Fatalf("expected the nordic preset to expand to 4 regions, got %d", len(result.SeriesUsed))
	}
}

func TestCompareInflationAcrossRegionsCapsAtMax(t *testing.T) {
	svc, srv := testService(t, fixedObservations)
	defer srv.Close()

	result, err := svc.CompareInflationAcrossRegions(context.Background(), workflow.InflationArgs{
		Regions: []string{"USA", "GBR", "DEU", "FRA", "ITA", "JPN", "CAN"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Limitations) == 0 {
		t.Error("expected a limitation noting regions dropped at the cap")
	}
	if len(result.SeriesUsed) != 5 {
		t.Fatalf("expected the region cap of 5 to be enforced, got %d", len(result.SeriesUsed))
	}
}

func TestCompareInflationAcrossRegionsRejectsFewerThanTwoRegions(t *testing.T) {
	svc, srv := testService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("FRED should not be called when fewer than 2 regions resolve")
	})
	defer srv.Close()

	_, err := svc.CompareInflationAcrossRegions(context.Background(), workflow.InflationArgs{
		Regions: []string{"USA"},
	})
	if err == nil {
		t.Fatal("expected an error for a single region")
	}
	if apperr.KindOf(err) != apperr.KindNoCommonDates {
		t.Fatalf("expected KindNoCommonDates, got %v", apperr.KindOf(err))
	}
}
