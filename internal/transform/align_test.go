package transform_test

import (
	"math"
	"testing"
	"time"

	"fredmcp/internal/model"
	"fredmcp/internal/transform"
)

// makeAnnual builds annual observations (Jan 1) starting at startYear.
func makeAnnual(startYear int, values ...float64) []model.Observation {
	out := make([]model.Observation, len(values))
	for i, v := range values {
		out[i] = model.Observation{
			Date:  time.Date(startYear+i, 1, 1, 0, 0, 0, 0, time.UTC),
			Value: v,
		}
	}
	return out
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestAlignInnerJoinsCommonDates(t *testing.T) {
	a := makeAnnual(2010, 1, 2, 3, 4)              // 2010-2013
	b := makeAnnual(2011, 30, 40, 50, 60)          // 2011-2014, overlaps 2011-2013 with a

	aligned, err := transform.Align(map[string][]model.Observation{"A": a, "B": b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(aligned.Dates) != 3 {
		t.Fatalf("expected 3 common dates, got %d", len(aligned.Dates))
	}
	if len(aligned.Values["A"]) != 3 || len(aligned.Values["B"]) != 3 {
		t.Fatalf("expected 3 values per series, got A=%d B=%d",
			len(aligned.Values["A"]), len(aligned.Values["B"]))
	}
}

func TestAlignExcludesMissingValues(t *testing.T) {
	a := makeAnnual(2010, 1, math.NaN(), 3)
	b := makeAnnual(2010, 10, 20, 30)

	aligned, err := transform.Align(map[string][]model.Observation{"A": a, "B": b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(aligned.Dates) != 2 {
		t.Fatalf("expected 2 dates after excluding the NaN row, got %d", len(aligned.Dates))
	}
}

func TestAlignRequiresAtLeastTwoSeries(t *testing.T) {
	_, err := transform.Align(map[string][]model.Observation{"A": makeAnnual(2010, 1, 2)})
	if err == nil {
		t.Fatal("expected error for fewer than 2 series")
	}
}

func TestAlignNoCommonDatesErrors(t *testing.T) {
	a := makeAnnual(2000, 1, 2)
	b := makeAnnual(2020, 3, 4)
	_, err := transform.Align(map[string][]model.Observation{"A": a, "B": b})
	if err == nil {
		t.Fatal("expected error when no dates overlap")
	}
}
