package analyze_test

import (
	"testing"

	"fredmcp/internal/analyze"
)

func TestDetectBreaksFindsVarianceIncrease(t *testing.T) {
	var vals []float64
	// 12 low-variance points, then 12 high-variance points.
	for i := 0; i < 12; i++ {
		if i%2 == 0 {
			vals = append(vals, 100.0)
		} else {
			vals = append(vals, 100.1)
		}
	}
	for i := 0; i < 12; i++ {
		if i%2 == 0 {
			vals = append(vals, 90.0)
		} else {
			vals = append(vals, 110.0)
		}
	}
	obs := makeObs(2020, 1, vals...)

	breaks, err := analyze.DetectBreaks(obs, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(breaks) == 0 {
		t.Fatal("expected at least one detected break")
	}
	found := false
	for _, b := range breaks {
		if b.Kind == analyze.VarianceIncrease {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a variance_increase break, got %+v", breaks)
	}
}

func TestDetectBreaksFindsVarianceDecrease(t *testing.T) {
	var vals []float64
	for i := 0; i < 12; i++ {
		if i%2 == 0 {
			vals = append(vals, 90.0)
		} else {
			vals = append(vals, 110.0)
		}
	}
	for i := 0; i < 12; i++ {
		if i%2 == 0 {
			vals = append(vals, 100.0)
		} else {
			vals = append(vals, 100.1)
		}
	}
	obs := makeObs(2020, 1, vals...)

	breaks, err := analyze.DetectBreaks(obs, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, b := range breaks {
		if b.Kind == analyze.VarianceDecrease {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a variance_decrease break, got %+v", breaks)
	}
}

func TestDetectBreaksRejectsSmallWindow(t *testing.T) {
	obs := makeObs(2020, 1, 1, 2, 3, 4)
	_, err := analyze.DetectBreaks(obs, 1)
	if err == nil {
		t.Fatal("expected error for window < 2")
	}
}

func TestDetectBreaksRejectsInsufficientObservations(t *testing.T) {
	obs := makeObs(2020, 1, 1, 2, 3, 4)
	_, err := analyze.DetectBreaks(obs, 5)
	if err == nil {
		t.Fatal("expected error when series is shorter than 2*window")
	}
}

func TestDetectBreaksStableSeriesFindsNone(t *testing.T) {
	var vals []float64
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			vals = append(vals, 50.0)
		} else {
			vals = append(vals, 50.1)
		}
	}
	obs := makeObs(2020, 1, vals...)

	breaks, err := analyze.DetectBreaks(obs, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(breaks) != 0 {
		t.Errorf("expected no breaks in a stable series, got %d", len(breaks))
	}
}
