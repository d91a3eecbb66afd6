package analyze_test

import (
	"math"
	"testing"

	"fredmcp/internal/analyze"
)

func TestRegressPerfectLine(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}

	r, err := analyze.Regress(x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(r.Slope, 2.0, 1e-9) {
		t.Errorf("Slope: expected 2.0, got %g", r.Slope)
	}
	if !approxEqual(r.R2, 1.0, 1e-9) {
		t.Errorf("R2: expected 1.0, got %g", r.R2)
	}
	if r.PValue > 0.05 {
		t.Errorf("PValue: expected a small p-value for a perfect fit, got %g", r.PValue)
	}
}

func TestRegressNoRelationship(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	y := []float64{3, 1, 4, 1, 5, 9, 2, 6}

	r, err := analyze.Regress(x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.N != 8 {
		t.Errorf("N: expected 8, got %d", r.N)
	}
	if r.PValue < 0 || r.PValue > 1 {
		t.Errorf("PValue: expected value in [0,1], got %g", r.PValue)
	}
}

func TestRegressMismatchedLengths(t *testing.T) {
	_, err := analyze.Regress([]float64{1, 2}, []float64{1, 2, 3})
	if err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}

func TestRegressTooFewPoints(t *testing.T) {
	_, err := analyze.Regress([]float64{1, 2}, []float64{1, 2})
	if err == nil {
		t.Fatal("expected error for fewer than 3 points")
	}
}

func TestRegressConstantXGivesNaNStats(t *testing.T) {
	r, err := analyze.Regress([]float64{5, 5, 5}, []float64{1, 2, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(r.PValue) {
		t.Errorf("PValue: expected NaN for zero-variance x, got %g", r.PValue)
	}
}
