package analyze_test

import (
	"math"
	"testing"

	"fredmcp/internal/analyze"
)

func TestCAGRDoublingOverEightYears(t *testing.T) {
	obs := makeAnnual(2010, 100, 0, 0, 0, 0, 0, 0, 0, 200)
	cagr, years, err := analyze.CAGR(obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(years, 8, 0.01) {
		t.Errorf("years: expected ~8, got %g", years)
	}
	// 100 -> 200 over 8 years: CAGR = (2^(1/8) - 1) * 100 ≈ 9.05%
	want := (math.Pow(2, 1.0/8) - 1) * 100
	if !approxEqual(cagr, want, 1e-9) {
		t.Errorf("cagr: expected %g, got %g", want, cagr)
	}
}

func TestCAGRRejectsNonPositiveFirstValue(t *testing.T) {
	obs := makeAnnual(2010, 0, 50, 100)
	_, _, err := analyze.CAGR(obs)
	if err == nil {
		t.Fatal("expected error for non-positive first value")
	}
}

func TestVolatilityOfConstantSeriesIsZero(t *testing.T) {
	obs := makeAnnual(2010, 100, 100, 100, 100)
	vol, err := analyze.Volatility(obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(vol, 0, 1e-9) {
		t.Errorf("expected zero volatility, got %g", vol)
	}
}

func TestVolatilityOfErraticSeriesIsPositive(t *testing.T) {
	obs := makeAnnual(2010, 100, 150, 80, 200, 50)
	vol, err := analyze.Volatility(obs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vol <= 0 {
		t.Errorf("expected positive volatility, got %g", vol)
	}
}

func TestGrowthAnalysisStableSeriesScoresHigherThanErratic(t *testing.T) {
	stable := makeAnnual(2010, 100, 105, 110, 115, 120, 125)
	erratic := makeAnnual(2010, 100, 140, 90, 160, 70, 125)

	stableProfile, err := analyze.GrowthAnalysis("STABLE", stable)
	if err != nil {
		t.Fatalf("unexpected error (stable): %v", err)
	}
	erraticProfile, err := analyze.GrowthAnalysis("ERRATIC", erratic)
	if err != nil {
		t.Fatalf("unexpected error (erratic): %v", err)
	}
	if stableProfile.StabilityIndex <= erraticProfile.StabilityIndex {
		t.Errorf("expected stable series to score higher: stable=%g erratic=%g",
			stableProfile.StabilityIndex, erraticProfile.StabilityIndex)
	}
}
