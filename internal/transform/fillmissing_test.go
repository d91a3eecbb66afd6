package transform_test

import (
	"math"
	"testing"

	"fredmcp/internal/transform"
)

func TestFillMissingInterpolateFillsInteriorGap(t *testing.T) {
	obs := makeAnnual(2010, 10, math.NaN(), math.NaN(), 40)
	out, err := transform.FillMissing(obs, transform.FillInterpolate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(out[1].Value, 20, 1e-9) {
		t.Errorf("out[1]: expected 20, got %g", out[1].Value)
	}
	if !approxEqual(out[2].Value, 30, 1e-9) {
		t.Errorf("out[2]: expected 30, got %g", out[2].Value)
	}
}

func TestFillMissingInterpolateLeavesUnanchoredEdgesAsNaN(t *testing.T) {
	obs := makeAnnual(2010, math.NaN(), 10, 20, math.NaN())
	out, err := transform.FillMissing(obs, transform.FillInterpolate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(out[0].Value) {
		t.Errorf("out[0]: expected NaN (no left anchor), got %g", out[0].Value)
	}
	if !math.IsNaN(out[3].Value) {
		t.Errorf("out[3]: expected NaN (no right anchor), got %g", out[3].Value)
	}
}

func TestFillMissingForwardCarriesLastValue(t *testing.T) {
	obs := makeAnnual(2010, 10, math.NaN(), math.NaN(), 40)
	out, err := transform.FillMissing(obs, transform.FillForward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approxEqual(out[1].Value, 10, 1e-9) || !approxEqual(out[2].Value, 10, 1e-9) {
		t.Errorf("expected forward-filled 10s, got %g, %g", out[1].Value, out[2].Value)
	}
	if !approxEqual(out[3].Value, 40, 1e-9) {
		t.Errorf("out[3]: expected 40, got %g", out[3].Value)
	}
}

func TestFillMissingForwardLeavesLeadingNaN(t *testing.T) {
	obs := makeAnnual(2010, math.NaN(), 10)
	out, err := transform.FillMissing(obs, transform.FillForward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(out[0].Value) {
		t.Errorf("out[0]: expected NaN, got %g", out[0].Value)
	}
}

func TestFillMissingDropRemovesNaNObservations(t *testing.T) {
	obs := makeAnnual(2010, 10, math.NaN(), 30)
	out, err := transform.FillMissing(obs, transform.FillDrop)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 observations after drop, got %d", len(out))
	}
}

func TestFillMissingRejectsUnknownPolicy(t *testing.T) {
	obs := makeAnnual(2010, 10, 20)
	_, err := transform.FillMissing(obs, transform.FillPolicy("bogus"))
	if err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

