package analyze

import (
	"fmt"
	"math"

	"fredmcp/internal/model"
)

// BreakKind classifies which direction a detected break moved.
type BreakKind string

const (
	VarianceIncrease BreakKind = "variance_increase"
	VarianceDecrease BreakKind = "variance_decrease"
)

// Break marks a single detected structural break: the rolling variance of
// the window ending just before a point differs from the window starting
// at that point by at least the configured ratio. This is a
// rolling-variance detector, not a Chow test or CUSUM — it needs no
// assumption of a known break count and stays cheap enough to run inline
// on every GDP cross-country comparison.
type Break struct {
	Date           string    `json:"date"` // last date of the later (after) window
	Kind           BreakKind `json:"kind"`
	VarianceBefore float64   `json:"variance_before"`
	VarianceAfter  float64   `json:"variance_after"`
	Ratio          float64   `json:"ratio"` // variance_after / variance_before
}

// DefaultBreakWindow is the window size used by the GDP cross-country
// workflow's structural-break pass.
const DefaultBreakWindow = 12

// DetectBreaks slides a window of the given size across obs and flags
// every interior point where the variance of the preceding window and the
// following window differ by a ratio >= 2 (variance_increase) or <= 0.5
// (variance_decrease). NaN observations are excluded from each window
// before computing variance; a window left with fewer than 2 values after
// exclusion is skipped.
func DetectBreaks(obs []model.Observation, window int) ([]Break, error) {
	if window < 2 {
		return nil, fmt.Errorf("detect-breaks: window must be >= 2, got %d", window)
	}
	if len(obs) < window*2 {
		return nil, fmt.Errorf("detect-breaks: need at least %d observations for window %d, got %d", window*2, window, len(obs))
	}

	var breaks []Break
	for i := window; i <= len(obs)-window; i++ {
		before := windowValues(obs[i-window : i])
		after := windowValues(obs[i : i+window])
		if len(before) < 2 || len(after) < 2 {
			continue
		}
		vBefore := stddevF(before, mean64(before))
		vAfter := stddevF(after, mean64(after))
		vBefore *= vBefore
		vAfter *= vAfter

		ratio := signedRatio(vAfter, vBefore)
		switch {
		case ratio >= 2:
			breaks = append(breaks, Break{
				Date:           obs[i+window-1].Date.Format("2006-01-02"),
				Kind:           VarianceIncrease,
				VarianceBefore: vBefore,
				VarianceAfter:  vAfter,
				Ratio:          ratio,
			})
		case ratio <= 0.5:
			breaks = append(breaks, Break{
				Date:           obs[i+window-1].Date.Format("2006-01-02"),
				Kind:           VarianceDecrease,
				VarianceBefore: vBefore,
				VarianceAfter:  vAfter,
				Ratio:          ratio,
			})
		}
	}
	return breaks, nil
}

func windowValues(obs []model.Observation) []float64 {
	vals := make([]float64, 0, len(obs))
	for _, o := range obs {
		if !math.IsNaN(o.Value) {
			vals = append(vals, o.Value)
		}
	}
	return vals
}

func mean64(vals []float64) float64 {
	return sumF(vals) / float64(len(vals))
}

// signedRatio returns after/before, treating a zero before-variance as an
// infinite increase (unless after is also zero, which is no change).
func signedRatio(after, before float64) float64 {
	if before == 0 && after == 0 {
		return 1
	}
	if before == 0 {
		return math.Inf(1)
	}
	return after / before
}
