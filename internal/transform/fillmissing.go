package transform

import (
	"fmt"
	"math"

	"fredmcp/internal/model"
)

// FillPolicy selects how FillMissing replaces NaN observations, used by
// the GDP cross-country workflow when aligning series of mismatched
// reporting frequency before computing cross-country statistics.
type FillPolicy string

const (
	// FillInterpolate linearly interpolates between the nearest non-NaN
	// neighbors on either side of a gap.
	FillInterpolate FillPolicy = "interpolate"
	// FillForward carries the last non-NaN value forward across a gap.
	FillForward FillPolicy = "forward"
	// FillDrop removes NaN observations from the series entirely.
	FillDrop FillPolicy = "drop"
)

// FillMissing applies policy to obs. Leading NaNs before the first non-NaN
// value cannot be interpolated or forward-filled and are left as NaN
// (forward fill has nothing to carry, interpolation has no left anchor);
// FillDrop removes them like any other missing point.
func FillMissing(obs []model.Observation, policy FillPolicy) ([]model.Observation, error) {
	switch policy {
	case FillDrop:
		out := make([]model.Observation, 0, len(obs))
		for _, o := range obs {
			if !o.IsMissing() {
				out = append(out, o)
			}
		}
		return out, nil
	case FillForward:
		out := make([]model.Observation, len(obs))
		var last float64 = math.NaN()
		haveLast := false
		for i, o := range obs {
			if !o.IsMissing() {
				last = o.Value
				haveLast = true
				out[i] = o
				continue
			}
			val := math.NaN()
			if haveLast {
				val = last
			}
			out[i] = model.Observation{Date: o.Date, Value: val, ValueRaw: formatRaw(val)}
		}
		return out, nil
	case FillInterpolate:
		return interpolate(obs), nil
	default:
		return nil, fmt.Errorf("fill-missing: unknown policy %q (use interpolate, forward, or drop)", policy)
	}
}

func formatRaw(v float64) string {
	if math.IsNaN(v) {
		return "."
	}
	return fmt.Sprintf("%g", v)
}

func interpolate(obs []model.Observation) []model.Observation {
	out := make([]model.Observation, len(obs))
	copy(out, obs)

	i := 0
	for i < len(out) {
		if !out[i].IsMissing() {
			i++
			continue
		}
		// out[i] is missing; find the run [i, j) of missing values and
		// the anchors immediately before (i-1) and after (j).
		j := i
		for j < len(out) && out[j].IsMissing() {
			j++
		}
		if i == 0 || j == len(out) {
			// No left or no right anchor: cannot interpolate this run.
			i = j
			continue
		}
		left := out[i-1].Value
		right := out[j].Value
		span := float64(j - (i - 1))
		for k := i; k < j; k++ {
			frac := float64(k-(i-1)) / span
			val := left + (right-left)*frac
			out[k] = model.Observation{Date: out[k].Date, Value: val, ValueRaw: formatRaw(val)}
		}
		i = j
	}
	return out
}
