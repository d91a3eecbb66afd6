// Package transform reconciles observation series of differing frequency or
// missing-value pattern so cross-series statistics have a shared footing:
// Align finds the common dates across two or more series, and FillMissing
// repairs gaps within a single series before it reaches Align or analyze.
package transform

import (
	"fmt"
	"sort"
	"time"

	"fredmcp/internal/model"
)

// Aligned is the result of inner-joining two or more series on their common
// dates: every series contributes exactly one value per date in Dates, in
// the same order, so a caller can read Values[id][i] for Dates[i] across
// every id. Dates missing from any one series are dropped.
type Aligned struct {
	Dates  []time.Time          `json:"dates"`
	Values map[string][]float64 `json:"values"` // keyed by the map key passed to Align
}

// Align inner-joins series on their observation dates. Every series must
// contribute at least one non-missing value for a date for that date to
// survive the join; a date present in one series but not another (or
// present but NaN) is dropped from the result entirely. Returns an error
// if fewer than two series are given or no common dates remain.
func Align(series map[string][]model.Observation) (Aligned, error) {
	if len(series) < 2 {
		return Aligned{}, fmt.Errorf("align: need at least 2 series, got %d", len(series))
	}

	byID := make(map[string]map[time.Time]float64, len(series))
	for id, obs := range series {
		m := make(map[time.Time]float64, len(obs))
		for _, o := range obs {
			if !o.IsMissing() {
				m[o.Date] = o.Value
			}
		}
		byID[id] = m
	}

	ids := make([]string, 0, len(series))
	for id := range series {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// A date survives only if every series has a non-missing value there.
	first := byID[ids[0]]
	var common []time.Time
	for d := range first {
		inAll := true
		for _, id := range ids[1:] {
			if _, ok := byID[id][d]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			common = append(common, d)
		}
	}
	if len(common) == 0 {
		return Aligned{}, fmt.Errorf("align: no common dates across %d series", len(series))
	}
	sort.Slice(common, func(i, j int) bool { return common[i].Before(common[j]) })

	values := make(map[string][]float64, len(ids))
	for _, id := range ids {
		vals := make([]float64, len(common))
		for i, d := range common {
			vals[i] = byID[id][d]
		}
		values[id] = vals
	}

	return Aligned{Dates: common, Values: values}, nil
}
