package analyze

import (
	"fmt"
	"math"

	"fredmcp/internal/model"
)

// GrowthProfile summarizes a single country/series' growth characteristics
// over its full observed span: how fast it grew on average, how much that
// growth rate swung year to year, and how steady the growth path has been.
// Used by the GDP cross-country workflow's per-country ranking.
type GrowthProfile struct {
	SeriesID       string  `json:"series_id"`
	Years          float64 `json:"years"`
	CAGRPct        float64 `json:"cagr_pct"`
	Volatility     float64 `json:"volatility"`      // stddev of period-over-period growth rates, in percent
	StabilityIndex float64 `json:"stability_index"` // 1 / (1 + volatility)
}

// CAGR computes the compound annual growth rate, as a percentage, between
// the first and last non-NaN observations in obs: ((v_end/v_start)^(1/years)
// - 1) * 100. Returns an error if fewer than 2 usable points exist or the
// first value is non-positive (a negative or zero base makes a growth rate
// undefined).
func CAGR(obs []model.Observation) (cagrPct, years float64, err error) {
	first, last, years, err := firstLastYears(obs)
	if err != nil {
		return 0, 0, err
	}
	if first.Value <= 0 {
		return 0, years, fmt.Errorf("cagr: first value %g is non-positive, growth rate undefined", first.Value)
	}
	if years <= 0 {
		return 0, years, fmt.Errorf("cagr: non-positive elapsed span (%g years)", years)
	}
	ratio := last.Value / first.Value
	if ratio < 0 {
		return 0, years, fmt.Errorf("cagr: last value %g has opposite sign from first value %g", last.Value, first.Value)
	}
	return (math.Pow(ratio, 1/years) - 1) * 100, years, nil
}

func firstLastYears(obs []model.Observation) (model.Observation, model.Observation, float64, error) {
	var first, last model.Observation
	found := false
	for _, o := range obs {
		if math.IsNaN(o.Value) {
			continue
		}
		if !found {
			first = o
			found = true
		}
		last = o
	}
	if !found {
		return model.Observation{}, model.Observation{}, 0, fmt.Errorf("cagr: no non-NaN observations")
	}
	if first.Date.Equal(last.Date) {
		return first, last, 0, fmt.Errorf("cagr: need at least 2 distinct dates")
	}
	years := last.Date.Sub(first.Date).Hours() / 24 / 365.25
	return first, last, years, nil
}

// Volatility returns the standard deviation of period-over-period percent
// growth rates (not of the levels themselves), the usual measure of how
// erratic a growth path is independent of its trend.
func Volatility(obs []model.Observation) (float64, error) {
	rates, err := growthRates(obs)
	if err != nil {
		return 0, err
	}
	if len(rates) < 2 {
		return 0, fmt.Errorf("volatility: need at least 2 growth-rate observations, got %d", len(rates))
	}
	return stddevF(rates, mean64(rates)), nil
}

func growthRates(obs []model.Observation) ([]float64, error) {
	var rates []float64
	var prev float64
	havePrev := false
	for _, o := range obs {
		if math.IsNaN(o.Value) {
			continue
		}
		if havePrev {
			if prev == 0 {
				prev = o.Value
				continue
			}
			rates = append(rates, (o.Value-prev)/math.Abs(prev)*100)
		}
		prev = o.Value
		havePrev = true
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("volatility: no usable consecutive pairs in %d observations", len(obs))
	}
	return rates, nil
}

// GrowthAnalysis computes CAGR, volatility, and the stability index
// (1 / (1 + volatility)) for a single series.
func GrowthAnalysis(seriesID string, obs []model.Observation) (GrowthProfile, error) {
	profile := GrowthProfile{SeriesID: seriesID}

	cagr, years, err := CAGR(obs)
	if err != nil {
		return profile, err
	}
	profile.CAGRPct = cagr
	profile.Years = years

	vol, err := Volatility(obs)
	if err != nil {
		return profile, err
	}
	profile.Volatility = vol
	profile.StabilityIndex = 1 / (1 + vol)
	return profile, nil
}
