package workflow

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"fredmcp/internal/analyze"
	"fredmcp/internal/apperr"
	"fredmcp/internal/fred"
	"fredmcp/internal/model"
	"fredmcp/internal/transform"
)

// gdpFanout bounds concurrent FRED calls within a single
// analyze_gdp_cross_country invocation (spec §4.7 step 3, §5).
const gdpFanout = 10

// gdpPerCapitaScale is the unit conversion spec §4.7 step 4 calls for when
// deriving per-capita GDP from a total expressed in billions of currency
// units: total (billions) × 1e9 ÷ population.
const gdpPerCapitaScale = 1e9

// GDPArgs is the validated input to AnalyzeGDPCrossCountry.
type GDPArgs struct {
	Countries              []string
	GDPVariants            []model.GDPVariant
	StartDate              string
	EndDate                string
	ComparisonMode         string // absolute | indexed | per_capita | growth_rates | ppp | relative_to_benchmark
	BaseYear               string
	IncludePopulation      bool
	IncludeRankings        bool
	IncludeConvergence     bool
	IncludeGrowthAnalysis  bool
	DetectStructuralBreaks bool
	OutputFormat           string // analysis | dataset | summary | both
	FillMissing            transform.FillPolicy
	AlignMethod            string // inner | outer
	BenchmarkAgainst       string
	Frequency              string // daily|weekly|monthly|quarterly|annual, defaults to annual
}

// VariantPlan records which variants were fetched directly versus derived
// (spec §4.7 step 2), surfaced so a caller can see why a requested variant
// might be missing from the series payload.
type VariantPlan struct {
	DirectFetch []string `json:"direct_fetch"`
	Derived     []string `json:"derived"`
}

// CountryVariantSeries is one (country, variant) time series in the
// dataset output view.
type CountryVariantSeries struct {
	CountryCode string    `json:"country_code"`
	Variant     string    `json:"variant"`
	SeriesID    string    `json:"series_id,omitempty"` // empty when derived rather than fetched
	Dates       []string  `json:"dates"`
	Values      []float64 `json:"values"`
}

// CountryMetrics is the per-country analysis view (spec §4.7 step 6).
type CountryMetrics struct {
	CountryCode      string          `json:"country_code"`
	Observations     int             `json:"observations"`
	FirstDate        string          `json:"first_date"`
	LastDate         string          `json:"last_date"`
	Min              float64         `json:"min"`
	Max              float64         `json:"max"`
	Mean             float64         `json:"mean"`
	Outliers         int             `json:"outliers"`
	CAGRPct          float64         `json:"cagr_pct,omitempty"`
	Volatility       float64         `json:"volatility,omitempty"`
	StabilityIndex   float64         `json:"stability_index,omitempty"`
	StructuralBreaks []analyze.Break `json:"structural_breaks,omitempty"`
}

// CrossCountryDispersion is the latest-date cross-country summary (spec
// §4.7 step 7).
type CrossCountryDispersion struct {
	Date   string  `json:"date"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	CV     float64 `json:"cv"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// BetaConvergence is the cross-country catch-up-growth regression.
type BetaConvergence struct {
	Coefficient    float64 `json:"coefficient"`
	R2             float64 `json:"r2"`
	PValue         float64 `json:"p_value"`
	Classification string  `json:"classification"` // catch-up growth | rich grow faster | none
}

// ConvergenceStats bundles sigma and beta convergence, or a note explaining
// why neither could be computed (spec §4.7 step 7 preconditions).
type ConvergenceStats struct {
	Sigma *ConvergenceResult `json:"sigma"`
	Beta  *BetaConvergence   `json:"beta"`
	Note  string             `json:"note,omitempty"`
}

// Ranking is one ordering of countries by a single metric (spec §4.7 step 8).
type Ranking struct {
	By      string         `json:"by"` // level | cagr | stability
	Entries []RankingEntry `json:"entries"`
}

type RankingEntry struct {
	CountryCode string  `json:"country_code"`
	Value       float64 `json:"value"`
	Rank        int     `json:"rank"`
}

// GDPResult is the full data payload for analyze_gdp_cross_country. Which
// fields are populated depends on output_format (spec §4.7 step 10).
type GDPResult struct {
	CountriesUsed  []string                 `json:"countries_used"`
	VariantPlan    VariantPlan              `json:"variant_plan"`
	Series         []CountryVariantSeries   `json:"series,omitempty"`
	CountryMetrics []CountryMetrics         `json:"country_metrics,omitempty"`
	Dispersion     []CrossCountryDispersion `json:"dispersion,omitempty"`
	Convergence    *ConvergenceStats        `json:"convergence,omitempty"`
	Rankings       []Ranking                `json:"rankings,omitempty"`
	Warnings       []string                 `json:"warnings,omitempty"`
	Summary        string                   `json:"summary,omitempty"`
}

// AnalyzeGDPCrossCountry implements spec §4.7's VALIDATE→FETCH→DERIVE→
// ALIGN→ANALYZE→FORMAT→RETURN state machine.
func (s *Service) AnalyzeGDPCrossCountry(ctx context.Context, args GDPArgs) (GDPResult, error) {
	// VALIDATE / expand
	codes, droppedByCap := expandCodes(args.Countries, countryPresets, maxGDPCountries)
	var warnings []string
	if len(droppedByCap) > 0 {
		warnings = append(warnings, fmt.Sprintf("countries dropped at the cap of %d: %v", maxGDPCountries, droppedByCap))
	}
	var resolved []model.CountryGDP
	for _, code := range codes {
		row, ok := countryGDPTable[code]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown country code %q dropped", code))
			continue
		}
		resolved = append(resolved, row)
	}
	if len(resolved) == 0 {
		return GDPResult{}, apperr.New(apperr.KindValidation, "no valid country codes after expansion")
	}

	requested := args.GDPVariants
	if len(requested) == 0 {
		requested = []model.GDPVariant{model.GDPPerCapitaConstant}
	}
	direct, derived := planVariants(requested, args.IncludePopulation)
	primary := selectPrimaryVariant(args.ComparisonMode, requested)

	// FETCH
	frequency := args.Frequency
	if frequency == "" {
		frequency = "annual"
	}
	raw, fetchWarnings := s.fetchGDPSeries(ctx, resolved, direct, args.StartDate, args.EndDate, frequency)
	warnings = append(warnings, fetchWarnings...)
	if len(raw) == 0 {
		return GDPResult{}, apperr.New(apperr.KindNoDataFetched, "no country produced any observations")
	}

	// DERIVE
	derivedObs := deriveVariants(resolved, raw, derived, primary)
	for code, obs := range derivedObs {
		if raw[code] == nil {
			raw[code] = map[model.GDPVariant][]model.Observation{}
		}
		for variant, series := range obs {
			raw[code][variant] = series
		}
	}

	countriesUsed := make([]string, 0, len(raw))
	for code := range raw {
		countriesUsed = append(countriesUsed, code)
	}
	sort.Strings(countriesUsed)

	// ALIGN (fill_missing per country, then inner-join the primary variant
	// across countries for cross-country analysis)
	fillPolicy := args.FillMissing
	if fillPolicy == "" {
		fillPolicy = transform.FillInterpolate
	}
	primaryByCountry := make(map[string][]model.Observation, len(countriesUsed))
	for _, code := range countriesUsed {
		obs := raw[code][primary]
		if len(obs) == 0 {
			continue
		}
		filled, err := transform.FillMissing(obs, fillPolicy)
		if err != nil {
			filled = obs
		}
		primaryByCountry[code] = filled
	}

	var aligned transform.Aligned
	var alignErr error
	if args.AlignMethod == "outer" {
		alignErr = fmt.Errorf("outer alignment requested; cross-country dispersion/convergence require inner-joined dates and are skipped")
		warnings = append(warnings, alignErr.Error())
	} else if len(primaryByCountry) >= 2 {
		aligned, alignErr = transform.Align(primaryByCountry)
		if alignErr != nil {
			warnings = append(warnings, fmt.Sprintf("alignment: %s", alignErr.Error()))
		}
	} else {
		alignErr = fmt.Errorf("fewer than 2 countries have the primary variant")
	}

	// ANALYZE
	result := GDPResult{
		CountriesUsed: countriesUsed,
		VariantPlan:   VariantPlan{DirectFetch: variantStrings(direct), Derived: variantStrings(derived)},
		Warnings:      warnings,
	}

	if args.IncludeGrowthAnalysis || args.DetectStructuralBreaks {
		result.CountryMetrics = countryMetricsFor(countriesUsed, primaryByCountry, args.IncludeGrowthAnalysis, args.DetectStructuralBreaks)
	}

	if alignErr == nil && len(aligned.Dates) > 0 {
		result.Dispersion = dispersionSeries(aligned)
		if args.IncludeConvergence {
			result.Convergence = gdpConvergence(aligned, result.CountryMetrics)
		}
		if args.IncludeRankings {
			result.Rankings = gdpRankings(aligned, result.CountryMetrics)
		}
	}

	applyComparisonMode(raw, primary, countriesUsed, args)

	if args.OutputFormat != "analysis" {
		result.Series = datasetSeries(raw, countriesUsed)
	}
	if args.OutputFormat == "dataset" {
		result.CountryMetrics = nil
		result.Dispersion = nil
		result.Convergence = nil
		result.Rankings = nil
	}
	if args.OutputFormat == "summary" || args.OutputFormat == "both" {
		result.Summary = summarize(result)
	}
	if args.OutputFormat == "summary" {
		result.Series = nil
	}

	return result, nil
}

// planVariants computes the direct-fetch and derived-only variant sets
// (spec §4.7 step 2).
func planVariants(requested []model.GDPVariant, includePopulation bool) (direct, derived []model.GDPVariant) {
	directSet := make(map[model.GDPVariant]bool)
	derivedSet := make(map[model.GDPVariant]bool)
	for _, v := range requested {
		switch v {
		case model.GDPGrowthRate:
			derivedSet[v] = true
			directSet[model.GDPConstant2010] = true
		case model.GDPPerCapitaConstant:
			directSet[v] = true
			directSet[model.GDPConstant2010] = true
			directSet[model.GDPPopulation] = true
		case model.GDPPerCapitaPPP:
			directSet[v] = true
			directSet[model.GDPPPPAdjusted] = true
			directSet[model.GDPPopulation] = true
		default:
			directSet[v] = true
		}
	}
	if includePopulation {
		directSet[model.GDPPopulation] = true
	}
	for v := range directSet {
		direct = append(direct, v)
	}
	for v := range derivedSet {
		derived = append(derived, v)
	}
	sort.Slice(direct, func(i, j int) bool { return direct[i] < direct[j] })
	sort.Slice(derived, func(i, j int) bool { return derived[i] < derived[j] })
	return direct, derived
}

func selectPrimaryVariant(mode string, requested []model.GDPVariant) model.GDPVariant {
	switch mode {
	case "per_capita":
		return model.GDPPerCapitaConstant
	case "growth_rates":
		return model.GDPGrowthRate
	case "ppp":
		return model.GDPPPPAdjusted
	default:
		if len(requested) > 0 {
			return requested[0]
		}
		return model.GDPConstant2010
	}
}

func variantStrings(vs []model.GDPVariant) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = string(v)
	}
	return out
}

func (s *Service) fetchGDPSeries(ctx context.Context, countries []model.CountryGDP, variants []model.GDPVariant, start, end, frequency string) (map[string]map[model.GDPVariant][]model.Observation, []string) {
	type job struct {
		country  string
		variant  model.GDPVariant
		seriesID string
	}
	var jobs []job
	for _, c := range countries {
		for _, v := range variants {
			if id, ok := c.Series[v]; ok {
				jobs = append(jobs, job{country: c.CountryCode, variant: v, seriesID: id})
			}
		}
	}

	type result struct {
		job
		obs []model.Observation
		err error
	}
	results := make(chan result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(gdpFanout)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			data, err := s.deps.Client.GetObservations(gctx, j.seriesID, fred.ObsOptions{
				Start: start,
				End:   end,
				Freq:  frequency,
			})
			r := result{job: j, err: err}
			if data != nil {
				r.obs = data.Obs
			}
			results <- r
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	out := make(map[string]map[model.GDPVariant][]model.Observation)
	var warnings []string
	for r := range results {
		if r.err != nil {
			warnings = append(warnings, fmt.Sprintf("country %s variant %s: fetch failed: %s", r.country, r.variant, r.err.Error()))
			continue
		}
		if out[r.country] == nil {
			out[r.country] = make(map[model.GDPVariant][]model.Observation)
		}
		out[r.country][r.variant] = r.obs
	}
	return out, warnings
}

// deriveVariants computes growth_rate (from constant_2010) and fills in
// per-capita variants for any country whose direct fetch of that variant
// came back empty, dividing the corresponding total by population (spec
// §4.7 step 4).
func deriveVariants(countries []model.CountryGDP, raw map[string]map[model.GDPVariant][]model.Observation, derived []model.GDPVariant, primary model.GDPVariant) map[string]map[model.GDPVariant][]model.Observation {
	out := make(map[string]map[model.GDPVariant][]model.Observation)
	needsGrowth := false
	for _, v := range derived {
		if v == model.GDPGrowthRate {
			needsGrowth = true
		}
	}
	wantGrowth := needsGrowth || primary == model.GDPGrowthRate

	for code, variants := range raw {
		result := make(map[model.GDPVariant][]model.Observation)

		if wantGrowth {
			if base, ok := variants[model.GDPConstant2010]; ok && len(base) > 1 {
				result[model.GDPGrowthRate] = growthRateSeries(base)
			}
		}
		if len(variants[model.GDPPerCapitaConstant]) == 0 {
			result[model.GDPPerCapitaConstant] = perCapitaSeries(variants[model.GDPConstant2010], variants[model.GDPPopulation])
		}
		if len(variants[model.GDPPerCapitaPPP]) == 0 {
			result[model.GDPPerCapitaPPP] = perCapitaSeries(variants[model.GDPPPPAdjusted], variants[model.GDPPopulation])
		}
		if len(result) > 0 {
			out[code] = result
		}
	}
	return out
}

func growthRateSeries(obs []model.Observation) []model.Observation {
	out := make([]model.Observation, 0, len(obs))
	for i := 1; i < len(obs); i++ {
		if obs[i].IsMissing() || obs[i-1].IsMissing() || obs[i-1].Value == 0 {
			continue
		}
		rate := (obs[i].Value/obs[i-1].Value - 1) * 100
		out = append(out, model.Observation{Date: obs[i].Date, Value: rate})
	}
	return out
}

func perCapitaSeries(total, population []model.Observation) []model.Observation {
	if len(total) == 0 || len(population) == 0 {
		return nil
	}
	popByDate := make(map[int64]float64, len(population))
	for _, p := range population {
		if !p.IsMissing() {
			popByDate[p.Date.Unix()] = p.Value
		}
	}
	out := make([]model.Observation, 0, len(total))
	for _, t := range total {
		if t.IsMissing() {
			continue
		}
		pop, ok := popByDate[t.Date.Unix()]
		if !ok || pop == 0 {
			continue
		}
		out = append(out, model.Observation{Date: t.Date, Value: t.Value * gdpPerCapitaScale / pop})
	}
	return out
}

func countryMetricsFor(codes []string, primaryByCountry map[string][]model.Observation, includeGrowth, includeBreaks bool) []CountryMetrics {
	out := make([]CountryMetrics, 0, len(codes))
	for _, code := range codes {
		obs := primaryByCountry[code]
		if len(obs) == 0 {
			continue
		}
		summary := analyze.Summarize(code, obs)
		m := CountryMetrics{
			CountryCode:  code,
			Observations: summary.Count,
			FirstDate:    obs[0].Date.Format("2006-01-02"),
			LastDate:     obs[len(obs)-1].Date.Format("2006-01-02"),
			Min:          summary.Min,
			Max:          summary.Max,
			Mean:         summary.Mean,
			Outliers:     summary.Outliers,
		}
		if includeGrowth {
			if profile, err := analyze.GrowthAnalysis(code, obs); err == nil {
				m.CAGRPct = profile.CAGRPct
				m.Volatility = profile.Volatility
				m.StabilityIndex = profile.StabilityIndex
			}
		}
		if includeBreaks {
			if breaks, err := analyze.DetectBreaks(obs, analyze.DefaultBreakWindow); err == nil {
				m.StructuralBreaks = breaks
			}
		}
		out = append(out, m)
	}
	return out
}

func dispersionSeries(aligned transform.Aligned) []CrossCountryDispersion {
	codes := make([]string, 0, len(aligned.Values))
	for code := range aligned.Values {
		codes = append(codes, code)
	}
	out := make([]CrossCountryDispersion, len(aligned.Dates))
	for t, d := range aligned.Dates {
		vals := make([]float64, 0, len(codes))
		for _, code := range codes {
			vals = append(vals, aligned.Values[code][t])
		}
		out[t] = dispersionAt(d.Format("2006-01-02"), vals)
	}
	return out
}

func dispersionAt(date string, vals []float64) CrossCountryDispersion {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	var sq float64
	for _, v := range vals {
		d := v - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(vals)))
	cv := 0.0
	if mean != 0 {
		cv = std / math.Abs(mean)
	}
	return CrossCountryDispersion{
		Date:   date,
		Mean:   mean,
		Median: sorted[len(sorted)/2],
		Std:    std,
		CV:     cv,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

// gdpConvergence computes sigma convergence (CV over time) and beta
// convergence (CAGR vs log initial level), subject to the spec §4.7 step 7
// preconditions of >=3 countries and >=5 overlapping observations.
func gdpConvergence(aligned transform.Aligned, metrics []CountryMetrics) *ConvergenceStats {
	numCountries := len(aligned.Values)
	numObs := len(aligned.Dates)
	if numCountries < 3 || numObs < 5 {
		return &ConvergenceStats{Note: "Insufficient overlapping data"}
	}

	x := make([]float64, numObs)
	y := make([]float64, numObs)
	codes := make([]string, 0, numCountries)
	for code := range aligned.Values {
		codes = append(codes, code)
	}
	for t := 0; t < numObs; t++ {
		vals := make([]float64, 0, numCountries)
		for _, code := range codes {
			vals = append(vals, aligned.Values[code][t])
		}
		x[t] = float64(t)
		y[t] = dispersionAt("", vals).CV
	}
	stats := &ConvergenceStats{}
	if sigma, err := analyze.Regress(x, y); err == nil {
		class := "stable"
		if sigma.PValue < 0.05 {
			if sigma.Slope < 0 {
				class = "converging"
			} else if sigma.Slope > 0 {
				class = "diverging"
			}
		}
		stats.Sigma = &ConvergenceResult{Slope: sigma.Slope, R2: sigma.R2, PValue: sigma.PValue, Classification: class}
	}

	metricsByCode := make(map[string]CountryMetrics, len(metrics))
	for _, m := range metrics {
		metricsByCode[m.CountryCode] = m
	}
	var bx, by []float64
	for _, code := range codes {
		m, ok := metricsByCode[code]
		if !ok || m.CAGRPct == 0 {
			continue
		}
		initial := aligned.Values[code][0]
		if initial <= 0 {
			continue
		}
		bx = append(bx, math.Log(initial))
		by = append(by, m.CAGRPct)
	}
	if len(bx) >= 3 {
		if beta, err := analyze.Regress(bx, by); err == nil {
			class := "none"
			if beta.PValue < 0.05 {
				if beta.Slope < 0 {
					class = "catch-up growth"
				} else {
					class = "rich grow faster"
				}
			}
			stats.Beta = &BetaConvergence{Coefficient: beta.Slope, R2: beta.R2, PValue: beta.PValue, Classification: class}
		}
	}
	if stats.Sigma == nil && stats.Beta == nil {
		stats.Note = "Insufficient overlapping data"
	}
	return stats
}

func gdpRankings(aligned transform.Aligned, metrics []CountryMetrics) []Ranking {
	last := len(aligned.Dates) - 1
	byLevel := make([]RankingEntry, 0, len(aligned.Values))
	for code, vals := range aligned.Values {
		byLevel = append(byLevel, RankingEntry{CountryCode: code, Value: vals[last]})
	}
	sort.Slice(byLevel, func(i, j int) bool { return byLevel[i].Value > byLevel[j].Value })
	rankInPlace(byLevel)

	byCAGR := make([]RankingEntry, 0, len(metrics))
	byStability := make([]RankingEntry, 0, len(metrics))
	for _, m := range metrics {
		byCAGR = append(byCAGR, RankingEntry{CountryCode: m.CountryCode, Value: m.CAGRPct})
		byStability = append(byStability, RankingEntry{CountryCode: m.CountryCode, Value: m.StabilityIndex})
	}
	sort.Slice(byCAGR, func(i, j int) bool { return byCAGR[i].Value > byCAGR[j].Value })
	sort.Slice(byStability, func(i, j int) bool { return byStability[i].Value > byStability[j].Value })
	rankInPlace(byCAGR)
	rankInPlace(byStability)

	return []Ranking{
		{By: "level", Entries: byLevel},
		{By: "cagr", Entries: byCAGR},
		{By: "stability", Entries: byStability},
	}
}

func rankInPlace(entries []RankingEntry) {
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

// applyComparisonMode rewrites the primary-variant series in raw in place
// for the indexed and relative_to_benchmark modes (spec §4.7 step 9); the
// other modes select a primary variant but need no further transform.
func applyComparisonMode(raw map[string]map[model.GDPVariant][]model.Observation, primary model.GDPVariant, codes []string, args GDPArgs) {
	switch args.ComparisonMode {
	case "indexed":
		baseYear, err := strconv.Atoi(args.BaseYear)
		if err != nil {
			return
		}
		for _, code := range codes {
			obs := raw[code][primary]
			base := baseValueForYear(obs, baseYear)
			if base == 0 {
				continue
			}
			raw[code][primary] = indexSeries(obs, base)
		}
	case "relative_to_benchmark":
		if args.BenchmarkAgainst == "" {
			return
		}
		benchmark := raw[args.BenchmarkAgainst][primary]
		if len(benchmark) == 0 {
			return
		}
		benchByDate := make(map[int64]float64, len(benchmark))
		for _, o := range benchmark {
			benchByDate[o.Date.Unix()] = o.Value
		}
		for _, code := range codes {
			if code == args.BenchmarkAgainst {
				continue
			}
			obs := raw[code][primary]
			out := make([]model.Observation, 0, len(obs))
			for _, o := range obs {
				if b, ok := benchByDate[o.Date.Unix()]; ok && b != 0 {
					out = append(out, model.Observation{Date: o.Date, Value: o.Value / b})
				}
			}
			raw[code][primary] = out
		}
	}
}

func baseValueForYear(obs []model.Observation, year int) float64 {
	for _, o := range obs {
		if o.Date.Year() == year && !o.IsMissing() {
			return o.Value
		}
	}
	return 0
}

func indexSeries(obs []model.Observation, base float64) []model.Observation {
	out := make([]model.Observation, len(obs))
	for i, o := range obs {
		val := math.NaN()
		if !o.IsMissing() {
			val = o.Value / base * 100
		}
		out[i] = model.Observation{Date: o.Date, Value: val}
	}
	return out
}

func datasetSeries(raw map[string]map[model.GDPVariant][]model.Observation, codes []string) []CountryVariantSeries {
	var out []CountryVariantSeries
	for _, code := range codes {
		variants := make([]model.GDPVariant, 0, len(raw[code]))
		for v := range raw[code] {
			variants = append(variants, v)
		}
		sort.Slice(variants, func(i, j int) bool { return variants[i] < variants[j] })
		for _, v := range variants {
			obs := raw[code][v]
			dates := make([]string, len(obs))
			values := make([]float64, len(obs))
			for i, o := range obs {
				dates[i] = o.Date.Format("2006-01-02")
				values[i] = o.Value
			}
			out = append(out, CountryVariantSeries{CountryCode: code, Variant: string(v), Dates: dates, Values: values})
		}
	}
	return out
}

func summarize(r GDPResult) string {
	s := fmt.Sprintf("%d countries analyzed", len(r.CountriesUsed))
	if r.Convergence != nil && r.Convergence.Sigma != nil {
		s += fmt.Sprintf("; sigma convergence: %s", r.Convergence.Sigma.Classification)
	}
	if len(r.Rankings) > 0 && len(r.Rankings[0].Entries) > 0 {
		s += fmt.Sprintf("; highest level: %s", r.Rankings[0].Entries[0].CountryCode)
	}
	return s
}
