package workflow

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"fredmcp/internal/analyze"
	"fredmcp/internal/apperr"
	"fredmcp/internal/fred"
	"fredmcp/internal/model"
	"fredmcp/internal/transform"
)

// inflationFanout bounds concurrent FRED calls within a single
// compare_inflation_across_regions invocation (spec §4.6 step 3, §5).
const inflationFanout = 8

// seriesOutputWindow is the "24 most recent aligned points" cap on the
// response's time series payload (spec §4.6 step 7). Analysis runs over
// the full aligned window before this truncation is applied.
const seriesOutputWindow = 24

// InflationArgs is the validated input to CompareInflationAcrossRegions.
type InflationArgs struct {
	Regions   []string
	StartDate string
	EndDate   string
	Metric    string // latest | trend | all
}

type RegionTimeseries struct {
	RegionCode string    `json:"region_code"`
	SeriesID   string    `json:"series_id"`
	Dates      []string  `json:"dates"`
	Values     []float64 `json:"values"`
}

type LatestSnapshotEntry struct {
	RegionCode string  `json:"region_code"`
	Value      float64 `json:"value"`
	Rank       int     `json:"rank"`
}

type TargetAnalysisEntry struct {
	RegionCode         string  `json:"region_code"`
	Value              float64 `json:"value"`
	Target             float64 `json:"target"`
	DistanceFromTarget float64 `json:"distance_from_target"`
	Classification     string  `json:"classification"` // above | at | below
	StickyInflation    bool    `json:"sticky_inflation"`
	Notes              string  `json:"notes,omitempty"`
}

type BaseEffectFlag struct {
	RegionCode string `json:"region_code"`
	Detected   bool   `json:"detected"`
	DropDate   string `json:"drop_date,omitempty"`
	RiseDate   string `json:"rise_date,omitempty"`
}

type RegionTrend struct {
	RegionCode        string  `json:"region_code"`
	SlopePerDay       float64 `json:"slope_per_day"`
	Direction         string  `json:"direction"`
	VelocityPerPeriod float64 `json:"velocity_per_period"`
	R2                float64 `json:"r2"`
}

type ConvergenceResult struct {
	Slope          float64 `json:"slope"`
	R2             float64 `json:"r2"`
	PValue         float64 `json:"p_value"`
	Classification string  `json:"classification"` // converging | diverging | stable
}

type InflationComparison struct {
	Date           string                `json:"date"`
	LatestSnapshot []LatestSnapshotEntry `json:"latest_snapshot"`
	TargetAnalysis []TargetAnalysisEntry `json:"target_analysis,omitempty"`
	BaseEffects    []BaseEffectFlag      `json:"base_effects,omitempty"`
	Trends         []RegionTrend         `json:"trends,omitempty"`
	Convergence    *ConvergenceResult    `json:"convergence,omitempty"`
	Series         []RegionTimeseries    `json:"series"`
}

// InflationResult is the full data payload for compare_inflation_across_regions.
type InflationResult struct {
	Comparison            InflationComparison `json:"comparison"`
	SeriesUsed            map[string]string   `json:"series_used"`
	ComparabilityWarnings []string            `json:"comparability_warnings"`
	Limitations           []string            `json:"limitations"`
	Suggestions           []string            `json:"suggestions"`
}

// CompareInflationAcrossRegions implements spec §4.6: expand regions, fetch
// year-over-year inflation in parallel, align on common dates, and derive
// the latest/target/base-effect/trend/convergence views the metric
// parameter asks for.
func (s *Service) CompareInflationAcrossRegions(ctx context.Context, args InflationArgs) (InflationResult, error) {
	var limitations []string

	codes, droppedByCap := expandCodes(args.Regions, regionPresets, maxInflationRegions)
	if len(droppedByCap) > 0 {
		limitations = append(limitations, fmt.Sprintf("regions dropped at the cap of %d: %v", maxInflationRegions, droppedByCap))
	}

	var selected []model.RegionInflation
	for _, code := range codes {
		row, ok := regionInflationTable[code]
		if !ok {
			limitations = append(limitations, fmt.Sprintf("no inflation series mapping for region %q", code))
			continue
		}
		selected = append(selected, row)
	}
	if len(selected) < 2 {
		return InflationResult{}, apperr.New(apperr.KindNoCommonDates, "fewer than 2 regions resolved to a series (have %d)", len(selected))
	}

	fetched, fetchWarnings := s.fetchInflationSeries(ctx, selected, args.StartDate, args.EndDate)
	limitations = append(limitations, fetchWarnings...)
	if len(fetched) == 0 {
		return InflationResult{}, apperr.New(apperr.KindNoDataFetched, "no region produced any observations")
	}
	if len(fetched) < 2 {
		return InflationResult{}, apperr.New(apperr.KindNoCommonDates, "only one region produced data, alignment requires at least 2")
	}

	obsByCode := make(map[string][]model.Observation, len(fetched))
	for code, data := range fetched {
		obsByCode[code] = data.Obs
	}
	aligned, err := transform.Align(obsByCode)
	if err != nil {
		return InflationResult{}, apperr.Wrap(apperr.KindNoCommonDates, err, "aligning regions")
	}

	comparison := InflationComparison{
		Date: aligned.Dates[len(aligned.Dates)-1].Format("2006-01-02"),
	}
	comparison.LatestSnapshot = latestSnapshot(aligned)
	comparison.TargetAnalysis = targetAnalysis(aligned, selected)
	comparison.BaseEffects = baseEffects(aligned)

	if args.Metric == "trend" || args.Metric == "all" {
		comparison.Trends = regionTrends(aligned)
	}
	if args.Metric == "all" {
		comparison.Convergence = convergence(aligned)
	}
	comparison.Series = truncatedSeries(aligned, fetched, seriesOutputWindow)

	seriesUsed := make(map[string]string, len(selected))
	for _, row := range selected {
		seriesUsed[row.RegionCode] = row.SeriesID
	}

	return InflationResult{
		Comparison:            comparison,
		SeriesUsed:            seriesUsed,
		ComparabilityWarnings: comparabilityWarnings(selected),
		Limitations:           limitations,
		Suggestions:           inflationSuggestions(args.Metric),
	}, nil
}

func (s *Service) fetchInflationSeries(ctx context.Context, rows []model.RegionInflation, start, end string) (map[string]*model.SeriesData, []string) {
	type result struct {
		code string
		data *model.SeriesData
		err  error
	}
	results := make(chan result, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(inflationFanout)
	for _, row := range rows {
		row := row
		g.Go(func() error {
			data, err := s.deps.Client.GetObservations(gctx, row.SeriesID, fred.ObsOptions{
				Start: start,
				End:   end,
				Units: "pc1",
			})
			results <- result{code: row.RegionCode, data: data, err: err}
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	fetched := make(map[string]*model.SeriesData)
	var warnings []string
	for r := range results {
		if r.err != nil {
			warnings = append(warnings, fmt.Sprintf("region %s: fetch failed: %s", r.code, r.err.Error()))
			continue
		}
		fetched[r.code] = r.data
	}
	return fetched, warnings
}

func latestSnapshot(aligned transform.Aligned) []LatestSnapshotEntry {
	last := len(aligned.Dates) - 1
	entries := make([]LatestSnapshotEntry, 0, len(aligned.Values))
	for code, vals := range aligned.Values {
		entries = append(entries, LatestSnapshotEntry{RegionCode: code, Value: vals[last]})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Value < entries[j].Value })
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

func targetAnalysis(aligned transform.Aligned, rows []model.RegionInflation) []TargetAnalysisEntry {
	last := len(aligned.Dates) - 1
	var out []TargetAnalysisEntry
	for _, row := range rows {
		if row.CentralBankTarget == nil {
			continue
		}
		vals, ok := aligned.Values[row.RegionCode]
		if !ok {
			continue
		}
		value := vals[last]
		target := *row.CentralBankTarget
		distance := value - target
		class := "at"
		switch {
		case distance > 0.5:
			class = "above"
		case distance < -0.5:
			class = "below"
		}
		out = append(out, TargetAnalysisEntry{
			RegionCode:         row.RegionCode,
			Value:              value,
			Target:             target,
			DistanceFromTarget: distance,
			Classification:     class,
			StickyInflation:    stickyInflation(vals),
			Notes:              row.Notes,
		})
	}
	return out
}

// stickyInflation flags a region whose last 6 aligned observations are all
// above 3.0% (spec §4.6 step 5). Fewer than 6 points means the check
// cannot fire.
func stickyInflation(vals []float64) bool {
	const window = 6
	if len(vals) < window {
		return false
	}
	for _, v := range vals[len(vals)-window:] {
		if v <= 3.0 {
			return false
		}
	}
	return true
}

// baseEffects scans each region's aligned series for the signature base
// effect pattern: a >=1.5pp drop within 2 periods followed by a >=1.5pp
// rise within the next 6 periods (spec §4.6 step 5).
func baseEffects(aligned transform.Aligned) []BaseEffectFlag {
	codes := make([]string, 0, len(aligned.Values))
	for code := range aligned.Values {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]BaseEffectFlag, 0, len(codes))
	for _, code := range codes {
		vals := aligned.Values[code]
		flag := BaseEffectFlag{RegionCode: code}
		for i := 0; i+2 < len(vals); i++ {
			drop := vals[i] - vals[i+2]
			if drop < 1.5 {
				continue
			}
			// j runs up to 6 periods past the drop's low point (inclusive).
			riseEnd := i + 2 + 6 + 1
			if riseEnd > len(vals) {
				riseEnd = len(vals)
			}
			for j := i + 2; j < riseEnd; j++ {
				if vals[j]-vals[i+2] >= 1.5 {
					flag.Detected = true
					flag.DropDate = aligned.Dates[i+2].Format("2006-01-02")
					flag.RiseDate = aligned.Dates[j].Format("2006-01-02")
					break
				}
			}
			if flag.Detected {
				break
			}
		}
		out = append(out, flag)
	}
	return out
}

func regionTrends(aligned transform.Aligned) []RegionTrend {
	codes := make([]string, 0, len(aligned.Values))
	for code := range aligned.Values {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]RegionTrend, 0, len(codes))
	for _, code := range codes {
		obs := obsFromAligned(aligned, code)
		tr, err := analyze.Trend(code, obs, analyze.TrendLinear)
		if err != nil {
			continue
		}
		out = append(out, RegionTrend{
			RegionCode:        code,
			SlopePerDay:       tr.Slope,
			Direction:         tr.Direction,
			VelocityPerPeriod: meanDiff(aligned.Values[code]),
			R2:                tr.R2,
		})
	}
	return out
}

func meanDiff(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	var sum float64
	for i := 1; i < len(vals); i++ {
		sum += vals[i] - vals[i-1]
	}
	return sum / float64(len(vals)-1)
}

func obsFromAligned(aligned transform.Aligned, code string) []model.Observation {
	vals := aligned.Values[code]
	obs := make([]model.Observation, len(vals))
	for i, d := range aligned.Dates {
		obs[i] = model.Observation{Date: d, Value: vals[i]}
	}
	return obs
}

// convergence regresses the cross-region coefficient of variation at each
// aligned date against a time index (spec §4.6 step 5, metric=all).
func convergence(aligned transform.Aligned) *ConvergenceResult {
	n := len(aligned.Dates)
	if n < 3 {
		return nil
	}
	codes := make([]string, 0, len(aligned.Values))
	for code := range aligned.Values {
		codes = append(codes, code)
	}

	x := make([]float64, n)
	y := make([]float64, n)
	for t := 0; t < n; t++ {
		vals := make([]float64, 0, len(codes))
		for _, code := range codes {
			vals = append(vals, aligned.Values[code][t])
		}
		x[t] = float64(t)
		y[t] = coefficientOfVariation(vals)
	}

	reg, err := analyze.Regress(x, y)
	if err != nil {
		return nil
	}
	class := "stable"
	if reg.PValue < 0.05 {
		if reg.Slope < 0 {
			class = "converging"
		} else if reg.Slope > 0 {
			class = "diverging"
		}
	}
	return &ConvergenceResult{Slope: reg.Slope, R2: reg.R2, PValue: reg.PValue, Classification: class}
}

func coefficientOfVariation(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	if mean == 0 {
		return 0
	}
	var sq float64
	for _, v := range vals {
		d := v - mean
		sq += d * d
	}
	variance := sq / float64(len(vals))
	return math.Sqrt(variance) / math.Abs(mean)
}

func truncatedSeries(aligned transform.Aligned, fetched map[string]*model.SeriesData, window int) []RegionTimeseries {
	start := 0
	if len(aligned.Dates) > window {
		start = len(aligned.Dates) - window
	}
	dates := make([]string, 0, len(aligned.Dates)-start)
	for _, d := range aligned.Dates[start:] {
		dates = append(dates, d.Format("2006-01-02"))
	}

	codes := make([]string, 0, len(aligned.Values))
	for code := range aligned.Values {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	out := make([]RegionTimeseries, 0, len(codes))
	for _, code := range codes {
		seriesID := ""
		if data, ok := fetched[code]; ok {
			seriesID = data.SeriesID
		}
		out = append(out, RegionTimeseries{
			RegionCode: code,
			SeriesID:   seriesID,
			Dates:      dates,
			Values:     append([]float64(nil), aligned.Values[code][start:]...),
		})
	}
	return out
}

// comparabilityWarnings are generated deterministically from the set of
// selected rows (spec §4.6 step 6), never from the data itself.
func comparabilityWarnings(rows []model.RegionInflation) []string {
	var warnings []string

	indexTypes := make(map[model.IndexType]bool)
	frequencies := make(map[string]bool)
	ownerHousing := make(map[bool]bool)
	haveCAN, haveUSA := false, false
	for _, row := range rows {
		indexTypes[row.IndexType] = true
		frequencies[row.Frequency] = true
		ownerHousing[row.IncludesOwnerHousing] = true
		if row.RegionCode == "CAN" {
			haveCAN = true
		}
		if row.RegionCode == "USA" {
			haveUSA = true
		}
	}

	if len(indexTypes) > 1 {
		warnings = append(warnings, "mixing HICP (Eurostat) and CPI (national/OECD) series; index levels are not directly comparable across regions")
	}
	if len(ownerHousing) > 1 {
		warnings = append(warnings, "selected regions differ in whether owner-occupied housing costs are included")
	}
	if haveCAN {
		warnings = append(warnings, "Canada's CPI includes a mortgage-interest cost component most peer series exclude")
	}
	if len(frequencies) > 1 {
		warnings = append(warnings, "selected regions report at different frequencies; aligned dates favor the coarsest frequency present")
	}
	if haveUSA {
		warnings = append(warnings, "the Federal Reserve targets 2% PCE inflation, not the CPI series used here for USA")
	}
	return warnings
}

func inflationSuggestions(metric string) []string {
	var suggestions []string
	if metric != "all" {
		suggestions = append(suggestions, "pass metric=\"all\" to include convergence statistics across the selected regions")
	}
	return suggestions
}
