package tools

import (
	"context"

	"fredmcp/internal/apperr"
	"fredmcp/internal/model"
	"fredmcp/internal/transform"
	"fredmcp/internal/workflow"
)

// CompareInflationAcrossRegionsArgs is the input for
// compare_inflation_across_regions (spec §4.6).
type CompareInflationAcrossRegionsArgs struct {
	Regions   []string `json:"regions"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Metric    string   `json:"metric,omitempty"` // latest | trend | all
}

var validInflationMetric = map[string]bool{"": true, "latest": true, "trend": true, "all": true}

// CompareInflationAcrossRegions expands region codes/presets, fetches and
// harmonizes each region's inflation series, and returns the comparison
// analysis (spec §4.6).
func (t *Tools) CompareInflationAcrossRegions(ctx context.Context, args CompareInflationAcrossRegionsArgs) model.ToolResponse {
	const tool = "compare_inflation_across_regions"
	if len(args.Regions) == 0 {
		return validationResponse(tool, fieldErr("regions", "required, at least one region code or preset name"))
	}
	if !validInflationMetric[args.Metric] {
		return validationResponse(tool, fieldErr("metric", "must be one of latest, trend, all"))
	}
	if err := validateDateRange("start_date", args.StartDate, "end_date", args.EndDate); err != nil {
		return validationResponse(tool, err)
	}

	result, err := t.workflow.CompareInflationAcrossRegions(ctx, workflow.InflationArgs{
		Regions:   args.Regions,
		StartDate: args.StartDate,
		EndDate:   args.EndDate,
		Metric:    args.Metric,
	})
	if err != nil {
		return errorResponse(tool, apperr.KindUpstream5xx, err)
	}

	params := map[string]interface{}{
		"regions":    args.Regions,
		"start_date": args.StartDate,
		"end_date":   args.EndDate,
		"metric":     args.Metric,
	}
	return dataResponse(tool, result, params, false, nil)
}

// gdpDefaultStartDate is the start_date default named in spec §4.7's
// operation signature when the caller omits it.
const gdpDefaultStartDate = "1960-01-01"

// AnalyzeGDPCrossCountryArgs is the input for analyze_gdp_cross_country
// (spec §4.7). The five Include*/Detect* flags are *bool rather than bool
// so an absent field can default to true (per the operation signature)
// while an explicit false is still honored — a plain bool can't tell
// "omitted" apart from "the caller asked for false".
type AnalyzeGDPCrossCountryArgs struct {
	Countries              []string `json:"countries"`
	GDPVariants            []string `json:"gdp_variants,omitempty"`
	StartDate              string   `json:"start_date,omitempty"`
	EndDate                string   `json:"end_date,omitempty"`
	ComparisonMode         string   `json:"comparison_mode,omitempty"`
	BaseYear               string   `json:"base_year,omitempty"`
	IncludePopulation      *bool    `json:"include_population,omitempty"`
	IncludeRankings        *bool    `json:"include_rankings,omitempty"`
	IncludeConvergence     *bool    `json:"include_convergence,omitempty"`
	IncludeGrowthAnalysis  *bool    `json:"include_growth_analysis,omitempty"`
	DetectStructuralBreaks *bool    `json:"detect_structural_breaks,omitempty"`
	OutputFormat           string   `json:"output_format,omitempty"` // analysis | dataset | summary | both
	FillMissing            string   `json:"fill_missing,omitempty"`  // interpolate | forward | drop
	AlignMethod            string   `json:"align_method,omitempty"`  // inner | outer
	BenchmarkAgainst       string   `json:"benchmark_against,omitempty"`
	Frequency              string   `json:"frequency,omitempty"` // daily|weekly|monthly|quarterly|annual, defaults to annual
}

// boolDefault returns *p, or def if p is nil.
func boolDefault(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

var validGDPVariant = map[string]model.GDPVariant{
	"nominal_usd":         model.GDPNominalUSD,
	"constant_2010":       model.GDPConstant2010,
	"per_capita_constant": model.GDPPerCapitaConstant,
	"per_capita_ppp":      model.GDPPerCapitaPPP,
	"ppp_adjusted":        model.GDPPPPAdjusted,
	"population":          model.GDPPopulation,
	"growth_rate":         model.GDPGrowthRate,
}

var validComparisonMode = map[string]bool{
	"": true, "absolute": true, "indexed": true, "per_capita": true,
	"growth_rates": true, "ppp": true, "relative_to_benchmark": true,
}

var validOutputFormat = map[string]bool{"": true, "analysis": true, "dataset": true, "summary": true, "both": true}

var validFillMissing = map[string]transform.FillPolicy{
	"":            transform.FillInterpolate,
	"interpolate": transform.FillInterpolate,
	"forward":     transform.FillForward,
	"drop":        transform.FillDrop,
}

var validAlignMethod = map[string]bool{"": true, "inner": true, "outer": true}

// AnalyzeGDPCrossCountry expands country codes/presets, fetches and derives
// the requested GDP variants, aligns them, and returns the harmonized
// comparison (spec §4.7).
func (t *Tools) AnalyzeGDPCrossCountry(ctx context.Context, args AnalyzeGDPCrossCountryArgs) model.ToolResponse {
	const tool = "analyze_gdp_cross_country"
	if len(args.Countries) == 0 {
		return validationResponse(tool, fieldErr("countries", "required, at least one country code or preset name"))
	}
	if err := validateDateRange("start_date", args.StartDate, "end_date", args.EndDate); err != nil {
		return validationResponse(tool, err)
	}
	if !validComparisonMode[args.ComparisonMode] {
		return validationResponse(tool, fieldErr("comparison_mode", "must be one of absolute, indexed, per_capita, growth_rates, ppp, relative_to_benchmark"))
	}
	if !validOutputFormat[args.OutputFormat] {
		return validationResponse(tool, fieldErr("output_format", "must be one of analysis, dataset, summary, both"))
	}
	if !validAlignMethod[args.AlignMethod] {
		return validationResponse(tool, fieldErr("align_method", "must be one of inner, outer"))
	}
	fillPolicy, ok := validFillMissing[args.FillMissing]
	if !ok {
		return validationResponse(tool, fieldErr("fill_missing", "must be one of interpolate, forward, drop"))
	}
	if args.ComparisonMode == "relative_to_benchmark" && args.BenchmarkAgainst == "" {
		return validationResponse(tool, fieldErr("benchmark_against", "required when comparison_mode is relative_to_benchmark"))
	}
	if !validFreq[args.Frequency] {
		return validationResponse(tool, fieldErr("frequency", "must be one of d,w,bw,m,q,sa,a (got %q)", args.Frequency))
	}

	variants := make([]model.GDPVariant, 0, len(args.GDPVariants))
	for _, v := range args.GDPVariants {
		variant, ok := validGDPVariant[v]
		if !ok {
			return validationResponse(tool, fieldErr("gdp_variants", "unknown variant %q", v))
		}
		variants = append(variants, variant)
	}

	startDate := args.StartDate
	if startDate == "" {
		startDate = gdpDefaultStartDate
	}

	result, err := t.workflow.AnalyzeGDPCrossCountry(ctx, workflow.GDPArgs{
		Countries:              args.Countries,
		GDPVariants:            variants,
		StartDate:              startDate,
		EndDate:                args.EndDate,
		ComparisonMode:         args.ComparisonMode,
		BaseYear:               args.BaseYear,
		IncludePopulation:      boolDefault(args.IncludePopulation, true),
		IncludeRankings:        boolDefault(args.IncludeRankings, true),
		IncludeConvergence:     boolDefault(args.IncludeConvergence, true),
		IncludeGrowthAnalysis:  boolDefault(args.IncludeGrowthAnalysis, true),
		DetectStructuralBreaks: boolDefault(args.DetectStructuralBreaks, true),
		OutputFormat:           args.OutputFormat,
		FillMissing:            fillPolicy,
		AlignMethod:            args.AlignMethod,
		BenchmarkAgainst:       args.BenchmarkAgainst,
		Frequency:              args.Frequency,
	})
	if err != nil {
		return errorResponse(tool, apperr.KindUpstream5xx, err)
	}

	params := map[string]interface{}{
		"countries":       args.Countries,
		"gdp_variants":    args.GDPVariants,
		"start_date":      args.StartDate,
		"end_date":        args.EndDate,
		"comparison_mode": args.ComparisonMode,
		"output_format":   args.OutputFormat,
	}
	return dataResponse(tool, result, params, false, nil)
}
