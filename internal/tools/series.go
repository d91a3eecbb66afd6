package tools

import (
	"context"

	"fredmcp/internal/apperr"
	"fredmcp/internal/fred"
	"fredmcp/internal/model"
)

// SearchFredSeriesArgs is the input for search_fred_series.
type SearchFredSeriesArgs struct {
	SearchText string `json:"search_text"`
	Tags       string `json:"tags,omitempty"` // semicolon-delimited
	Source     int    `json:"source,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// SearchFredSeries performs a full-text search (search_type=full_text) with
// an optional tag filter (spec §4.5); series-id search is not offered. The
// source argument is echoed in metadata but not sent to FRED, so it does not
// filter results. limit clamps to [1, 1000]; 0 clamps to 1.
func (t *Tools) SearchFredSeries(ctx context.Context, args SearchFredSeriesArgs) model.ToolResponse {
	const tool = "search_fred_series"
	if args.SearchText == "" {
		return validationResponse(tool, fieldErr("search_text", "required"))
	}
	limit := clampLimit(args.Limit)

	opts := fred.SearchSeriesOptions{
		Tags:   splitSemicolon(args.Tags),
		Source: args.Source,
		Limit:  limit,
		Offset: args.Offset,
	}

	hitCtx, hit := withCacheHit(ctx)
	result, err := t.deps.Client.SearchSeries(hitCtx, args.SearchText, opts)
	if err != nil {
		return errorResponse(tool, apperr.KindUpstream5xx, err)
	}

	params := map[string]interface{}{
		"search_text": args.SearchText,
		"tags":        opts.Tags,
		"source":      args.Source,
		"limit":       limit,
		"offset":      args.Offset,
	}
	return dataResponse(tool, result, params, *hit, &model.Cursor{Offset: args.Offset, Limit: limit, Total: len(result)})
}

// GetFredSeriesObservationsArgs is the input for get_fred_series_observations.
type GetFredSeriesObservationsArgs struct {
	SeriesID         string `json:"series_id"`
	ObservationStart string `json:"observation_start,omitempty"`
	ObservationEnd   string `json:"observation_end,omitempty"`
	Frequency        string `json:"frequency,omitempty"`
	Units            string `json:"units,omitempty"`
	Aggregation      string `json:"aggregation_method,omitempty"`
	Limit            int    `json:"limit,omitempty"`
}

var validUnits = map[string]bool{
	"": true, "lin": true, "chg": true, "ch1": true, "pch": true,
	"pc1": true, "pca": true, "cch": true, "cca": true, "log": true,
}

var validFreq = map[string]bool{
	"": true, "d": true, "w": true, "bw": true, "m": true, "q": true, "sa": true, "a": true,
	"daily": true, "weekly": true, "monthly": true, "quarterly": true, "annual": true,
}

var validAgg = map[string]bool{
	"": true, "avg": true, "average": true, "sum": true, "eop": true, "end": true,
}

// GetFredSeriesObservations fetches observations with optional transformation
// and frequency aggregation (spec §4.5). Validates date format, start<=end,
// and the closed units/frequency/aggregation vocabularies.
func (t *Tools) GetFredSeriesObservations(ctx context.Context, args GetFredSeriesObservationsArgs) model.ToolResponse {
	const tool = "get_fred_series_observations"
	if args.SeriesID == "" {
		return validationResponse(tool, fieldErr("series_id", "required"))
	}
	if err := validateDate("observation_start", args.ObservationStart); err != nil {
		return validationResponse(tool, err)
	}
	if err := validateDate("observation_end", args.ObservationEnd); err != nil {
		return validationResponse(tool, err)
	}
	if err := validateDateRange("observation_start", args.ObservationStart, "observation_end", args.ObservationEnd); err != nil {
		return validationResponse(tool, err)
	}
	if !validUnits[args.Units] {
		return validationResponse(tool, fieldErr("units", "must be one of lin,chg,ch1,pch,pc1,pca,cch,cca,log (got %q)", args.Units))
	}
	if !validFreq[args.Frequency] {
		return validationResponse(tool, fieldErr("frequency", "must be one of d,w,bw,m,q,sa,a (got %q)", args.Frequency))
	}
	if !validAgg[args.Aggregation] {
		return validationResponse(tool, fieldErr("aggregation_method", "must be one of avg,sum,eop (got %q)", args.Aggregation))
	}

	opts := fred.ObsOptions{
		Start: args.ObservationStart,
		End:   args.ObservationEnd,
		Freq:  args.Frequency,
		Units: args.Units,
		Agg:   args.Aggregation,
		Limit: args.Limit,
	}

	hitCtx, hit := withCacheHit(ctx)
	data, err := t.deps.Client.GetObservations(hitCtx, args.SeriesID, opts)
	if err != nil {
		return errorResponse(tool, apperr.KindUpstream5xx, err)
	}

	params := map[string]interface{}{
		"series_id":          args.SeriesID,
		"observation_start":  args.ObservationStart,
		"observation_end":    args.ObservationEnd,
		"frequency":          args.Frequency,
		"units":              args.Units,
		"aggregation_method": args.Aggregation,
	}
	return dataResponse(tool, data, params, *hit, nil)
}
