package tools

import (
	"context"
	"strings"

	"fredmcp/internal/apperr"
	"fredmcp/internal/fred"
	"fredmcp/internal/model"
)

// GetFredSeriesTagsArgs is the input for get_fred_series_tags.
type GetFredSeriesTagsArgs struct {
	SeriesID string `json:"series_id"`
}

// GetFredSeriesTags returns the tags attached to a single series.
func (t *Tools) GetFredSeriesTags(ctx context.Context, args GetFredSeriesTagsArgs) model.ToolResponse {
	const tool = "get_fred_series_tags"
	if args.SeriesID == "" {
		return validationResponse(tool, fieldErr("series_id", "required"))
	}
	hitCtx, hit := withCacheHit(ctx)
	result, err := t.deps.Client.GetSeriesTags(hitCtx, args.SeriesID)
	if err != nil {
		return errorResponse(tool, apperr.KindUpstream5xx, err)
	}
	return dataResponse(tool, result, map[string]interface{}{"series_id": args.SeriesID}, *hit, nil)
}

// SearchFredSeriesTagsArgs is the input for search_fred_series_tags.
type SearchFredSeriesTagsArgs struct {
	SearchText string `json:"search_text"`
	TagNames   string `json:"tag_names,omitempty"` // semicolon-delimited
	Limit      int    `json:"limit,omitempty"`
}

// SearchFredSeriesTags returns the tags attached to series matching a
// search text — narrows which tags would filter a given search.
func (t *Tools) SearchFredSeriesTags(ctx context.Context, args SearchFredSeriesTagsArgs) model.ToolResponse {
	const tool = "search_fred_series_tags"
	if args.SearchText == "" {
		return validationResponse(tool, fieldErr("search_text", "required"))
	}
	limit := clampLimit(args.Limit)
	hitCtx, hit := withCacheHit(ctx)
	result, err := t.deps.Client.SearchSeriesTags(hitCtx, args.SearchText, splitSemicolon(args.TagNames), limit)
	if err != nil {
		return errorResponse(tool, apperr.KindUpstream5xx, err)
	}
	params := map[string]interface{}{"search_text": args.SearchText, "tag_names": args.TagNames, "limit": limit}
	return dataResponse(tool, result, params, *hit, nil)
}

// SearchFredSeriesRelatedTagsArgs is the input for search_fred_series_related_tags.
type SearchFredSeriesRelatedTagsArgs struct {
	SearchText string `json:"search_text"`
	TagNames   string `json:"tag_names"` // semicolon-delimited, required
	Limit      int    `json:"limit,omitempty"`
}

// SearchFredSeriesRelatedTags returns tags related to the tags narrowing a
// series search.
func (t *Tools) SearchFredSeriesRelatedTags(ctx context.Context, args SearchFredSeriesRelatedTagsArgs) model.ToolResponse {
	const tool = "search_fred_series_related_tags"
	if args.SearchText == "" {
		return validationResponse(tool, fieldErr("search_text", "required"))
	}
	tagNames := splitSemicolon(args.TagNames)
	if len(tagNames) == 0 {
		return validationResponse(tool, fieldErr("tag_names", "at least one tag name required"))
	}
	limit := clampLimit(args.Limit)
	hitCtx, hit := withCacheHit(ctx)
	result, err := t.deps.Client.SearchSeriesRelatedTags(hitCtx, args.SearchText, tagNames, limit)
	if err != nil {
		return errorResponse(tool, apperr.KindUpstream5xx, err)
	}
	params := map[string]interface{}{"search_text": args.SearchText, "tag_names": args.TagNames, "limit": limit}
	return dataResponse(tool, result, params, *hit, nil)
}

// GetFredRelatedTagsArgs is the input for get_fred_related_tags.
type GetFredRelatedTagsArgs struct {
	TagNames string `json:"tag_names"` // semicolon-delimited, required
	Limit    int    `json:"limit,omitempty"`
}

// GetFredRelatedTags returns tags that co-occur with the given tag(s).
func (t *Tools) GetFredRelatedTags(ctx context.Context, args GetFredRelatedTagsArgs) model.ToolResponse {
	const tool = "get_fred_related_tags"
	tagNames := splitSemicolon(args.TagNames)
	if len(tagNames) == 0 {
		return validationResponse(tool, fieldErr("tag_names", "at least one tag name required"))
	}
	limit := clampLimit(args.Limit)
	hitCtx, hit := withCacheHit(ctx)
	// The underlying endpoint takes a single tag_names value (semicolon
	// joined server-side); GetRelatedTags accepts one pre-joined string.
	result, err := t.deps.Client.GetRelatedTags(hitCtx, joinSemicolon(tagNames), limit)
	if err != nil {
		return errorResponse(tool, apperr.KindUpstream5xx, err)
	}
	params := map[string]interface{}{"tag_names": args.TagNames, "limit": limit}
	return dataResponse(tool, result, params, *hit, nil)
}

// GetFredTagsArgs is the input for get_fred_tags.
type GetFredTagsArgs struct {
	TagNames   string `json:"tag_names,omitempty"` // semicolon-delimited
	SearchText string `json:"search_text,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// GetFredTags lists FRED tags, optionally filtered by co-occurring tag
// names or a free-text search.
func (t *Tools) GetFredTags(ctx context.Context, args GetFredTagsArgs) model.ToolResponse {
	const tool = "get_fred_tags"
	limit := clampLimit(args.Limit)
	hitCtx, hit := withCacheHit(ctx)
	result, err := t.deps.Client.GetTags(hitCtx, splitSemicolon(args.TagNames), args.SearchText, limit)
	if err != nil {
		return errorResponse(tool, apperr.KindUpstream5xx, err)
	}
	params := map[string]interface{}{"tag_names": args.TagNames, "search_text": args.SearchText, "limit": limit}
	return dataResponse(tool, result, params, *hit, nil)
}

// GetFredSeriesByTagsArgs is the input for get_fred_series_by_tags.
type GetFredSeriesByTagsArgs struct {
	TagNames        string `json:"tag_names"` // semicolon-delimited, required
	ExcludeTagNames string `json:"exclude_tag_names,omitempty"`
	MatchAll        bool   `json:"match_all,omitempty"`
	Limit           int    `json:"limit,omitempty"`
}

// GetFredSeriesByTags returns series matching one or more tags.
// exclude_tag_names is validated for shape but applied as a post-filter
// since FRED's tags/series endpoint has no native exclusion parameter.
func (t *Tools) GetFredSeriesByTags(ctx context.Context, args GetFredSeriesByTagsArgs) model.ToolResponse {
	const tool = "get_fred_series_by_tags"
	tagNames := splitSemicolon(args.TagNames)
	if len(tagNames) == 0 {
		return validationResponse(tool, fieldErr("tag_names", "at least one tag name required"))
	}
	limit := clampLimit(args.Limit)

	hitCtx, hit := withCacheHit(ctx)
	result, err := t.deps.Client.GetTagSeries(hitCtx, tagNames, fred.GetTagSeriesOptions{
		MatchAll: args.MatchAll,
		Limit:    limit,
	})
	if err != nil {
		return errorResponse(tool, apperr.KindUpstream5xx, err)
	}

	exclude := splitSemicolon(args.ExcludeTagNames)
	if len(exclude) > 0 {
		result = filterBySeriesTagExclusion(result, exclude)
	}

	params := map[string]interface{}{
		"tag_names":         args.TagNames,
		"exclude_tag_names": args.ExcludeTagNames,
		"match_all":         args.MatchAll,
		"limit":             limit,
	}
	return dataResponse(tool, result, params, *hit, &model.Cursor{Limit: limit, Total: len(result)})
}

func joinSemicolon(tags []string) string {
	return strings.Join(tags, ";")
}

// filterBySeriesTagExclusion is a best-effort post-filter: the FRED
// tags/series response carries no per-series tag list, so exclusion can
// only operate on title/notes text rather than a true tag membership
// check. Series whose title or notes mention an excluded tag are dropped.
func filterBySeriesTagExclusion(series []model.SeriesMeta, exclude []string) []model.SeriesMeta {
	out := make([]model.SeriesMeta, 0, len(series))
	for _, s := range series {
		drop := false
		for _, tag := range exclude {
			if tag == "" {
				continue
			}
			if strings.Contains(strings.ToLower(s.Title), strings.ToLower(tag)) ||
				strings.Contains(strings.ToLower(s.Notes), strings.ToLower(tag)) {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, s)
		}
	}
	return out
}
