package tools

import (
	"context"

	"fredmcp/internal/apperr"
	"fredmcp/internal/fred"
	"fredmcp/internal/model"
)

// GetFredCategoryArgs is the input for get_fred_category.
type GetFredCategoryArgs struct {
	CategoryID int `json:"category_id"`
}

// GetFredCategory fetches metadata for a single category (id 0 is root).
func (t *Tools) GetFredCategory(ctx context.Context, args GetFredCategoryArgs) model.ToolResponse {
	const tool = "get_fred_category"
	if args.CategoryID < 0 {
		return validationResponse(tool, fieldErr("category_id", "must be >= 0 (got %d)", args.CategoryID))
	}
	hitCtx, hit := withCacheHit(ctx)
	result, err := t.deps.Client.GetCategory(hitCtx, args.CategoryID)
	if err != nil {
		return errorResponse(tool, apperr.KindUpstream5xx, err)
	}
	return dataResponse(tool, result, map[string]interface{}{"category_id": args.CategoryID}, *hit, nil)
}

// GetFredCategoryChildrenArgs is the input for get_fred_category_children.
type GetFredCategoryChildrenArgs struct {
	CategoryID int `json:"category_id"`
}

// GetFredCategoryChildren fetches the direct children of a category.
func (t *Tools) GetFredCategoryChildren(ctx context.Context, args GetFredCategoryChildrenArgs) model.ToolResponse {
	const tool = "get_fred_category_children"
	if args.CategoryID < 0 {
		return validationResponse(tool, fieldErr("category_id", "must be >= 0 (got %d)", args.CategoryID))
	}
	hitCtx, hit := withCacheHit(ctx)
	result, err := t.deps.Client.GetCategoryChildren(hitCtx, args.CategoryID)
	if err != nil {
		return errorResponse(tool, apperr.KindUpstream5xx, err)
	}
	return dataResponse(tool, result, map[string]interface{}{"category_id": args.CategoryID}, *hit, nil)
}

// GetFredCategorySeriesArgs is the input for get_fred_category_series.
type GetFredCategorySeriesArgs struct {
	CategoryID int    `json:"category_id"`
	Filter     string `json:"filter,omitempty"` // "variable=value"
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}

// GetFredCategorySeries fetches the series belonging to a category.
func (t *Tools) GetFredCategorySeries(ctx context.Context, args GetFredCategorySeriesArgs) model.ToolResponse {
	const tool = "get_fred_category_series"
	if args.CategoryID < 0 {
		return validationResponse(tool, fieldErr("category_id", "must be >= 0 (got %d)", args.CategoryID))
	}
	limit := clampLimit(args.Limit)

	hitCtx, hit := withCacheHit(ctx)
	result, err := t.deps.Client.GetCategorySeries(hitCtx, args.CategoryID, fred.CategorySeriesOptions{
		Limit:  limit,
		Offset: args.Offset,
		Filter: args.Filter,
	})
	if err != nil {
		return errorResponse(tool, apperr.KindUpstream5xx, err)
	}

	params := map[string]interface{}{
		"category_id": args.CategoryID,
		"filter":      args.Filter,
		"limit":       limit,
		"offset":      args.Offset,
	}
	return dataResponse(tool, result, params, *hit, &model.Cursor{Offset: args.Offset, Limit: limit, Total: len(result)})
}
