// Package tools implements the thin per-FRED-endpoint orchestrators (spec
// §4.5): one function per MCP tool, each validating its arguments, calling
// through internal/fred, and shaping the result into the invariant
// ToolResponse envelope. None of these functions talk MCP JSON-RPC
// directly — internal/mcpserver adapts them to the transport.
package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fredmcp/internal/app"
	"fredmcp/internal/apperr"
	"fredmcp/internal/fred"
	"fredmcp/internal/model"
	"fredmcp/internal/workflow"
)

// Tools holds the shared dependencies every orchestrator calls through.
type Tools struct {
	deps     *app.Deps
	workflow *workflow.Service
}

// New builds a Tools bound to deps. It owns the workflow.Service the two
// cross-country tools (compare_inflation_across_regions,
// analyze_gdp_cross_country) delegate to.
func New(deps *app.Deps) *Tools {
	return &Tools{deps: deps, workflow: workflow.New(deps)}
}

const maxLimit = 1000

// clampLimit applies the documented boundary rule for search/listing tools:
// limit <= 0 (including the zero value of an omitted field) clamps to 1,
// values above maxLimit clamp to maxLimit. Non-search tools that accept a
// row cap (get_fred_series_observations) do not call this — 0 there means
// "let FRED apply its own default" and is passed through unchanged.
func clampLimit(limit int) int {
	if limit <= 0 {
		return 1
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func splitSemicolon(s string) []string {
	return splitNonEmpty(s, ";")
}

func splitComma(s string) []string {
	return splitNonEmpty(s, ",")
}

func splitNonEmpty(s, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, sep) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateDate checks a tool's date argument is either empty or a valid
// YYYY-MM-DD string, returning a VALIDATION error naming the field.
func validateDate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return apperr.New(apperr.KindValidation, "%s: invalid date %q, expected YYYY-MM-DD", field, value)
	}
	return nil
}

// validateDateRange checks start <= end when both are present.
func validateDateRange(startField, start, endField, end string) error {
	if start == "" || end == "" {
		return nil
	}
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return apperr.New(apperr.KindValidation, "%s: invalid date %q, expected YYYY-MM-DD", startField, start)
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return apperr.New(apperr.KindValidation, "%s: invalid date %q, expected YYYY-MM-DD", endField, end)
	}
	if s.After(e) {
		return apperr.New(apperr.KindValidation, "%s (%s) must not be after %s (%s)", startField, start, endField, end)
	}
	return nil
}

// validationResponse builds the error envelope for a VALIDATION failure
// without ever reaching the FRED client (spec §4.5, §7).
func validationResponse(tool string, err error) model.ToolResponse {
	return errorResponse(tool, apperr.KindValidation, err)
}

// errorResponse builds the invariant error envelope for any typed error.
// The kind is read off err when it already carries one (e.g. from the FRED
// client chokepoint); the kind argument is the fallback for errors raised
// directly in this package.
func errorResponse(tool string, fallback apperr.Kind, err error) model.ToolResponse {
	kind := apperr.KindOf(err)
	if kind == apperr.KindTransport {
		kind = fallback
	}
	return model.ToolResponse{
		Tool:  tool,
		Error: err.Error(),
		Metadata: model.ResponseMeta{
			FetchDate: nowRFC3339(),
			ErrorKind: string(kind),
		},
	}
}

// dataResponse builds the invariant success envelope.
func dataResponse(tool string, data interface{}, params map[string]interface{}, cacheHit bool, cursor *model.Cursor) model.ToolResponse {
	return model.ToolResponse{
		Tool: tool,
		Data: data,
		Metadata: model.ResponseMeta{
			FetchDate: nowRFC3339(),
			CacheHit:  cacheHit,
			Params:    params,
			Cursor:    cursor,
		},
	}
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// withCacheHit wraps fred.CaptureCacheHit for orchestrators that make
// exactly one FRED client call and want to echo cache_hit in metadata.
func withCacheHit(ctx context.Context) (context.Context, *bool) {
	return fred.CaptureCacheHit(ctx)
}

func fieldErr(field string, format string, args ...interface{}) error {
	return apperr.New(apperr.KindValidation, "%s: %s", field, fmt.Sprintf(format, args...))
}
