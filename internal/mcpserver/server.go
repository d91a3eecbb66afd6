// Package mcpserver adapts internal/tools' ToolResponse-returning methods
// to the MCP protocol: tool registration, schema advertisement, and the
// stdio transport loop. No business logic lives here (spec §1 Non-goals —
// MCP transport/JSON-RPC internals are explicitly out of scope as a
// concern to design; this package is the minimal glue an MCP SDK leaves
// for the host application to write).
package mcpserver

import (
	"context"
	"fmt"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"fredmcp/internal/model"
	"fredmcp/internal/tools"
)

// Server wraps the MCP server bound to a single tools.Tools instance.
type Server struct {
	mcp   *mcp.Server
	tools *tools.Tools
}

// New builds a Server advertising name/version and registers every tool.
func New(name, version string, t *tools.Tools) *Server {
	impl := &mcp.Implementation{Name: name, Version: version}
	s := &Server{mcp: mcp.NewServer(impl, nil), tools: t}
	s.registerTools()
	return s
}

// Run serves the MCP protocol over stdio until ctx is cancelled or the
// client closes the connection.
func (s *Server) Run(ctx context.Context) error {
	fmt.Fprintln(os.Stderr, "fredmcp: serving MCP over stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// registerTools wires every spec §4.5/§4.6/§4.7/§6 tool to its handler.
// Handlers never return a Go error: internal/tools already folds every
// failure into the ToolResponse.Error/ErrorKind fields (spec §7), so the
// transport layer always reports a successful call carrying a structured
// body, matching how an MCP client distinguishes "tool ran, data says no"
// from "tool invocation itself failed".
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_fred_series",
		Description: "Full-text search across FRED's series catalog, with an optional tag filter. Series-id search is not offered, and the source argument does not filter results.",
	}, wrap(s.tools.SearchFredSeries))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_fred_series_observations",
		Description: "Fetch observations for a single FRED series, with optional date range, frequency aggregation, and unit transformation.",
	}, wrap(s.tools.GetFredSeriesObservations))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_fred_series_tags",
		Description: "List the tags attached to a single FRED series.",
	}, wrap(s.tools.GetFredSeriesTags))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_fred_series_tags",
		Description: "Search FRED tags by name, scoped to tags that co-occur with a given series search.",
	}, wrap(s.tools.SearchFredSeriesTags))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_fred_series_related_tags",
		Description: "Find tags related to an existing set of tags within a series search.",
	}, wrap(s.tools.SearchFredSeriesRelatedTags))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_fred_related_tags",
		Description: "Find tags related to a given set of tags, independent of any series search.",
	}, wrap(s.tools.GetFredRelatedTags))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_fred_tags",
		Description: "List FRED tags, optionally filtered by co-occurring tag names or a free-text search.",
	}, wrap(s.tools.GetFredTags))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_fred_series_by_tags",
		Description: "List series matching a set of tags.",
	}, wrap(s.tools.GetFredSeriesByTags))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_fred_category",
		Description: "Get metadata for a single FRED category.",
	}, wrap(s.tools.GetFredCategory))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_fred_category_children",
		Description: "List the child categories of a FRED category.",
	}, wrap(s.tools.GetFredCategoryChildren))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_fred_category_series",
		Description: "List series belonging to a FRED category.",
	}, wrap(s.tools.GetFredCategorySeries))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "compare_inflation_across_regions",
		Description: "Compare inflation (CPI/HICP year-over-year) across a set of regions or named presets (g7, eurozone_core, nordic, ...), harmonizing index types and flagging comparability caveats.",
	}, wrap(s.tools.CompareInflationAcrossRegions))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "analyze_gdp_cross_country",
		Description: "Analyze and compare GDP (nominal, real, per-capita, PPP, growth rate) across a set of countries or named presets (g7, g20, brics, ...), with convergence analysis and rankings.",
	}, wrap(s.tools.AnalyzeGDPCrossCountry))

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "system_health",
		Description: "Report cache, rate limiter, and telemetry state for operational visibility into this server.",
	}, wrap(s.tools.SystemHealth))
}

// wrap adapts a (ctx, Args) model.ToolResponse tools.Tools method to the
// (ctx, *mcp.CallToolRequest, Args) (*mcp.CallToolResult, Out, error)
// shape mcp.AddTool requires.
func wrap[A any](fn func(context.Context, A) model.ToolResponse) func(context.Context, *mcp.CallToolRequest, A) (*mcp.CallToolResult, model.ToolResponse, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args A) (*mcp.CallToolResult, model.ToolResponse, error) {
		return nil, fn(ctx, args), nil
	}
}
