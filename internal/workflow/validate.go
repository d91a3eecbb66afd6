package workflow

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fredmcp/internal/fred"
)

// validateConcurrency bounds the fanout ValidateTables uses to probe the
// static tables, independent of any single workflow's own fanout bound.
const validateConcurrency = 8

// ValidateTables probes every series id referenced by regionInflationTable
// and countryGDPTable against the live FRED API via GetSeries, logging a
// warning for any id that doesn't resolve or whose units look like it's
// already a growth rate rather than an index (units containing "percent"
// or "rate" would make a later pc1/pch transform nonsensical). This never
// blocks startup on a failure — it's a diagnostic pass, gated by
// cfg.ValidateTablesOnBoot, not a correctness gate.
func ValidateTables(ctx context.Context, client *fred.Client, logger *zap.Logger) {
	ids := make(map[string]bool)
	for _, row := range regionInflationTable {
		ids[row.SeriesID] = true
	}
	for _, country := range countryGDPTable {
		for _, id := range country.Series {
			ids[id] = true
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(validateConcurrency)

	for id := range ids {
		id := id
		g.Go(func() error {
			meta, err := client.GetSeries(gctx, id)
			if err != nil {
				logger.Warn("table validation: series lookup failed",
					zap.String("series_id", id), zap.Error(err))
				return nil
			}
			if looksLikeRate(meta.UnitsShort, meta.Units) {
				logger.Warn("table validation: series units look like a rate, not an index",
					zap.String("series_id", id), zap.String("units", meta.Units))
			}
			return nil
		})
	}
	_ = g.Wait() // errors are logged per-series above, never propagated
}

func looksLikeRate(unitsShort, units string) bool {
	lower := strings.ToLower(unitsShort + " " + units)
	return strings.Contains(lower, "percent") || strings.Contains(lower, "rate")
}
