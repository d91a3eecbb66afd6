// Package render converts a model.ToolResponse into human-readable or
// machine-parseable output for cmd/fredctl. Each format is a separate
// function; the top-level Render dispatcher selects based on the format
// string, switching on the concrete type found in ToolResponse.Data since
// tool responses carry one of a dozen result shapes (series data, tag
// lists, workflow comparisons, ...) behind a single envelope.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"fredmcp/internal/model"
)

// Format constants matching --format flag values.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatCSV   = "csv"
	FormatTSV   = "tsv"
	FormatMD    = "md"
)

// Render writes resp to w in the specified format.
func Render(w io.Writer, resp *model.ToolResponse, format string) error {
	if resp.Error != "" {
		return renderJSON(w, resp)
	}
	switch format {
	case FormatJSON:
		return renderJSON(w, resp)
	case FormatJSONL:
		return renderJSONL(w, resp)
	case FormatCSV:
		return renderDelimited(w, resp, ',')
	case FormatTSV:
		return renderDelimited(w, resp, '\t')
	case FormatMD:
		return renderMarkdown(w, resp)
	default:
		return renderTable(w, resp)
	}
}

// RenderTo writes to stdout by default; if path is non-empty, writes to file.
func RenderTo(path string, resp *model.ToolResponse, format string) error {
	if path == "" {
		return Render(os.Stdout, resp, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()
	return Render(f, resp, format)
}

// ─── JSON ─────────────────────────────────────────────────────────────────────

func renderJSON(w io.Writer, resp *model.ToolResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// ─── JSONL ────────────────────────────────────────────────────────────────────

// jsonlRow is a canonical JSONL record for time series observations.
type jsonlRow struct {
	SeriesID string      `json:"series_id"`
	Date     string      `json:"date"`
	Value    interface{} `json:"value"` // float64 or null
	ValueRaw string      `json:"value_raw"`
}

func renderJSONL(w io.Writer, resp *model.ToolResponse) error {
	enc := json.NewEncoder(w)
	if sd, ok := resp.Data.(*model.SeriesData); ok {
		for _, obs := range sd.Obs {
			row := jsonlRow{SeriesID: sd.SeriesID, Date: obs.Date.Format("2006-01-02"), ValueRaw: obs.ValueRaw}
			if math.IsNaN(obs.Value) {
				row.Value = nil
			} else {
				row.Value = obs.Value
			}
			if err := enc.Encode(row); err != nil {
				return err
			}
		}
		return nil
	}
	return enc.Encode(resp.Data)
}

// ─── Table ────────────────────────────────────────────────────────────────────

func renderTable(w io.Writer, resp *model.ToolResponse) error {
	switch data := resp.Data.(type) {
	case *model.SeriesData:
		return renderObsTable(w, data)
	case *model.SeriesMeta:
		return renderSeriesMetaTable(w, data)
	case []model.SeriesMeta:
		return renderSeriesMetaSliceTable(w, data)
	case *model.SearchResult:
		return renderSearchTable(w, data)
	default:
		// Workflow comparisons, tag lists, category lists, and system_health
		// all have bespoke nested shapes not worth a dedicated table layout;
		// fredctl users reaching for those pass --format json.
		return renderJSON(w, resp)
	}
}

func renderObsTable(w io.Writer, sd *model.SeriesData) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"SERIES", "DATE", "VALUE"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
	})
	tw.SetAutoWrapText(false)

	for _, obs := range sd.Obs {
		tw.Append([]string{sd.SeriesID, obs.Date.Format("2006-01-02"), formatValue(obs.Value)})
	}
	tw.Render()
	return nil
}

func renderSeriesMetaTable(w io.Writer, m *model.SeriesMeta) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"FIELD", "VALUE"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetColWidth(80)
	tw.SetAutoWrapText(true)

	rows := [][]string{
		{"ID", m.ID},
		{"Title", m.Title},
		{"Frequency", m.Frequency},
		{"Units", m.Units},
		{"Seasonal Adj.", m.SeasonalAdjustment},
		{"Observation Start", m.ObservationStart},
		{"Observation End", m.ObservationEnd},
		{"Last Updated", m.LastUpdated},
		{"Popularity", fmt.Sprintf("%d", m.Popularity)},
	}
	if m.Notes != "" {
		notes := m.Notes
		if len(notes) > 200 {
			notes = notes[:200] + "…"
		}
		rows = append(rows, []string{"Notes", notes})
	}
	for _, r := range rows {
		tw.Append(r)
	}
	tw.Render()
	return nil
}

func renderSeriesMetaSliceTable(w io.Writer, metas []model.SeriesMeta) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"ID", "TITLE", "FREQ", "UNITS", "LAST UPDATED"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)
	tw.SetColWidth(40)

	for _, m := range metas {
		title := m.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		units := m.UnitsShort
		if units == "" {
			units = m.Units
		}
		if len(units) > 20 {
			units = units[:17] + "..."
		}
		tw.Append([]string{m.ID, title, m.FrequencyShort, units, m.LastUpdated})
	}
	tw.Render()
	return nil
}

func renderSearchTable(w io.Writer, sr *model.SearchResult) error {
	fmt.Fprintf(w, "Search results for: %q\n\n", sr.Query)
	return renderSeriesMetaSliceTable(w, sr.Series)
}

// ─── CSV / TSV ────────────────────────────────────────────────────────────────

func renderDelimited(w io.Writer, resp *model.ToolResponse, sep rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = sep

	switch data := resp.Data.(type) {
	case *model.SeriesData:
		_ = cw.Write([]string{"series_id", "date", "value", "value_raw"})
		for _, obs := range data.Obs {
			_ = cw.Write([]string{data.SeriesID, obs.Date.Format("2006-01-02"), formatValue(obs.Value), obs.ValueRaw})
		}
	case []model.SeriesMeta:
		_ = cw.Write([]string{"id", "title", "frequency", "units", "seasonal_adjustment", "observation_start", "observation_end", "last_updated", "popularity"})
		for _, m := range data {
			_ = cw.Write([]string{
				m.ID, m.Title, m.Frequency, m.Units,
				m.SeasonalAdjustment, m.ObservationStart, m.ObservationEnd,
				m.LastUpdated, fmt.Sprintf("%d", m.Popularity),
			})
		}
	case *model.SeriesMeta:
		_ = cw.Write([]string{"field", "value"})
		_ = cw.Write([]string{"id", data.ID})
		_ = cw.Write([]string{"title", data.Title})
		_ = cw.Write([]string{"frequency", data.Frequency})
		_ = cw.Write([]string{"units", data.Units})
	default:
		b, _ := json.Marshal(resp.Data)
		_ = cw.Write([]string{string(b)})
	}

	cw.Flush()
	return cw.Error()
}

// ─── Markdown ─────────────────────────────────────────────────────────────────

func renderMarkdown(w io.Writer, resp *model.ToolResponse) error {
	switch data := resp.Data.(type) {
	case *model.SeriesData:
		fmt.Fprintf(w, "| SERIES | DATE | VALUE |\n|--------|------|-------|\n")
		for _, obs := range data.Obs {
			fmt.Fprintf(w, "| %s | %s | %s |\n", data.SeriesID, obs.Date.Format("2006-01-02"), formatValue(obs.Value))
		}
		return nil
	case []model.SeriesMeta:
		fmt.Fprintf(w, "| ID | TITLE | FREQ | UNITS | LAST UPDATED |\n|----|----|----|----|----|\n")
		for _, m := range data {
			title := m.Title
			if len(title) > 50 {
				title = title[:47] + "..."
			}
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n", m.ID, mdEscape(title), m.FrequencyShort, m.UnitsShort, m.LastUpdated)
		}
		return nil
	default:
		return renderJSON(w, resp)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// formatValue formats an observation value for display.
// Always shows at least one decimal place (e.g. 4.0, not 4).
// Trims unnecessary trailing zeros beyond the first (e.g. 3.400000 → 3.4).
// Missing values (NaN) render as ".".
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "."
	}
	s := strings.TrimRight(fmt.Sprintf("%.6f", v), "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
