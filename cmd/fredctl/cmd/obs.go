package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fredmcp/internal/render"
	"fredmcp/internal/tools"
)

var (
	obsStart string
	obsEnd   string
	obsFreq  string
	obsUnits string
	obsAgg   string
	obsLimit int
)

var obsCmd = &cobra.Command{
	Use:   "obs",
	Short: "Retrieve time series observations",
}

var obsGetCmd = &cobra.Command{
	Use:   "get <SERIES_ID>",
	Short: "Fetch observations for a single series",
	Example: `  fredctl obs get GDP
  fredctl obs get CPIAUCSL --start 2020-01-01 --end 2024-12-31
  fredctl obs get UNRATE --freq monthly --units pc1 --format csv --out data.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := buildTools()
		if err != nil {
			return err
		}
		resp := t.GetFredSeriesObservations(cmd.Context(), tools.GetFredSeriesObservationsArgs{
			SeriesID:         args[0],
			ObservationStart: obsStart,
			ObservationEnd:   obsEnd,
			Frequency:        obsFreq,
			Units:            obsUnits,
			Aggregation:      obsAgg,
			Limit:            obsLimit,
		})
		if resp.Error != "" {
			return fmt.Errorf("%s: %s", resp.Metadata.ErrorKind, resp.Error)
		}
		return render.RenderTo(globalFlags.Out, &resp, resolveFormat())
	},
}

func init() {
	rootCmd.AddCommand(obsCmd)
	obsCmd.AddCommand(obsGetCmd)

	obsGetCmd.Flags().StringVar(&obsStart, "start", "", "start date YYYY-MM-DD")
	obsGetCmd.Flags().StringVar(&obsEnd, "end", "", "end date YYYY-MM-DD")
	obsGetCmd.Flags().StringVar(&obsFreq, "freq", "", "frequency: daily|weekly|monthly|quarterly|annual")
	obsGetCmd.Flags().StringVar(&obsUnits, "units", "", "units: lin|chg|ch1|pch|pc1|pca|cch|cca|log")
	obsGetCmd.Flags().StringVar(&obsAgg, "agg", "", "aggregation: avg|sum|eop")
	obsGetCmd.Flags().IntVar(&obsLimit, "limit", 0, "max observations (0 = let FRED apply its default)")
}
