package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fredmcp/internal/render"
	"fredmcp/internal/tools"
)

var (
	inflationRegions string
	inflationStart   string
	inflationEnd     string
	inflationMetric  string
)

var inflationCmd = &cobra.Command{
	Use:   "inflation <REGIONS>",
	Short: "Compare inflation across regions or named presets (comma-delimited)",
	Example: `  fredctl inflation g7
  fredctl inflation USA,GBR,JPN --metric all`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := buildTools()
		if err != nil {
			return err
		}
		resp := t.CompareInflationAcrossRegions(cmd.Context(), tools.CompareInflationAcrossRegionsArgs{
			Regions:   strings.Split(args[0], ","),
			StartDate: inflationStart,
			EndDate:   inflationEnd,
			Metric:    inflationMetric,
		})
		if resp.Error != "" {
			return fmt.Errorf("%s: %s", resp.Metadata.ErrorKind, resp.Error)
		}
		return render.RenderTo(globalFlags.Out, &resp, resolveFormat())
	},
}

var (
	gdpVariants     string
	gdpStart        string
	gdpEnd          string
	gdpComparison   string
	gdpOutputFormat string
	gdpRankings     bool
	gdpConvergence  bool
	gdpFrequency    string
)

var gdpCmd = &cobra.Command{
	Use:   "gdp <COUNTRIES>",
	Short: "Analyze GDP across countries or named presets (comma-delimited)",
	Example: `  fredctl gdp g20 --rankings --convergence
  fredctl gdp USA,CHN,IND --variants constant_2010,growth_rate`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := buildTools()
		if err != nil {
			return err
		}
		var variants []string
		if gdpVariants != "" {
			variants = strings.Split(gdpVariants, ",")
		}
		resp := t.AnalyzeGDPCrossCountry(cmd.Context(), tools.AnalyzeGDPCrossCountryArgs{
			Countries:          strings.Split(args[0], ","),
			GDPVariants:        variants,
			StartDate:          gdpStart,
			EndDate:            gdpEnd,
			ComparisonMode:     gdpComparison,
			IncludeRankings:    &gdpRankings,
			IncludeConvergence: &gdpConvergence,
			OutputFormat:       gdpOutputFormat,
			Frequency:          gdpFrequency,
		})
		if resp.Error != "" {
			return fmt.Errorf("%s: %s", resp.Metadata.ErrorKind, resp.Error)
		}
		return render.RenderTo(globalFlags.Out, &resp, resolveFormat())
	},
}

func init() {
	rootCmd.AddCommand(inflationCmd, gdpCmd)

	inflationCmd.Flags().StringVar(&inflationStart, "start", "", "start date YYYY-MM-DD")
	inflationCmd.Flags().StringVar(&inflationEnd, "end", "", "end date YYYY-MM-DD")
	inflationCmd.Flags().StringVar(&inflationMetric, "metric", "", "latest|trend|all")

	gdpCmd.Flags().StringVar(&gdpVariants, "variants", "", "comma-delimited GDP variants")
	gdpCmd.Flags().StringVar(&gdpStart, "start", "", "start date YYYY-MM-DD")
	gdpCmd.Flags().StringVar(&gdpEnd, "end", "", "end date YYYY-MM-DD")
	gdpCmd.Flags().StringVar(&gdpComparison, "comparison-mode", "", "absolute|indexed|per_capita|growth_rates|ppp|relative_to_benchmark")
	gdpCmd.Flags().StringVar(&gdpOutputFormat, "output", "", "analysis|dataset|summary|both")
	gdpCmd.Flags().BoolVar(&gdpRankings, "rankings", true, "include country rankings (pass --rankings=false to omit)")
	gdpCmd.Flags().BoolVar(&gdpConvergence, "convergence", true, "include sigma/beta convergence analysis (pass --convergence=false to omit)")
	gdpCmd.Flags().StringVar(&gdpFrequency, "frequency", "", "d|w|m|q|a (default annual)")
}
