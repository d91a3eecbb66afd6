package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fredmcp/internal/render"
	"fredmcp/internal/tools"
)

var (
	searchTags   string
	searchSource int
	searchLimit  int
	searchOffset int
)

var searchCmd = &cobra.Command{
	Use:   "search <QUERY>",
	Short: "Search FRED's series catalog",
	Example: `  fredctl search "unemployment rate"
  fredctl search GDP --tags "usa;nsa" --limit 20`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := buildTools()
		if err != nil {
			return err
		}
		resp := t.SearchFredSeries(cmd.Context(), tools.SearchFredSeriesArgs{
			SearchText: args[0],
			Tags:       searchTags,
			Source:     searchSource,
			Limit:      searchLimit,
			Offset:     searchOffset,
		})
		if resp.Error != "" {
			return fmt.Errorf("%s: %s", resp.Metadata.ErrorKind, resp.Error)
		}
		return render.RenderTo(globalFlags.Out, &resp, resolveFormat())
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchTags, "tags", "", "semicolon-delimited tag filter")
	searchCmd.Flags().IntVar(&searchSource, "source", 0, "source id (echoed in metadata; does not filter results)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "max results, clamped to [1, 1000]")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "pagination offset")
}
