package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"fredmcp/internal/render"
	"fredmcp/internal/tools"
)

var (
	tagSearchText string
	tagNames      string
	tagLimit      int
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Browse and search FRED tags",
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List FRED tags, optionally filtered by name or co-occurring tags",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := buildTools()
		if err != nil {
			return err
		}
		resp := t.GetFredTags(cmd.Context(), tools.GetFredTagsArgs{
			TagNames:   tagNames,
			SearchText: tagSearchText,
			Limit:      tagLimit,
		})
		if resp.Error != "" {
			return fmt.Errorf("%s: %s", resp.Metadata.ErrorKind, resp.Error)
		}
		return render.RenderTo(globalFlags.Out, &resp, resolveFormat())
	},
}

var tagSeriesCmd = &cobra.Command{
	Use:   "series <TAG_NAMES>",
	Short: "List series matching one or more semicolon-delimited tags",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := buildTools()
		if err != nil {
			return err
		}
		resp := t.GetFredSeriesByTags(cmd.Context(), tools.GetFredSeriesByTagsArgs{
			TagNames: args[0],
			Limit:    tagLimit,
		})
		if resp.Error != "" {
			return fmt.Errorf("%s: %s", resp.Metadata.ErrorKind, resp.Error)
		}
		return render.RenderTo(globalFlags.Out, &resp, resolveFormat())
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
	tagCmd.AddCommand(tagListCmd, tagSeriesCmd)
	tagListCmd.Flags().StringVar(&tagSearchText, "search", "", "free-text tag search")
	tagListCmd.Flags().StringVar(&tagNames, "names", "", "semicolon-delimited co-occurring tag names")
	tagListCmd.Flags().IntVar(&tagLimit, "limit", 0, "max results, clamped to [1, 1000]")
	tagSeriesCmd.Flags().IntVar(&tagLimit, "limit", 0, "max results, clamped to [1, 1000]")
}
