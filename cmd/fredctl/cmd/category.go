package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fredmcp/internal/render"
	"fredmcp/internal/tools"
)

var (
	categoryFilter string
	categoryLimit  int
	categoryOffset int
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Browse FRED's category hierarchy",
}

var categoryGetCmd = &cobra.Command{
	Use:  "get <CATEGORY_ID>",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("category_id must be an integer: %w", err)
		}
		t, err := buildTools()
		if err != nil {
			return err
		}
		resp := t.GetFredCategory(cmd.Context(), tools.GetFredCategoryArgs{CategoryID: id})
		if resp.Error != "" {
			return fmt.Errorf("%s: %s", resp.Metadata.ErrorKind, resp.Error)
		}
		return render.RenderTo(globalFlags.Out, &resp, resolveFormat())
	},
}

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryGetCmd, categoryChildrenCmd, categorySeriesCmd)
	categorySeriesCmd.Flags().StringVar(&categoryFilter, "filter", "", "variable=value filter")
	categorySeriesCmd.Flags().IntVar(&categoryLimit, "limit", 0, "max results, clamped to [1, 1000]")
	categorySeriesCmd.Flags().IntVar(&categoryOffset, "offset", 0, "pagination offset")
}

var categoryChildrenCmd = &cobra.Command{
	Use:  "children <CATEGORY_ID>",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("category_id must be an integer: %w", err)
		}
		t, err := buildTools()
		if err != nil {
			return err
		}
		resp := t.GetFredCategoryChildren(cmd.Context(), tools.GetFredCategoryChildrenArgs{CategoryID: id})
		if resp.Error != "" {
			return fmt.Errorf("%s: %s", resp.Metadata.ErrorKind, resp.Error)
		}
		return render.RenderTo(globalFlags.Out, &resp, resolveFormat())
	},
}

var categorySeriesCmd = &cobra.Command{
	Use:  "series <CATEGORY_ID>",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("category_id must be an integer: %w", err)
		}
		t, err := buildTools()
		if err != nil {
			return err
		}
		resp := t.GetFredCategorySeries(cmd.Context(), tools.GetFredCategorySeriesArgs{
			CategoryID: id,
			Filter:     categoryFilter,
			Limit:      categoryLimit,
			Offset:     categoryOffset,
		})
		if resp.Error != "" {
			return fmt.Errorf("%s: %s", resp.Metadata.ErrorKind, resp.Error)
		}
		return render.RenderTo(globalFlags.Out, &resp, resolveFormat())
	},
}
