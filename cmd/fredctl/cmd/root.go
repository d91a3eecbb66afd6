// Package cmd implements fredctl, a debug CLI that calls the same
// internal/tools orchestrators the MCP server exposes, for exercising
// them without an MCP client attached.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fredmcp/internal/app"
	"fredmcp/internal/config"
	"fredmcp/internal/render"
	"fredmcp/internal/tools"
)

var globalFlags struct {
	Format string
	Out    string
}

var rootCmd = &cobra.Command{
	Use:   "fredctl",
	Short: "fredctl — debug CLI for the FRED MCP server's tool orchestrators",
	Long: `fredctl calls the same internal/tools orchestrators the fredmcp MCP
server exposes over stdio, for manual exploration and debugging.

Data sourced from FRED®, Federal Reserve Bank of St. Louis;
https://fred.stlouisfed.org/`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildTools resolves config and constructs a tools.Tools instance.
func buildTools() (*tools.Tools, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	deps, err := app.New(cfg)
	if err != nil {
		return nil, err
	}
	return tools.New(deps), nil
}

func resolveFormat() string {
	if globalFlags.Format == "" {
		return render.FormatTable
	}
	return globalFlags.Format
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalFlags.Format, "format", "",
		"output format: table|json|jsonl|csv|tsv|md (default: table)")
	pf.StringVar(&globalFlags.Out, "out", "",
		"write output to file instead of stdout")
}
