// Command fredmcp runs the FRED MCP server over stdio. It is a thin
// bootstrap: resolve configuration, wire dependencies, register tools,
// serve — no business logic lives here (spec §1 Non-goals: process
// bootstrap/CLI minutiae are out of scope as a design concern).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fredmcp/internal/app"
	"fredmcp/internal/config"
	"fredmcp/internal/mcpserver"
	"fredmcp/internal/tools"
	"fredmcp/internal/workflow"
)

const (
	serverName    = "fredmcp"
	serverVersion = "1.0.0"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fredmcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	deps, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("building dependencies: %w", err)
	}
	defer deps.Logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.ValidateTablesOnBoot {
		workflow.ValidateTables(ctx, deps.Client, deps.Logger)
	}

	t := tools.New(deps)
	server := mcpserver.New(serverName, serverVersion, t)
	return server.Run(ctx)
}
