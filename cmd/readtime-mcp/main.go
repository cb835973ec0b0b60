package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nick-skriabin/readtime/internal/config"
	"github.com/nick-skriabin/readtime/internal/mcptools"
	"github.com/nick-skriabin/readtime/internal/session"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("readtime-mcp: %v", err)
	}

	// stdout carries the MCP transport, so logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := session.NewStore(cfg.SessionTTL, cfg.Debounce, logger)
	store.Start(ctx)
	defer store.Stop()

	mcpServer := server.NewMCPServer(
		"readtime-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcptools.Register(mcpServer, store, cfg)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("readtime-mcp: %v", err)
	}
}
