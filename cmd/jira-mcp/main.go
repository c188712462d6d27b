package main

import (
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"jira-mcp-server/internal/config"
	"jira-mcp-server/internal/jira"
	"jira-mcp-server/internal/logging"
	"jira-mcp-server/internal/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configuration errors are fatal: without a valid connection profile
	// there is nothing to serve.
	cfg, err := config.Load()
	if err != nil {
		logging.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	if err := logging.Init(cfg.LogFile); err != nil {
		logging.Errorf("Failed to initialize logging: %v", err)
		os.Exit(1)
	}

	client := jira.NewClient(cfg)
	s := server.New(client, Version)

	logging.Infof("Starting Jira MCP server %s (base URL %s, auth %s)", Version, cfg.BaseURL, cfg.AuthType)

	// ServeStdio blocks until stdin closes or a termination signal arrives.
	if err := mcpserver.ServeStdio(s); err != nil {
		logging.Fatalf("Server error: %v", err)
	}

	logging.Infof("Server shutdown complete")
}
