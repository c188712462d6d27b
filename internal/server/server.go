// Package server is the composition root: it creates the MCP server
// instance and registers the Jira tool catalog on it. No business logic
// lives here, only wiring.
package server

import (
	"github.com/mark3labs/mcp-go/server"

	"jira-mcp-server/internal/jira"
	"jira-mcp-server/internal/tools"
)

// New creates the MCP server with the four Jira tools registered. The
// catalog is fixed: adding an operation means adding exactly one tool
// constructor in the tools package and one registration here.
func New(client *jira.Client, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"jira-mcp-server",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s.AddTool(tools.SearchIssues(client))
	s.AddTool(tools.GetIssue(client))
	s.AddTool(tools.CreateIssue(client))
	s.AddTool(tools.AddComment(client))

	return s
}
