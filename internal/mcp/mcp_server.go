// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the report MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"SLI Report Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: run_sli_report ---
	s.AddTool(mcp.NewTool("run_sli_report",
		mcp.WithDescription("Evaluate every configured SLI rule against the resolved cluster fleet and return the pass/fail matrix."),
		mcp.WithString("selector", mcp.Description("Inventory selector expression overriding the configured cluster selectors.")),
		mcp.WithNumber("workers", mcp.Description("Number of concurrent query workers.")),
	), h.handleRunReport)

	// --- 2. Tool: list_clusters ---
	s.AddTool(mcp.NewTool("list_clusters",
		mcp.WithDescription("Resolve the configured cluster selectors against the fleet inventory and return the matching clusters."),
		mcp.WithString("selector", mcp.Description("Inventory selector expression overriding the configured cluster selectors.")),
	), h.handleListClusters)

	// --- 3. Tool: list_rules ---
	s.AddTool(mcp.NewTool("list_rules",
		mcp.WithDescription("List the configured SLI rules with their goals and query templates."),
	), h.handleListRules)

	return s
}

// StartMCPServer starts the report MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
