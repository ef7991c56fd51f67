package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fleetwatch/slireport/core"
	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

func (h *toolHandler) handleRunReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("selector", ""); s != "" {
		cfg.Selectors = []string{s}
	}
	if w := request.GetInt("workers", 0); w > 0 && w <= contract.MaxWorkers {
		cfg.Workers = w
	}

	matrix, err := core.GetReportMatrix(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(matrix.Flatten(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListClusters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if s := request.GetString("selector", ""); s != "" {
		cfg.Selectors = []string{s}
	}

	clients, err := core.BuildClients(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("credential validation failed: %v", err)), nil
	}

	clusters := core.ResolveClusters(ctx, cfg, clients.Inventory)
	jsonData, _ := json.MarshalIndent(clusters, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListRules(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(h.baseCfg.Rules, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
