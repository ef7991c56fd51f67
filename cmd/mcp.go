package cmd

import (
	"github.com/fleetwatch/slireport/internal/mcp"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// mcpCmd exposes report operations over the Model Context Protocol so AI
// assistants can run fleet compliance queries through a stdio transport.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start an MCP server exposing report, cluster, and rule tools",
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
