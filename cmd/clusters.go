package cmd

import (
	"github.com/fleetwatch/slireport/core"
	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/fleetwatch/slireport/internal/outwriter"
	"github.com/spf13/cobra"
)

// clustersCmd resolves the configured selectors without running any queries.
// Useful for verifying selector scope before a full report run.
var clustersCmd = &cobra.Command{
	Use:     "clusters",
	Short:   "Resolve the configured cluster selectors and list the matching clusters",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		clients, err := core.BuildClients(cfg)
		if err != nil {
			contract.LogFatal("Cannot validate credentials", err)
		}

		clusters := core.ResolveClusters(rootCtx, cfg, clients.Inventory)

		writer := outwriter.NewOutWriter()
		if err := writer.WriteClusters(clusters, cfg); err != nil {
			contract.LogFatal("Cannot write clusters", err)
		}
	},
}
