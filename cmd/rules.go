package cmd

import (
	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/fleetwatch/slireport/internal/outwriter"
	"github.com/spf13/cobra"
)

// rulesCmd lists the configured rules after validation. No backend calls.
var rulesCmd = &cobra.Command{
	Use:     "rules",
	Short:   "List the configured SLI rules with their goals and query templates",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		writer := outwriter.NewOutWriter()
		if err := writer.WriteRules(cfg.Rules, cfg); err != nil {
			contract.LogFatal("Cannot write rules", err)
		}
	},
}
