package cmd

import (
	"time"

	"github.com/fleetwatch/slireport/core"
	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/fleetwatch/slireport/internal/outwriter"
	"github.com/spf13/cobra"
)

// reportCmd evaluates every configured rule against the resolved fleet.
var reportCmd = &cobra.Command{
	Use:     "report",
	Short:   "Evaluate all SLI rules across the fleet and render the compliance matrix",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		start := time.Now()

		matrix, err := core.GetReportMatrix(rootCtx, cfg, cacheManager)
		if err != nil {
			contract.LogFatal("Cannot build report", err)
		}

		writer := outwriter.NewOutWriter()
		if err := writer.WriteReport(matrix, cfg, time.Since(start)); err != nil {
			contract.LogFatal("Cannot write report", err)
		}
	},
}
