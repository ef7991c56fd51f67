package cmd

import (
	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(clustersCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Config file flag
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default .slireport.yaml in . or $HOME)")

	// Report scope flags
	rootCmd.PersistentFlags().StringSlice("selector", nil, "Cluster selector expression, replaces cluster_selectors from config (repeatable)")
	rootCmd.PersistentFlags().StringSlice("var", nil, "Override a global variable as name=value (repeatable)")

	// Execution flags
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent query workers")
	rootCmd.PersistentFlags().String("query-timeout", contract.DefaultQueryTimeout.String(), "Timeout for a single metrics query attempt")
	rootCmd.PersistentFlags().Int("retries", contract.DefaultRetries, "Number of retries for a failed metrics query")

	// Output flags
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text, csv, json, html, parquet)")
	rootCmd.PersistentFlags().String("output-file", "", "Write output to file instead of stdout")
	rootCmd.PersistentFlags().String("title", "", "Title line printed above the report")
	rootCmd.PersistentFlags().String("footer", "", "Footer line printed below the report")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal places for percentage values")
	rootCmd.PersistentFlags().String("color", "yes", "Colorize pass/fail cells in text output (yes/no)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override for name truncation (0 = auto)")

	// Cache flags
	rootCmd.PersistentFlags().String("cache-backend", "sqlite", "Query cache backend (sqlite, mysql, postgresql, none)")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql cache backends")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Cannot bind CLI flags", err)
	}
}
