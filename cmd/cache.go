package cmd

import (
	"fmt"
	"strings"

	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/fleetwatch/slireport/internal/iocache"
	"github.com/fleetwatch/slireport/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheCmd groups the query cache maintenance subcommands.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the metrics query cache",
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// cacheSetup performs minimal initialization for cache commands. It only
// needs the cache backend settings, so the full report config (credentials,
// endpoints, rules) is not required here.
func cacheSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("cache-backend")))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("cache-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

var cacheClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Clear all cached query samples",
	PreRunE: cacheSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearCache(cfg.CacheBackend, contract.GetCacheDBFilePath(), cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Cannot clear cache", err)
		}
		fmt.Printf("Cleared %s query cache\n", cfg.CacheBackend)
	},
}

var cacheStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show query cache backend status and entry counts",
	PreRunE: cacheSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Cannot connect to cache", err)
		}

		store := iocache.Manager.GetQueryStore()
		if store == nil {
			fmt.Println("Cache is disabled")
			return
		}

		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Cannot read cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}
