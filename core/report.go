package core

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetwatch/slireport/internal/auth"
	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/fleetwatch/slireport/internal/inventory"
	"github.com/fleetwatch/slireport/internal/telemeter"
	"github.com/fleetwatch/slireport/schema"
)

// Clients bundles the backend clients for one report run.
type Clients struct {
	Inventory contract.InventoryClient
	Metrics   contract.MetricsClient
}

// BuildClients validates the configured credential and constructs the
// backend clients. Credential problems are fatal and surface here, before
// any network call that would be wasted work.
func BuildClients(cfg *contract.Config) (*Clients, error) {
	key, err := auth.ParsePublicKey(cfg.PublicKeyPEM)
	if err != nil {
		return nil, err
	}
	claims, err := auth.Validate(cfg.InventoryToken, key)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenSource(claims, cfg.InventoryToken, nil)
	metrics, err := telemeter.NewClient(cfg.MetricsURL, cfg.MetricsToken)
	if err != nil {
		return nil, err
	}

	return &Clients{
		Inventory: inventory.NewClient(cfg.InventoryURL, tokens, nil),
		Metrics:   metrics,
	}, nil
}

// RunReport executes one full report run against the given clients:
// resolve the cluster set, expand every (rule, cluster) query, evaluate
// them concurrently on one shared as-of instant, and assemble the matrix.
func RunReport(ctx context.Context, cfg *contract.Config, clients *Clients, mgr contract.CacheManager) (*schema.ReportMatrix, error) {
	clusters := ResolveClusters(ctx, cfg, clients.Inventory)

	jobs, err := BuildQueryPlan(cfg.Rules, clusters, cfg.GlobalVars)
	if err != nil {
		return nil, fmt.Errorf("cannot expand query templates: %w", err)
	}

	asOf := time.Now()
	results := ExecuteQueries(ctx, cfg, clients.Metrics, mgr, jobs, asOf)
	if err := ctx.Err(); err != nil {
		// Interrupted runs must not produce partial output.
		return nil, err
	}

	return BuildMatrix(clusters, cfg.Rules, results, asOf), nil
}

// GetReportMatrix is the one-call entrypoint shared by the CLI and the MCP
// server: build clients from config and run the report.
func GetReportMatrix(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.ReportMatrix, error) {
	clients, err := BuildClients(cfg)
	if err != nil {
		return nil, err
	}
	return RunReport(ctx, cfg, clients, mgr)
}
