package core

import (
	"context"

	"github.com/fleetwatch/slireport/internal/contract"
	"github.com/fleetwatch/slireport/schema"
)

// ResolveClusters resolves every configured selector against the inventory
// API and merges the results into one working set, deduplicated by cluster
// ID. Row order follows resolution order, and on a duplicate ID the
// first-seen cluster wins.
//
// A failing selector degrades the cluster set with a warning but never
// aborts resolution of the remaining selectors. An empty result is not an
// error; it yields an empty report.
func ResolveClusters(ctx context.Context, cfg *contract.Config, inv contract.InventoryClient) []schema.Cluster {
	seen := make(map[string]struct{})
	var clusters []schema.Cluster

	for _, selector := range cfg.Selectors {
		found, err := inv.SearchClusters(ctx, selector)
		if err != nil {
			contract.LogWarn("Cluster resolution degraded", err)
			continue
		}
		for _, c := range found {
			if _, dup := seen[c.ID]; dup {
				continue
			}
			seen[c.ID] = struct{}{}
			clusters = append(clusters, c)
		}
	}
	return clusters
}
