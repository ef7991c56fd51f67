// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/fleetwatch/slireport/schema"
)

// InventoryClient defines the fleet-inventory operations needed to resolve
// cluster selectors. This allows the core logic to be tested without a real
// inventory endpoint.
type InventoryClient interface {
	// SearchClusters returns the clusters matching a selector expression.
	// The selector is passed verbatim to the inventory API.
	SearchClusters(ctx context.Context, selector string) ([]schema.Cluster, error)
}

// MetricsClient defines the read-only metrics backend operations needed to
// evaluate rule queries.
type MetricsClient interface {
	// Query evaluates an instant query at the given timestamp. It returns
	// the observed scalar, or absent=true when the backend returned no
	// time series for the query.
	Query(ctx context.Context, query string, ts time.Time) (value float64, absent bool, err error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetQueryStore() CacheStore
}

// CacheStore defines the interface for cache data storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}
