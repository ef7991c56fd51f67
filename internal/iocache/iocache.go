// Package iocache caches metric backend samples across report runs.
package iocache

import (
	"sync"

	"github.com/fleetwatch/slireport/internal/contract"
)

// CacheStoreManager manages the CacheStore instance for query results.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	query        contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetQueryStore returns the query result CacheStore.
func (mgr *CacheStoreManager) GetQueryStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.query
}
