package iocache

import (
	"sync"

	"github.com/huangsam/testhealth/internal/contract"
)

// CacheStoreManager manages the metadata cache and the history store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	metadata     contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetMetadataStore returns the git metadata CacheStore, or nil when caching is not configured.
func (mgr *CacheStoreManager) GetMetadataStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.metadata
}

// GetHistoryStore returns the HistoryStore, or nil when history is not configured.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
