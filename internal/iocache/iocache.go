// Package iocache persists stretch-goal credit flags and caches snapshot documents.
package iocache

import (
	"sync"

	"github.com/wctc-net-database/gradedash/internal/contract"
)

// StoreManagerImpl manages the document cache and credit flag stores.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	documents    contract.CacheStore
	credits      contract.CreditStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetDocumentStore returns the document CacheStore, or nil when caching is off.
func (mgr *StoreManagerImpl) GetDocumentStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.documents
}

// GetCreditStore returns the CreditStore, or nil when it was never initialized.
func (mgr *StoreManagerImpl) GetCreditStore() contract.CreditStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.credits
}
