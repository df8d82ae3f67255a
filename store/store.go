// Package store provides database access to all persisted objects:
// sessions, the scam-pattern knowledge base and archived reports.
package store

import (
	"time"

	"github.com/hrygo/scambait/internal/profile"
	"github.com/hrygo/scambait/plugin/ai/cache"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// sessionCache keeps hot sessions out of the read path. Entries
	// refresh on every save, so an expired entry only costs one reload.
	sessionCache *cache.LRUCache
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:       driver,
		profile:      profile,
		sessionCache: cache.NewLRUCache(1000, 30*time.Minute),
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}
