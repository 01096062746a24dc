package cache

import (
	"time"
)

// CacheService stores short-lived rate-limit block state for the fetcher.
// A memcache backend survives process restarts between scheduled runs; the
// in-memory backend only covers a single run.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
