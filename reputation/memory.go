// Package reputation implements the requester reputation tracker: windowed
// per-key attempt counters behind a single increment-and-check operation.
package reputation

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore counts attempts in process memory. An entry's window starts
// at its first attempt and is not extended by later attempts; expired
// entries are dropped lazily on access and reclaimed by a periodic sweep.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore creates a MemoryStore. Window is the counting window per
// key; sweepInterval controls the background reclamation of stale entries
// and may be 0 to disable the sweep.
func NewMemoryStore(window time.Duration, sweepInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(window, sweepInterval),
	}
}

// IncrementAndCheck records one attempt for key and returns the count
// within the current window, including this attempt. The now parameter is
// unused; the backing cache tracks expiry itself. Never returns an error.
func (s *MemoryStore) IncrementAndCheck(ctx context.Context, key string, now time.Time) (count int64, err error) {
	for {
		// Add is a no-op when a live entry exists; the window starts at
		// the first attempt.
		s.cache.Add(key, int64(0), gocache.DefaultExpiration)

		count, incErr := s.cache.IncrementInt64(key, 1)
		if incErr == nil {
			return count, nil
		}

		// The entry expired between Add and Increment. Retry; the next
		// Add starts a fresh window.
	}
}
