package profile

import (
	"sync"

	"github.com/RebootDash/RD-Backend/internal/profile/metrics"
)

// Cache holds the latest snapshot per user, with an ordering guard:
// each fetch registers before going to the network, and its result is
// applied only if no newer fetch for the same user has started since.
// A stale response can therefore never overwrite a fresher snapshot,
// even when a poll races a login as a different user.
type Cache struct {
	mu      sync.Mutex
	entries map[int]*cacheEntry
}

type cacheEntry struct {
	latest uint64 // newest fetch sequence handed out
	snap   *metrics.Snapshot
}

func NewCache() *Cache {
	return &Cache{entries: make(map[int]*cacheEntry)}
}

// Begin registers an outbound fetch for the user and returns its
// sequence number.
func (c *Cache) Begin(userID int) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[userID]
	if !ok {
		e = &cacheEntry{}
		c.entries[userID] = e
	}
	e.latest++
	return e.latest
}

// Complete applies a finished fetch. It reports false, discarding the
// snapshot, when a newer fetch for the user has begun in the meantime
// or the user was evicted.
func (c *Cache) Complete(userID int, seq uint64, snap metrics.Snapshot) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[userID]
	if !ok || seq != e.latest {
		return false
	}
	e.snap = &snap
	return true
}

// Get returns the latest snapshot for the user, if one is cached.
func (c *Cache) Get(userID int) (metrics.Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[userID]
	if !ok || e.snap == nil {
		return metrics.Snapshot{}, false
	}
	return *e.snap, true
}

// Evict drops the user's snapshot and invalidates in-flight fetches.
// Called when the user's session is destroyed.
func (c *Cache) Evict(userID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}
