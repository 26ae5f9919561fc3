package store

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL matches the spreadsheet cache window used in production.
const DefaultTTL = 5 * time.Minute

// FetchFunc loads a fresh snapshot from the remote source.
type FetchFunc func(ctx context.Context) (Snapshot, error)

// Cache holds the current Snapshot and refreshes it from the remote source
// when the TTL elapses. A remote failure falls back to a local JSON file, and
// if that also fails callers get an all-empty snapshot; Get never errors.
type Cache struct {
	ttl          time.Duration
	fetch        FetchFunc
	fallbackPath string

	mu      sync.RWMutex
	snap    Snapshot
	expires time.Time
	loaded  bool

	group singleflight.Group
}

func NewCache(ttl time.Duration, fetch FetchFunc, fallbackPath string) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:          ttl,
		fetch:        fetch,
		fallbackPath: fallbackPath,
	}
}

// Get returns the cached snapshot, refreshing it first if the TTL elapsed.
// Concurrent callers during a refresh share a single fetch.
func (c *Cache) Get(ctx context.Context) Snapshot {
	c.mu.RLock()
	if c.loaded && time.Now().Before(c.expires) {
		snap := c.snap
		c.mu.RUnlock()
		return snap
	}
	c.mu.RUnlock()

	return c.refresh(ctx)
}

// Reload forces a fresh fetch regardless of TTL.
func (c *Cache) Reload(ctx context.Context) Snapshot {
	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()
	return c.refresh(ctx)
}

func (c *Cache) refresh(ctx context.Context) Snapshot {
	v, _, _ := c.group.Do("store", func() (any, error) {
		// Re-check under the lock: another caller may have refreshed while
		// we waited on the flight group.
		c.mu.RLock()
		if c.loaded && time.Now().Before(c.expires) {
			snap := c.snap
			c.mu.RUnlock()
			return snap, nil
		}
		c.mu.RUnlock()

		snap := c.load(ctx)
		c.mu.Lock()
		c.snap = snap
		c.expires = time.Now().Add(c.ttl)
		c.loaded = true
		c.mu.Unlock()
		return snap, nil
	})
	return v.(Snapshot)
}

func (c *Cache) load(ctx context.Context) Snapshot {
	snap, err := c.fetch(ctx)
	if err == nil {
		snap.Source = SourceSheets
		return snap
	}
	log.Printf("cache: remote load failed: %v", err)

	if c.fallbackPath != "" {
		if snap, ferr := readFallback(c.fallbackPath); ferr == nil {
			return snap
		} else {
			log.Printf("cache: fallback file: %v", ferr)
		}
	}
	return Empty()
}

func readFallback(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, err
	}
	snap.Source = SourceFallback
	return snap, nil
}
