// Package cache provides a bounded, TTL-expiring cache keyed by geographic
// coordinates. Coordinates are rounded to three decimal places (~100m) so
// nearby queries share entries, and extra parameters are folded into the key
// in a deterministic order.
package cache

import (
	"container/list"
	"crypto/sha1" //nolint:gosec // cache key hashing, not security
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Default cache limits. Thirty minutes matches the refresh cadence of the
// satellite data feed.
const (
	DefaultTTL        = 30 * time.Minute
	DefaultMaxEntries = 1000
)

// Config holds configuration for a LocationCache.
type Config struct {
	// TTL is how long entries remain valid. Default: 30 minutes.
	TTL time.Duration

	// MaxEntries bounds the cache size. When full, the least recently
	// used entry is evicted. Default: 1000.
	MaxEntries int
}

// Stats is a point-in-time snapshot of cache behaviour.
type Stats struct {
	Size       int           `json:"size"`
	MaxEntries int           `json:"max_entries"`
	TTL        time.Duration `json:"-"`
	TTLSeconds int           `json:"ttl_seconds"`
	Hits       int64         `json:"hits"`
	Misses     int64         `json:"misses"`
	Evictions  int64         `json:"evictions"`
	HitRate    float64       `json:"hit_rate"`
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// LocationCache is a thread-safe LRU cache with per-entry expiry.
// Construct one per data product and inject it where needed; the cache
// carries no package-level state.
type LocationCache[V any] struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]*list.Element
	order      *list.List // front = most recently used

	hits      int64
	misses    int64
	evictions int64
}

// New creates a LocationCache with the given configuration, applying
// defaults for zero values.
func New[V any](cfg Config) *LocationCache[V] {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = DefaultMaxEntries
	}

	return &LocationCache[V]{
		ttl:        cfg.TTL,
		maxEntries: cfg.MaxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

// Key builds a deterministic cache key from coordinates and optional extra
// parameters. Coordinates are rounded to three decimals before hashing, so
// points within roughly 100m map to the same entry. Parameter order does not
// affect the key.
func Key(lat, lon float64, params map[string]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "lat=%.3f;lon=%.3f", lat, lon)

	if len(params) > 0 {
		names := make([]string, 0, len(params))
		for name := range params {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, ";%s=%s", name, params[name])
		}
	}

	sum := sha1.Sum([]byte(sb.String())) //nolint:gosec // not security sensitive
	return hex.EncodeToString(sum[:])
}

// Get returns the cached value for key if present and unexpired.
func (c *LocationCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}

	ent := elem.Value.(*entry[V])
	if time.Now().After(ent.expiresAt) {
		c.removeLocked(elem)
		c.misses++
		var zero V
		return zero, false
	}

	c.order.MoveToFront(elem)
	c.hits++
	return ent.value, true
}

// Set stores value under key, evicting the least recently used entry if the
// cache is at capacity. Setting an existing key refreshes its expiry.
func (c *LocationCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(c.ttl)

	if elem, ok := c.entries[key]; ok {
		ent := elem.Value.(*entry[V])
		ent.value = value
		ent.expiresAt = expiresAt
		c.order.MoveToFront(elem)
		return
	}

	if len(c.entries) >= c.maxEntries {
		if oldest := c.order.Back(); oldest != nil {
			c.removeLocked(oldest)
			c.evictions++
		}
	}

	elem := c.order.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})
	c.entries[key] = elem
}

// Clear removes all entries and returns the number removed.
func (c *LocationCache[V]) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[string]*list.Element)
	c.order.Init()
	return n
}

// Len returns the current number of entries, including any that have
// expired but not yet been touched.
func (c *LocationCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of cache statistics.
func (c *LocationCache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	rate := 0.0
	if total > 0 {
		rate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:       len(c.entries),
		MaxEntries: c.maxEntries,
		TTL:        c.ttl,
		TTLSeconds: int(c.ttl.Seconds()),
		Hits:       c.hits,
		Misses:     c.misses,
		Evictions:  c.evictions,
		HitRate:    rate,
	}
}

func (c *LocationCache[V]) removeLocked(elem *list.Element) {
	ent := elem.Value.(*entry[V])
	delete(c.entries, ent.key)
	c.order.Remove(elem)
}
