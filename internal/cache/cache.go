// Package cache fronts the persistent store with an in-process tier and
// owns the cache key scheme. Reads never fail: any store trouble is a miss.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/exportdesk/advisor-cli/internal/model"
	"github.com/exportdesk/advisor-cli/internal/store"
)

// Entry is the cached ranking record, as persisted by the store.
type Entry = store.Entry

const (
	// DefaultTTL keeps rankings for 14 days; macro signals move slower
	// than that.
	DefaultTTL = 336 * time.Hour

	// maxPayload bounds how many ranked rows one entry carries.
	maxPayload = 20

	keyLen = 16
)

// Key derives the cache key for a category/origin pair: the first 16 hex
// characters of sha256 over the lowercased 4-digit category prefix, a
// colon, and the uppercased origin.
func Key(category, origin string) string {
	cat := strings.ToLower(strings.TrimSpace(category))
	if len(cat) > 4 {
		cat = cat[:4]
	}
	sum := sha256.Sum256([]byte(cat + ":" + strings.ToUpper(strings.TrimSpace(origin))))
	return hex.EncodeToString(sum[:])[:keyLen]
}

// Stats is a point-in-time view of cache effectiveness.
type Stats struct {
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	MemoryEntries int   `json:"memory_entries"`
}

// Cache is safe for concurrent use. Writes are last-write-wins per key.
type Cache struct {
	store store.Store
	ttl   time.Duration

	mu     sync.RWMutex
	memory map[string]store.Entry

	hits   atomic.Int64
	misses atomic.Int64
}

// New wraps a store. A non-positive ttl selects DefaultTTL.
func New(st store.Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store:  st,
		ttl:    ttl,
		memory: make(map[string]store.Entry),
	}
}

// Get returns the cached ranking for a category/origin pair. The memory
// tier is consulted first, then the store; a store hit refills the memory
// tier. Store errors are logged and treated as misses.
func (c *Cache) Get(ctx context.Context, category, origin string) (*Entry, bool) {
	key := Key(category, origin)
	now := time.Now().UTC()

	c.mu.RLock()
	e, ok := c.memory[key]
	c.mu.RUnlock()
	if ok {
		if !e.Expired(now) {
			c.hits.Add(1)
			return copyEntry(e), true
		}
		c.mu.Lock()
		delete(c.memory, key)
		c.mu.Unlock()
	}

	stored, err := c.store.Get(ctx, key)
	if err != nil {
		zap.L().Warn("cache: store read failed, treating as miss",
			zap.String("key", key), zap.Error(err))
		c.misses.Add(1)
		return nil, false
	}
	if stored == nil {
		c.misses.Add(1)
		return nil, false
	}

	c.mu.Lock()
	c.memory[key] = *stored
	c.mu.Unlock()

	c.hits.Add(1)
	return copyEntry(*stored), true
}

// Set stores a ranking under the pair's key, truncating the payload to the
// entry cap. A zero ttl selects the cache default. Store write failures are
// logged, not surfaced: the memory tier still serves the entry for this
// process.
func (c *Cache) Set(ctx context.Context, category, origin string, payload []model.CountryScore, ttl time.Duration) *Entry {
	if ttl == 0 {
		ttl = c.ttl
	}
	if len(payload) > maxPayload {
		payload = payload[:maxPayload]
	}

	now := time.Now().UTC()
	e := store.Entry{
		Key:       Key(category, origin),
		Category:  strings.ToLower(strings.TrimSpace(category)),
		Origin:    strings.ToUpper(strings.TrimSpace(origin)),
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	c.mu.Lock()
	c.memory[e.Key] = e
	c.mu.Unlock()

	if err := c.store.Set(ctx, e); err != nil {
		zap.L().Warn("cache: store write failed",
			zap.String("key", e.Key), zap.Error(err))
	}
	return copyEntry(e)
}

// Stats reports hit/miss counters and the memory tier size.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	entries := len(c.memory)
	c.mu.RUnlock()

	return Stats{
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		MemoryEntries: entries,
	}
}

// Sweep drops expired entries from both tiers and returns how many the
// store removed.
func (c *Cache) Sweep(ctx context.Context) (int, error) {
	now := time.Now().UTC()

	c.mu.Lock()
	for k, e := range c.memory {
		if e.Expired(now) {
			delete(c.memory, k)
		}
	}
	c.mu.Unlock()

	return c.store.DeleteExpired(ctx)
}

// Clear empties both tiers and returns how many entries the store removed.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	c.mu.Lock()
	c.memory = make(map[string]store.Entry)
	c.mu.Unlock()

	return c.store.Clear(ctx)
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	return c.store.Close()
}

func copyEntry(e store.Entry) *Entry {
	out := e
	out.Payload = make([]model.CountryScore, len(e.Payload))
	copy(out.Payload, e.Payload)
	return &out
}
