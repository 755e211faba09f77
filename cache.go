package rowbatch

import (
	"encoding/hex"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"
)

// Cache is the interface for caching compiled statement text. The planner
// emits statements whose text depends only on the plan shape (dialect, table,
// key sets, row count, casts), so identical batches can reuse the same SQL
// with fresh arguments. Users may implement this interface with their
// preferred caching solution; NewStatementCache provides an in-memory one.
type Cache interface {
	// Get retrieves a compiled statement from the cache.
	// Returns "", false if the key doesn't exist.
	Get(key string) (string, bool)

	// Set stores a compiled statement in the cache.
	Set(key string, stmt string)

	// Clear removes all statements from the cache.
	Clear()
}

// CacheKey identifies a statement shape. Two plans with equal keys compile
// to byte-identical SQL text, differing only in bound arguments.
type CacheKey struct {
	Dialect     string
	Table       string
	ReadKeys    []string
	WriteKeys   []string
	BitmaskKeys []string
	Coalesced   []string
	Rows        int
	Casts       []string
	Timestamps  []string
}

// Encode returns the msgpack-encoded string form of the key.
func (k CacheKey) Encode() (string, error) {
	b, err := msgpack.Marshal(k)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// StatementCache is a bounded in-memory Cache. Concurrent builds of the same
// statement are de-duplicated, so a burst of identical batches compiles the
// statement text once.
type StatementCache struct {
	mu      sync.RWMutex
	maxSize int
	entries map[string]string
	order   []string // insertion order, evicted oldest-first
	group   singleflight.Group
}

// DefaultCacheSize is the default maximum number of cached statements.
const DefaultCacheSize = 512

// NewStatementCache returns an in-memory StatementCache holding at most
// maxSize statements. A maxSize <= 0 uses DefaultCacheSize.
func NewStatementCache(maxSize int) *StatementCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &StatementCache{
		maxSize: maxSize,
		entries: make(map[string]string, maxSize),
	}
}

// Get retrieves a compiled statement from the cache.
func (c *StatementCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	stmt, ok := c.entries[key]
	return stmt, ok
}

// Set stores a compiled statement, evicting the oldest entry when full.
func (c *StatementCache) Set(key, stmt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		c.entries[key] = stmt
		return
	}
	if len(c.entries) >= c.maxSize {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = stmt
	c.order = append(c.order, key)
}

// Clear removes all statements from the cache.
func (c *StatementCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string, c.maxSize)
	c.order = nil
}

// Len returns the number of cached statements.
func (c *StatementCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Do returns the cached statement for key, building and storing it on a miss.
// Concurrent calls with the same key share a single build.
func (c *StatementCache) Do(key string, build func() (string, error)) (string, error) {
	if stmt, ok := c.Get(key); ok {
		return stmt, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		if stmt, ok := c.Get(key); ok {
			return stmt, nil
		}
		stmt, err := build()
		if err != nil {
			return "", err
		}
		c.Set(key, stmt)
		return stmt, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
