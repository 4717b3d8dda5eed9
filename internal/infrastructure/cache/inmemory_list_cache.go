package cache

import (
	"context"
	"sync"
	"time"

	appmasterdata "github.com/bizcore/backend/internal/application/masterdata"
	"github.com/bizcore/backend/internal/domain/masterdata"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultListTTL = 5 * time.Minute

// listEntry wraps a cached page with its expiration time
type listEntry struct {
	result    *appmasterdata.ListResult
	expiresAt time.Time
}

func (e *listEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryListCache implements the list cache for single-instance
// deployments. InvalidateAll swaps the whole map, so concurrent readers
// holding the old map finish against a snapshot that was valid when their
// read started.
type InMemoryListCache struct {
	mu      sync.RWMutex
	entries map[string]*listEntry
	ttl     time.Duration
	logger  *zap.Logger
}

// InMemoryListCacheOption is a functional option for configuring the cache
type InMemoryListCacheOption func(*InMemoryListCache)

// WithInMemoryTTL sets the entry TTL
func WithInMemoryTTL(ttl time.Duration) InMemoryListCacheOption {
	return func(c *InMemoryListCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryListCacheOption {
	return func(c *InMemoryListCache) {
		c.logger = logger
	}
}

// NewInMemoryListCache creates a new in-memory list cache
func NewInMemoryListCache(opts ...InMemoryListCacheOption) *InMemoryListCache {
	c := &InMemoryListCache{
		entries: make(map[string]*listEntry),
		ttl:     defaultListTTL,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached page for the key, if present and not expired
func (c *InMemoryListCache) Get(_ context.Context, op string, scopeID uuid.UUID, kind masterdata.Kind, q masterdata.Query) (*appmasterdata.ListResult, bool) {
	key := BuildListKey(op, scopeID, kind, q)

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || entry.isExpired() {
		return nil, false
	}
	return entry.result, true
}

// Put stores a page under the key
func (c *InMemoryListCache) Put(_ context.Context, op string, scopeID uuid.UUID, kind masterdata.Kind, q masterdata.Query, result *appmasterdata.ListResult) {
	key := BuildListKey(op, scopeID, kind, q)

	c.mu.Lock()
	c.entries[key] = &listEntry{result: result, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// InvalidateAll drops every cached page
func (c *InMemoryListCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]*listEntry)
	c.mu.Unlock()

	c.logger.Debug("list cache invalidated")
	return nil
}

// Len returns the number of stored entries (for testing/monitoring)
func (c *InMemoryListCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryListCache implements ListCache
var _ appmasterdata.ListCache = (*InMemoryListCache)(nil)
