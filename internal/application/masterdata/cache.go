package masterdata

import (
	"context"

	"github.com/bizcore/backend/internal/domain/masterdata"
	"github.com/google/uuid"
)

// ListCache memoizes list results keyed by operation, scope and query.
// Entries are immutable once stored; InvalidateAll clears the whole shared
// namespace so a read after any mutation can never observe stale data.
type ListCache interface {
	// Get returns the cached page for the key, if present
	Get(ctx context.Context, op string, scopeID uuid.UUID, kind masterdata.Kind, q masterdata.Query) (*ListResult, bool)
	// Put stores a page under the key
	Put(ctx context.Context, op string, scopeID uuid.UUID, kind masterdata.Kind, q masterdata.Query, result *ListResult)
	// InvalidateAll drops every entry in the shared namespace
	InvalidateAll(ctx context.Context) error
}

// ListResult is the cacheable outcome of a list read
type ListResult struct {
	Items      []RecordResponse `json:"items"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
	Paginated  bool             `json:"paginated"`
}

// noopListCache satisfies ListCache without storing anything; used when
// caching is disabled by configuration.
type noopListCache struct{}

// NewNoopListCache returns a cache that never hits
func NewNoopListCache() ListCache {
	return noopListCache{}
}

func (noopListCache) Get(context.Context, string, uuid.UUID, masterdata.Kind, masterdata.Query) (*ListResult, bool) {
	return nil, false
}

func (noopListCache) Put(context.Context, string, uuid.UUID, masterdata.Kind, masterdata.Query, *ListResult) {
}

func (noopListCache) InvalidateAll(context.Context) error {
	return nil
}
