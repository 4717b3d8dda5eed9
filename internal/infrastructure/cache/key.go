package cache

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bizcore/backend/internal/domain/masterdata"
	"github.com/google/uuid"
)

const (
	keyNamespace = "masterdata"
	keySeparator = "::"

	// emptySegment marks intentionally blank key parts so "no search" and
	// a literal empty string cannot collide with adjacent segments.
	emptySegment = "_nil_"
)

// BuildListKey builds a deterministic cache key for a list read. Every
// query field participates, so two requests share an entry only when they
// would produce identical results. Pinned ids are sorted because their
// request order does not change the result set.
func BuildListKey(op string, scopeID uuid.UUID, kind masterdata.Kind, q masterdata.Query) string {
	parts := []string{
		keyNamespace,
		op,
		"scope:" + scopeID.String(),
		"kind:" + string(kind),
		"search:" + segment(strings.ToLower(strings.TrimSpace(q.Search))),
		"status:" + segment(statusSegment(q.Status)),
		"parent:" + segment(uuidSegment(q.ParentID)),
		"pinned:" + segment(pinnedSegment(q.PinnedIDs)),
		"deleted:" + strconv.FormatBool(q.IncludeDeleted),
		"paginate:" + strconv.FormatBool(q.Paginate),
		"page:" + strconv.Itoa(q.Page),
		"size:" + strconv.Itoa(q.PageSize),
		"limit:" + strconv.Itoa(q.Limit),
	}
	return strings.Join(parts, keySeparator)
}

func segment(s string) string {
	if s == "" {
		return emptySegment
	}
	return s
}

func statusSegment(status *masterdata.Status) string {
	if status == nil {
		return ""
	}
	return string(*status)
}

func uuidSegment(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func pinnedSegment(ids []uuid.UUID) string {
	if len(ids) == 0 {
		return ""
	}
	sorted := make([]string, len(ids))
	for i, id := range ids {
		sorted[i] = id.String()
	}
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
