package masterdata

import (
	"context"

	"github.com/google/uuid"
)

// Query describes a filtered read over one kind within a scope.
//
// PinnedIDs are unioned into the result regardless of the other filters and
// ordered first; listings use this to keep a currently-selected value
// visible even when it no longer matches the search.
type Query struct {
	Search         string
	Status         *Status
	ParentID       *uuid.UUID
	PinnedIDs      []uuid.UUID
	IncludeDeleted bool
	Paginate       bool
	Page           int
	PageSize       int
	Limit          int // cap for unpaginated reads
}

// DefaultQuery returns a query with default pagination values
func DefaultQuery() Query {
	return Query{
		Paginate: true,
		Page:     1,
		PageSize: 20,
	}
}

// RecordRepository is the persistence port for the generic record
// aggregate. All reads are scope-checked; lookups that resolve to a
// different scope report shared.ErrNotFound.
type RecordRepository interface {
	// FindByID finds a live record by id within a scope
	FindByID(ctx context.Context, scopeID, id uuid.UUID) (*Record, error)
	// FindByCode finds a live record by code within a scope
	FindByCode(ctx context.Context, scopeID uuid.UUID, kind Kind, code string) (*Record, error)
	// FindChildren returns the live child records owned by a parent record
	FindChildren(ctx context.Context, parentID uuid.UUID, kind Kind) ([]Record, error)
	// Search executes a filtered, deterministically ordered read
	Search(ctx context.Context, scopeID uuid.UUID, kind Kind, q Query) ([]Record, error)
	// Count counts the records Search would return, ignoring pagination
	Count(ctx context.Context, scopeID uuid.UUID, kind Kind, q Query) (int64, error)
	// CountLive counts live records of a kind within a scope
	CountLive(ctx context.Context, scopeID uuid.UUID, kind Kind) (int64, error)
	// CountEver counts all records of a kind ever created within a scope,
	// soft-deleted included; drives the allocator's historical numbering
	CountEver(ctx context.Context, scopeID uuid.UUID, kind Kind) (int64, error)
	// ExistsCode reports whether a live record other than excludeID already
	// uses the code within the scope
	ExistsCode(ctx context.Context, scopeID uuid.UUID, kind Kind, code string, excludeID *uuid.UUID) (bool, error)
	// ClearExclusive clears the exclusivity flag on every record of the
	// kind in the scope except excludeID
	ClearExclusive(ctx context.Context, scopeID uuid.UUID, kind Kind, excludeID *uuid.UUID) error
	// Save creates or updates a record
	Save(ctx context.Context, record *Record) error
	// SoftDelete marks a record deleted; the row stays queryable through
	// IncludeDeleted reads and keeps counting toward historical numbering
	SoftDelete(ctx context.Context, scopeID, id uuid.UUID) error
}
