package masterdata

import (
	"context"
	"fmt"
	"strings"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CodeAuto is the reserved request value that asks the allocator to
// generate a code instead of validating a caller-supplied literal.
// Matching is case-insensitive since codes are upper-cased on input.
const CodeAuto = "auto"

// MaxCodeAttempts bounds the generation retry loop. Without a bound an
// adversarially pre-occupied numbering space would spin forever.
const MaxCodeAttempts = 1000

// CodeAllocator resolves codes within a scope: it validates caller-supplied
// literals against live records and generates sequential codes from the
// scope's historical record count.
//
// Numbering counts soft-deleted rows so a delete-and-recreate never reuses
// a retired code, while the uniqueness check only looks at live rows — a
// literal code may legally collide with a soft-deleted record's code.
//
// The count-then-insert step takes no lock; two concurrent creates in the
// same scope can generate the same candidate, and the partial unique index
// on (scope_id, kind, code) rejects the loser at commit time.
type CodeAllocator struct {
	repo RecordRepository
}

// NewCodeAllocator creates a new CodeAllocator backed by the given repository
func NewCodeAllocator(repo RecordRepository) *CodeAllocator {
	return &CodeAllocator{repo: repo}
}

// ResolveCode returns the code to persist for a mutation: the validated
// literal, or a freshly generated one when the reserved keyword is passed.
// excludeID exempts the record being updated from its own current code.
func (a *CodeAllocator) ResolveCode(ctx context.Context, scopeID uuid.UUID, desc Descriptor, requested string, excludeID *uuid.UUID) (string, error) {
	if IsAutoCode(requested) {
		return a.GenerateUniqueCode(ctx, scopeID, desc)
	}

	if err := ValidateCode(requested); err != nil {
		return "", err
	}

	unique, err := a.IsUniqueCode(ctx, scopeID, desc.Kind, requested, excludeID)
	if err != nil {
		return "", err
	}
	if !unique {
		return "", shared.ErrDuplicateCode
	}

	return strings.ToUpper(requested), nil
}

// IsUniqueCode reports whether the code is unused by any live record of the
// kind in the scope, excluding excludeID
func (a *CodeAllocator) IsUniqueCode(ctx context.Context, scopeID uuid.UUID, kind Kind, code string, excludeID *uuid.UUID) (bool, error) {
	exists, err := a.repo.ExistsCode(ctx, scopeID, kind, strings.ToUpper(code), excludeID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// GenerateUniqueCode allocates the next sequential code for the kind in the
// scope: prefix plus the historical count (soft-deleted included) plus one,
// zero-padded to three digits. Collisions with literal codes callers chose
// earlier advance the number until a free one is found.
func (a *CodeAllocator) GenerateUniqueCode(ctx context.Context, scopeID uuid.UUID, desc Descriptor) (string, error) {
	count, err := a.repo.CountEver(ctx, scopeID, desc.Kind)
	if err != nil {
		return "", err
	}

	next := count + 1
	for attempt := int64(0); attempt < MaxCodeAttempts; attempt++ {
		candidate := FormatCode(desc.CodePrefix, next+attempt)

		exists, err := a.repo.ExistsCode(ctx, scopeID, desc.Kind, candidate, nil)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", shared.ErrCodeAllocationExhausted
}

// IsAutoCode reports whether the requested code is the auto-generation keyword
func IsAutoCode(requested string) bool {
	return strings.EqualFold(strings.TrimSpace(requested), CodeAuto)
}

// FormatCode formats a sequential code: prefix plus the number zero-padded
// to three digits, growing naturally past 999
func FormatCode(prefix string, n int64) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}
