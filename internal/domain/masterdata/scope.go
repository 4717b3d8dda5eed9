package masterdata

import (
	"context"

	"github.com/google/uuid"
)

// Scope identifies the uniqueness domain a record belongs to: the company
// that owns it, or the user for company records. The caller is expected to
// have authorized the scope already; the core only verifies it resolves.
type Scope struct {
	Kind ScopeKind
	ID   uuid.UUID
}

// UserScope returns the scope for a user's companies
func UserScope(userID uuid.UUID) Scope {
	return Scope{Kind: ScopeKindUser, ID: userID}
}

// CompanyScope returns the scope for a company's records
func CompanyScope(companyID uuid.UUID) Scope {
	return Scope{Kind: ScopeKindCompany, ID: companyID}
}

// ScopeResolver verifies a scope id resolves to an existing, non-deleted
// scope record. Implementations return shared.ErrInvalidScope otherwise.
type ScopeResolver interface {
	Resolve(ctx context.Context, scope Scope) error
}
