package persistence

import (
	"context"

	"github.com/bizcore/backend/internal/domain/identity"
	"github.com/bizcore/backend/internal/domain/masterdata"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormScopeResolver verifies that a scope key points at an existing
// aggregate: a user for user scopes, a live company record for company
// scopes. Mutations and reads both refuse to run against a dangling scope.
type GormScopeResolver struct {
	db *gorm.DB
}

// NewGormScopeResolver creates a new GormScopeResolver
func NewGormScopeResolver(db *gorm.DB) *GormScopeResolver {
	return &GormScopeResolver{db: db}
}

// Resolve returns nil when the scope exists, ErrInvalidScope otherwise
func (r *GormScopeResolver) Resolve(ctx context.Context, scope masterdata.Scope) error {
	if scope.ID == uuid.Nil {
		return shared.ErrInvalidScope
	}

	var count int64
	switch scope.Kind {
	case masterdata.ScopeKindUser:
		if err := r.db.WithContext(ctx).
			Model(&identity.User{}).
			Where("id = ?", scope.ID).
			Count(&count).Error; err != nil {
			return err
		}
	case masterdata.ScopeKindCompany:
		if err := r.db.WithContext(ctx).
			Model(&masterdata.Record{}).
			Where("id = ? AND kind = ?", scope.ID, masterdata.KindCompany).
			Count(&count).Error; err != nil {
			return err
		}
	default:
		return shared.ErrInvalidScope
	}

	if count == 0 {
		return shared.ErrInvalidScope
	}
	return nil
}

// Ensure GormScopeResolver implements ScopeResolver
var _ masterdata.ScopeResolver = (*GormScopeResolver)(nil)
