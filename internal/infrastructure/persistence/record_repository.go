package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bizcore/backend/internal/domain/masterdata"
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRecordRepository implements RecordRepository using GORM.
// All reads carry the scope predicate, so a record id from another scope
// behaves exactly like a missing record.
type GormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository creates a new GormRecordRepository
func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

// FindByID finds a live record by id within a scope
func (r *GormRecordRepository) FindByID(ctx context.Context, scopeID, id uuid.UUID) (*masterdata.Record, error) {
	var record masterdata.Record
	if err := r.db.WithContext(ctx).
		Where("scope_id = ? AND id = ?", scopeID, id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByCode finds a live record by code within a scope
func (r *GormRecordRepository) FindByCode(ctx context.Context, scopeID uuid.UUID, kind masterdata.Kind, code string) (*masterdata.Record, error) {
	var record masterdata.Record
	if err := r.db.WithContext(ctx).
		Where("scope_id = ? AND kind = ? AND code = ?", scopeID, kind, strings.ToUpper(code)).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindChildren returns the live child records owned by a parent record
func (r *GormRecordRepository) FindChildren(ctx context.Context, parentID uuid.UUID, kind masterdata.Kind) ([]masterdata.Record, error) {
	var records []masterdata.Record
	if err := r.db.WithContext(ctx).
		Where("parent_id = ? AND kind = ?", parentID, kind).
		Order("records.sort_order ASC, records.name ASC, records.id ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Search executes a filtered read over a kind. Pinned ids are unioned into
// the result regardless of the other filters and ordered first; the rest of
// the ordering comes from the kind's descriptor so pages are stable.
func (r *GormRecordRepository) Search(ctx context.Context, scopeID uuid.UUID, kind masterdata.Kind, q masterdata.Query) ([]masterdata.Record, error) {
	desc, err := masterdata.Describe(kind)
	if err != nil {
		return nil, err
	}

	query := r.applyQuery(ctx, desc, scopeID, q)

	if len(q.PinnedIDs) > 0 {
		query = query.Order(pinnedOrder(q.PinnedIDs))
	}
	for _, clause := range desc.OrderBy {
		query = query.Order("records." + clause)
	}

	if q.Paginate && q.Page > 0 && q.PageSize > 0 {
		query = query.Offset((q.Page - 1) * q.PageSize).Limit(q.PageSize)
	} else if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var records []masterdata.Record
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Count counts the records Search would return, ignoring pagination
func (r *GormRecordRepository) Count(ctx context.Context, scopeID uuid.UUID, kind masterdata.Kind, q masterdata.Query) (int64, error) {
	desc, err := masterdata.Describe(kind)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.applyQuery(ctx, desc, scopeID, q).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountLive counts live records of a kind within a scope
func (r *GormRecordRepository) CountLive(ctx context.Context, scopeID uuid.UUID, kind masterdata.Kind) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&masterdata.Record{}).
		Where("scope_id = ? AND kind = ?", scopeID, kind).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountEver counts all records of a kind ever created within a scope,
// soft-deleted rows included. The allocator numbers from this count so
// deleted rows keep their slot.
func (r *GormRecordRepository) CountEver(ctx context.Context, scopeID uuid.UUID, kind masterdata.Kind) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Unscoped().
		Model(&masterdata.Record{}).
		Where("scope_id = ? AND kind = ?", scopeID, kind).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsCode reports whether a live record other than excludeID already
// uses the code within the scope. Soft-deleted rows do not block reuse.
func (r *GormRecordRepository) ExistsCode(ctx context.Context, scopeID uuid.UUID, kind masterdata.Kind, code string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&masterdata.Record{}).
		Where("scope_id = ? AND kind = ? AND code = ?", scopeID, kind, strings.ToUpper(code))
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ClearExclusive clears the exclusivity flag on every record of the kind in
// the scope except excludeID
func (r *GormRecordRepository) ClearExclusive(ctx context.Context, scopeID uuid.UUID, kind masterdata.Kind, excludeID *uuid.UUID) error {
	query := r.db.WithContext(ctx).
		Model(&masterdata.Record{}).
		Where("scope_id = ? AND kind = ? AND is_exclusive = ?", scopeID, kind, true)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	return query.Update("is_exclusive", false).Error
}

// Save creates or updates a record
func (r *GormRecordRepository) Save(ctx context.Context, record *masterdata.Record) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// SoftDelete marks a record deleted
func (r *GormRecordRepository) SoftDelete(ctx context.Context, scopeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("scope_id = ? AND id = ?", scopeID, id).
		Delete(&masterdata.Record{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyQuery builds the shared WHERE clause for Search and Count. The
// scope and kind predicates sit outside the filter group so pinned rows
// can bypass the filters but never the scope.
func (r *GormRecordRepository) applyQuery(ctx context.Context, desc masterdata.Descriptor, scopeID uuid.UUID, q masterdata.Query) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&masterdata.Record{})
	if q.IncludeDeleted {
		query = query.Unscoped()
	}
	query = query.Where("records.scope_id = ? AND records.kind = ?", scopeID, desc.Kind)

	if desc.ParentSearch && q.Search != "" {
		query = query.Joins("LEFT JOIN records parents ON parents.id = records.parent_id")
	}

	filters := r.db.Session(&gorm.Session{NewDB: true})
	filtered := false

	if q.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(q.Search))) + "%"
		search := r.db.Session(&gorm.Session{NewDB: true})
		for i, column := range desc.SearchColumns {
			clause := "LOWER(records." + column + ") LIKE ? ESCAPE '\\'"
			if i == 0 {
				search = search.Where(clause, pattern)
			} else {
				search = search.Or(clause, pattern)
			}
		}
		if desc.ParentSearch {
			search = search.Or("LOWER(parents.name) LIKE ? ESCAPE '\\'", pattern)
		}
		filters = filters.Where(search)
		filtered = true
	}
	if q.Status != nil {
		filters = filters.Where("records.status = ?", *q.Status)
		filtered = true
	}
	if q.ParentID != nil {
		filters = filters.Where("records.parent_id = ?", *q.ParentID)
		filtered = true
	}

	if !filtered {
		return query
	}
	if len(q.PinnedIDs) > 0 {
		return query.Where(filters.Or("records.id IN ?", q.PinnedIDs))
	}
	return query.Where(filters)
}

// pinnedOrder orders pinned rows ahead of everything else. The ids are
// parsed UUIDs rendered back to their canonical form, so inlining them is
// injection-safe.
func pinnedOrder(ids []uuid.UUID) string {
	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = "'" + id.String() + "'"
	}
	return "CASE WHEN records.id IN (" + strings.Join(quoted, ",") + ") THEN 0 ELSE 1 END"
}

// escapeLike escapes LIKE metacharacters so user input always matches as a
// literal substring
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// Ensure GormRecordRepository implements RecordRepository
var _ masterdata.RecordRepository = (*GormRecordRepository)(nil)
