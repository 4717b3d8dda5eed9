package masterdata

import (
	"time"

	"github.com/bizcore/backend/internal/domain/masterdata"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateRecordRequest represents a request to create a new record.
// Code is required; the reserved value "auto" asks the allocator to
// generate one.
type CreateRecordRequest struct {
	Code        string            `json:"code" binding:"required,recordcode"`
	Name        string            `json:"name" binding:"required,min=1,max=200"`
	ShortName   string            `json:"short_name" binding:"max=100"`
	Description string            `json:"description"`
	ContactName string            `json:"contact_name" binding:"max=100"`
	Phone       string            `json:"phone" binding:"max=50"`
	Email       string            `json:"email" binding:"omitempty,email,max=200"`
	Address     string            `json:"address" binding:"max=500"`
	ParentID    *uuid.UUID        `json:"parent_id"`
	RefID       *uuid.UUID        `json:"ref_id"`
	Factor      *decimal.Decimal  `json:"factor"`
	IsExclusive *bool             `json:"is_exclusive"`
	Notes       string            `json:"notes"`
	SortOrder   *int              `json:"sort_order"`
	Attributes  string            `json:"attributes"`
	Children    []ChildRowRequest `json:"children"`
}

// UpdateRecordRequest represents a partial update of a record. Child rows
// without an id are inserted, rows with an id are updated, and ids listed
// in RemoveChildIDs are soft-deleted, all in the same transaction.
type UpdateRecordRequest struct {
	Code           *string           `json:"code" binding:"omitempty,recordcode"`
	Name           *string           `json:"name" binding:"omitempty,min=1,max=200"`
	ShortName      *string           `json:"short_name" binding:"omitempty,max=100"`
	Description    *string           `json:"description"`
	ContactName    *string           `json:"contact_name" binding:"omitempty,max=100"`
	Phone          *string           `json:"phone" binding:"omitempty,max=50"`
	Email          *string           `json:"email" binding:"omitempty,email,max=200"`
	Address        *string           `json:"address" binding:"omitempty,max=500"`
	ParentID       *uuid.UUID        `json:"parent_id"`
	RefID          *uuid.UUID        `json:"ref_id"`
	Factor         *decimal.Decimal  `json:"factor"`
	IsExclusive    *bool             `json:"is_exclusive"`
	Notes          *string           `json:"notes"`
	SortOrder      *int              `json:"sort_order"`
	Attributes     *string           `json:"attributes"`
	Children       []ChildRowRequest `json:"children"`
	RemoveChildIDs []uuid.UUID       `json:"remove_child_ids"`
}

// ChildRowRequest represents an owned sub-record in a create or update
// payload, e.g. a product unit row under a product
type ChildRowRequest struct {
	ID     *uuid.UUID       `json:"id"`
	Code   string           `json:"code"`
	Name   string           `json:"name" binding:"required,min=1,max=200"`
	RefID  *uuid.UUID       `json:"ref_id"`
	Factor *decimal.Decimal `json:"factor"`
}

// ListRecordsRequest represents list/filter parameters for a kind
type ListRecordsRequest struct {
	Search         string      `form:"search"`
	Status         string      `form:"status" binding:"omitempty,oneof=active inactive"`
	ParentID       *uuid.UUID  `form:"parent_id"`
	PinnedIDs      []uuid.UUID `form:"pinned_ids"`
	IncludeDeleted bool        `form:"include_deleted"`
	Paginate       *bool       `form:"paginate"`
	Page           int         `form:"page" binding:"omitempty,min=1"`
	PageSize       int         `form:"page_size" binding:"omitempty,min=1,max=100"`
	Limit          int         `form:"limit" binding:"omitempty,min=1,max=500"`
	UseCache       bool        `form:"use_cache"`
}

// RecordResponse represents a record in API responses
type RecordResponse struct {
	ID          uuid.UUID        `json:"id"`
	ScopeID     uuid.UUID        `json:"scope_id"`
	Kind        string           `json:"kind"`
	Code        string           `json:"code"`
	Name        string           `json:"name"`
	ShortName   string           `json:"short_name,omitempty"`
	Description string           `json:"description,omitempty"`
	Status      string           `json:"status"`
	IsExclusive bool             `json:"is_exclusive"`
	ParentID    *uuid.UUID       `json:"parent_id,omitempty"`
	RefID       *uuid.UUID       `json:"ref_id,omitempty"`
	Factor      decimal.Decimal  `json:"factor"`
	ContactName string           `json:"contact_name,omitempty"`
	Phone       string           `json:"phone,omitempty"`
	Email       string           `json:"email,omitempty"`
	Address     string           `json:"address,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	SortOrder   int              `json:"sort_order"`
	Attributes  string           `json:"attributes,omitempty"`
	Deleted     bool             `json:"deleted,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	Version     int              `json:"version"`
	Children    []RecordResponse `json:"children,omitempty"`
}

// ToRecordResponse converts a domain Record to RecordResponse
func ToRecordResponse(r *masterdata.Record) RecordResponse {
	return RecordResponse{
		ID:          r.ID,
		ScopeID:     r.ScopeID,
		Kind:        string(r.Kind),
		Code:        r.Code,
		Name:        r.Name,
		ShortName:   r.ShortName,
		Description: r.Description,
		Status:      string(r.Status),
		IsExclusive: r.IsExclusive,
		ParentID:    r.ParentID,
		RefID:       r.RefID,
		Factor:      r.Factor,
		ContactName: r.ContactName,
		Phone:       r.Phone,
		Email:       r.Email,
		Address:     r.Address,
		Notes:       r.Notes,
		SortOrder:   r.SortOrder,
		Attributes:  r.Attributes,
		Deleted:     r.IsDeleted(),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		Version:     r.Version,
	}
}

// ToRecordResponses converts a slice of domain Records
func ToRecordResponses(records []masterdata.Record) []RecordResponse {
	responses := make([]RecordResponse, len(records))
	for i := range records {
		responses[i] = ToRecordResponse(&records[i])
	}
	return responses
}

// ToQuery converts list parameters to a domain query
func (r ListRecordsRequest) ToQuery() masterdata.Query {
	q := masterdata.DefaultQuery()
	q.Search = r.Search
	if r.Status != "" {
		status := masterdata.Status(r.Status)
		q.Status = &status
	}
	q.ParentID = r.ParentID
	q.PinnedIDs = r.PinnedIDs
	q.IncludeDeleted = r.IncludeDeleted
	if r.Paginate != nil {
		q.Paginate = *r.Paginate
	}
	if r.Page > 0 {
		q.Page = r.Page
	}
	if r.PageSize > 0 {
		q.PageSize = r.PageSize
	}
	if !q.Paginate {
		q.Limit = r.Limit
		if q.Limit <= 0 {
			q.Limit = 100
		}
	}
	return q
}
