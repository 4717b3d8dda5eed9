package masterdata

import (
	"strings"
	"time"

	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Status represents the lifecycle status of a record
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Record is the generic master-data aggregate shared by all managed kinds.
// The kind-specific behavior (code prefix, searchable columns, parent/child
// relationships, exclusivity flag) comes from the kind's Descriptor.
//
// The partial unique index on (scope_id, kind, code) among live rows is the
// database backstop for concurrent creates that race the allocator's
// count-then-insert step.
type Record struct {
	shared.ScopedAggregateRoot
	Kind        Kind            `gorm:"type:varchar(30);not null;index:idx_records_scope_kind_code,unique,where:deleted_at IS NULL,priority:2"`
	Code        string          `gorm:"type:varchar(50);not null;index:idx_records_scope_kind_code,unique,where:deleted_at IS NULL,priority:3"`
	Name        string          `gorm:"type:varchar(200);not null"`
	ShortName   string          `gorm:"type:varchar(100)"`
	Description string          `gorm:"type:text"`
	Status      Status          `gorm:"type:varchar(20);not null;default:'active'"`
	IsExclusive bool            `gorm:"not null;default:false"` // main branch, default company, default warehouse
	ParentID    *uuid.UUID      `gorm:"type:uuid;index"`        // warehouse->branch, product->category, product_unit->product
	RefID       *uuid.UUID      `gorm:"type:uuid;index"`        // secondary reference, e.g. product_unit->unit
	Factor      decimal.Decimal `gorm:"type:decimal(20,8);not null;default:1"`
	ContactName string          `gorm:"type:varchar(100)"`
	Phone       string          `gorm:"type:varchar(50)"`
	Email       string          `gorm:"type:varchar(200)"`
	Address     string          `gorm:"type:text"`
	Notes       string          `gorm:"type:text"`
	SortOrder   int             `gorm:"not null;default:0"`
	Attributes  string          `gorm:"type:jsonb"`
	DeletedAt   gorm.DeletedAt  `gorm:"index"`
}

// TableName returns the table name for GORM
func (Record) TableName() string {
	return "records"
}

// ScopeID is inherited from ScopedAggregateRoot: the company that owns the
// record, or the user for company records.

// NewRecord creates a new record of the given kind with required fields.
// The code must already be resolved by the allocator.
func NewRecord(desc Descriptor, scopeID uuid.UUID, code, name string) (*Record, error) {
	if err := ValidateCode(code); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	record := &Record{
		ScopedAggregateRoot: shared.NewScopedAggregateRoot(scopeID),
		Kind:                desc.Kind,
		Code:                strings.ToUpper(code),
		Name:                name,
		Status:              StatusActive,
		Factor:              decimal.NewFromInt(1),
		Attributes:          "{}",
	}

	record.AddDomainEvent(NewRecordCreatedEvent(record))

	return record, nil
}

// Update updates the record's basic information
func (r *Record) Update(name, shortName, description string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if shortName != "" && len(shortName) > 100 {
		return shared.NewDomainError("INVALID_SHORT_NAME", "Short name cannot exceed 100 characters")
	}

	r.Name = name
	r.ShortName = shortName
	r.Description = description
	r.touch()

	r.AddDomainEvent(NewRecordUpdatedEvent(r))

	return nil
}

// UpdateCode replaces the record's code. The caller is responsible for
// resolving uniqueness through the allocator first.
func (r *Record) UpdateCode(code string) error {
	if err := ValidateCode(code); err != nil {
		return err
	}

	r.Code = strings.ToUpper(code)
	r.touch()

	r.AddDomainEvent(NewRecordUpdatedEvent(r))

	return nil
}

// SetContact sets the record's contact information
func (r *Record) SetContact(contactName, phone, email string) error {
	if contactName != "" && len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if email != "" && (len(email) > 200 || !strings.Contains(email, "@")) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}

	r.ContactName = contactName
	r.Phone = phone
	r.Email = email
	r.touch()

	return nil
}

// SetAddress sets the record's address
func (r *Record) SetAddress(address string) error {
	if len(address) > 500 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	r.Address = address
	r.touch()

	return nil
}

// SetParent links the record to its parent record (already scope-checked)
func (r *Record) SetParent(parentID *uuid.UUID) {
	r.ParentID = parentID
	r.touch()
}

// SetRef links the record to its secondary reference, e.g. the unit a
// product unit converts to
func (r *Record) SetRef(refID *uuid.UUID) {
	r.RefID = refID
	r.touch()
}

// SetFactor sets the unit conversion factor
func (r *Record) SetFactor(factor decimal.Decimal) error {
	if factor.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_FACTOR", "Conversion factor must be positive")
	}

	r.Factor = factor
	r.touch()

	return nil
}

// SetExclusive marks or unmarks this record as the scope's flagged record.
// Clearing sibling flags first is the mutator's responsibility.
func (r *Record) SetExclusive(exclusive bool) {
	r.IsExclusive = exclusive
	r.touch()

	if exclusive {
		r.AddDomainEvent(NewRecordSetExclusiveEvent(r))
	}
}

// SetNotes sets the record's notes
func (r *Record) SetNotes(notes string) {
	r.Notes = notes
	r.touch()
}

// SetSortOrder sets the display order
func (r *Record) SetSortOrder(order int) {
	r.SortOrder = order
	r.touch()
}

// SetAttributes sets custom attributes as JSON
func (r *Record) SetAttributes(attributes string) error {
	if attributes == "" {
		attributes = "{}"
	}
	trimmed := strings.TrimSpace(attributes)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return shared.NewDomainError("INVALID_ATTRIBUTES", "Attributes must be valid JSON object")
	}

	r.Attributes = trimmed
	r.touch()

	return nil
}

// Enable makes the record active
func (r *Record) Enable() error {
	if r.Status == StatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Record is already active")
	}

	oldStatus := r.Status
	r.Status = StatusActive
	r.touch()

	r.AddDomainEvent(NewRecordStatusChangedEvent(r, oldStatus, StatusActive))

	return nil
}

// Disable makes the record inactive. The scope's flagged record cannot be
// deactivated while it holds the flag.
func (r *Record) Disable() error {
	if r.Status == StatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Record is already inactive")
	}
	if r.IsExclusive {
		return shared.NewDomainError("INVALID_STATE", "Cannot deactivate the scope's flagged record")
	}

	oldStatus := r.Status
	r.Status = StatusInactive
	r.touch()

	r.AddDomainEvent(NewRecordStatusChangedEvent(r, oldStatus, StatusInactive))

	return nil
}

// IsActive returns true if the record is active
func (r *Record) IsActive() bool {
	return r.Status == StatusActive
}

// IsDeleted returns true if the record is soft-deleted
func (r *Record) IsDeleted() bool {
	return r.DeletedAt.Valid
}

func (r *Record) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// ValidateCode checks the shared code format rules
func ValidateCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Code cannot exceed 50 characters")
	}
	for _, c := range code {
		if !((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' || c == '-') {
			return shared.NewDomainError("INVALID_CODE", "Code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}
