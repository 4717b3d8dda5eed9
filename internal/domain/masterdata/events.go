package masterdata

import (
	"github.com/bizcore/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant for Record
const AggregateTypeRecord = "Record"

// Event type constants for Record
const (
	EventTypeRecordCreated       = "RecordCreated"
	EventTypeRecordUpdated       = "RecordUpdated"
	EventTypeRecordStatusChanged = "RecordStatusChanged"
	EventTypeRecordSetExclusive  = "RecordSetExclusive"
	EventTypeRecordDeleted       = "RecordDeleted"
)

// RecordCreatedEvent is published when a new record is created
type RecordCreatedEvent struct {
	shared.BaseDomainEvent
	RecordID uuid.UUID `json:"record_id"`
	Kind     Kind      `json:"kind"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
}

// NewRecordCreatedEvent creates a new RecordCreatedEvent
func NewRecordCreatedEvent(record *Record) *RecordCreatedEvent {
	return &RecordCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordCreated, AggregateTypeRecord, record.ID, record.ScopeID),
		RecordID:        record.ID,
		Kind:            record.Kind,
		Code:            record.Code,
		Name:            record.Name,
	}
}

// RecordUpdatedEvent is published when a record is updated
type RecordUpdatedEvent struct {
	shared.BaseDomainEvent
	RecordID uuid.UUID `json:"record_id"`
	Kind     Kind      `json:"kind"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
}

// NewRecordUpdatedEvent creates a new RecordUpdatedEvent
func NewRecordUpdatedEvent(record *Record) *RecordUpdatedEvent {
	return &RecordUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordUpdated, AggregateTypeRecord, record.ID, record.ScopeID),
		RecordID:        record.ID,
		Kind:            record.Kind,
		Code:            record.Code,
		Name:            record.Name,
	}
}

// RecordStatusChangedEvent is published when a record's status changes
type RecordStatusChangedEvent struct {
	shared.BaseDomainEvent
	RecordID  uuid.UUID `json:"record_id"`
	Kind      Kind      `json:"kind"`
	Code      string    `json:"code"`
	OldStatus Status    `json:"old_status"`
	NewStatus Status    `json:"new_status"`
}

// NewRecordStatusChangedEvent creates a new RecordStatusChangedEvent
func NewRecordStatusChangedEvent(record *Record, oldStatus, newStatus Status) *RecordStatusChangedEvent {
	return &RecordStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordStatusChanged, AggregateTypeRecord, record.ID, record.ScopeID),
		RecordID:        record.ID,
		Kind:            record.Kind,
		Code:            record.Code,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}

// RecordSetExclusiveEvent is published when a record becomes the scope's
// flagged record
type RecordSetExclusiveEvent struct {
	shared.BaseDomainEvent
	RecordID uuid.UUID `json:"record_id"`
	Kind     Kind      `json:"kind"`
	Code     string    `json:"code"`
}

// NewRecordSetExclusiveEvent creates a new RecordSetExclusiveEvent
func NewRecordSetExclusiveEvent(record *Record) *RecordSetExclusiveEvent {
	return &RecordSetExclusiveEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordSetExclusive, AggregateTypeRecord, record.ID, record.ScopeID),
		RecordID:        record.ID,
		Kind:            record.Kind,
		Code:            record.Code,
	}
}

// RecordDeletedEvent is published when a record is soft-deleted
type RecordDeletedEvent struct {
	shared.BaseDomainEvent
	RecordID uuid.UUID `json:"record_id"`
	Kind     Kind      `json:"kind"`
	Code     string    `json:"code"`
}

// NewRecordDeletedEvent creates a new RecordDeletedEvent
func NewRecordDeletedEvent(record *Record) *RecordDeletedEvent {
	return &RecordDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRecordDeleted, AggregateTypeRecord, record.ID, record.ScopeID),
		RecordID:        record.ID,
		Kind:            record.Kind,
		Code:            record.Code,
	}
}
