package shared

import (
	"time"

	"github.com/google/uuid"
)

// AggregateRoot is what the transactional outbox needs from a workflow
// record: the domain events accumulated since it was loaded or created.
type AggregateRoot interface {
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// ProcessRecord carries the persistence identity shared by every aggregate of
// the workflow: supply cases, execution documents, signing tasks and budget
// allocations. Version is bumped on every state transition so concurrent
// writers of the same record conflict at the database instead of silently
// overwriting each other.
type ProcessRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:1"`

	domainEvents []DomainEvent `gorm:"-"`
}

// NewProcessRecord mints identity and timestamps for a new aggregate
func NewProcessRecord() ProcessRecord {
	now := time.Now()
	return ProcessRecord{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}
}

// Touch records a state transition: refreshes UpdatedAt and bumps the version
func (r *ProcessRecord) Touch() {
	r.UpdatedAt = time.Now()
	r.Version++
}

// AddDomainEvent queues a domain event for the transactional outbox
func (r *ProcessRecord) AddDomainEvent(event DomainEvent) {
	r.domainEvents = append(r.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (r *ProcessRecord) GetDomainEvents() []DomainEvent {
	return r.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (r *ProcessRecord) ClearDomainEvents() {
	r.domainEvents = nil
}
