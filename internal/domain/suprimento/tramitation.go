package suprimento

import (
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/google/uuid"
)

// TramitationEntry is one immutable audit-trail record of a custody move.
// Entries are append-only: they are never updated or deleted.
type TramitationEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	CaseID      uuid.UUID `gorm:"type:uuid;not null;index"`
	FromCustody Custody   `gorm:"type:varchar(20);not null"`
	ToCustody   Custody   `gorm:"type:varchar(20);not null"`
	ActorID     uuid.UUID `gorm:"type:uuid;not null"`
	Note        string    `gorm:"type:varchar(1000)"`
	CreatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TramitationEntry) TableName() string {
	return "tramitation_entries"
}

// NewTramitationEntry appends a custody-move record to a case's trail
func NewTramitationEntry(caseID uuid.UUID, from, to Custody, actorID uuid.UUID, note string) (*TramitationEntry, error) {
	if caseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CASE", "Case ID cannot be empty")
	}
	if !from.IsValid() || !to.IsValid() {
		return nil, shared.NewDomainError("INVALID_CUSTODY", "Custody roles must be valid")
	}
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor ID cannot be empty")
	}

	return &TramitationEntry{
		ID:          uuid.New(),
		CaseID:      caseID,
		FromCustody: from,
		ToCustody:   to,
		ActorID:     actorID,
		Note:        note,
		CreatedAt:   time.Now(),
	}, nil
}
