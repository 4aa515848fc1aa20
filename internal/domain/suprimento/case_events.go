package suprimento

import (
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CaseCreatedEvent is raised when a new supply case is created
type CaseCreatedEvent struct {
	shared.BaseDomainEvent
	CaseID         uuid.UUID       `json:"case_id"`
	ProtocolNumber string          `json:"protocol_number"`
	RequesterID    uuid.UUID       `json:"requester_id"`
	BudgetCode     string          `json:"budget_code"`
	RequestedValue decimal.Decimal `json:"requested_value"`
}

// EventType returns the event type name
func (e *CaseCreatedEvent) EventType() string {
	return "SupplyCaseCreated"
}

// NewCaseCreatedEvent creates a new CaseCreatedEvent
func NewCaseCreatedEvent(c *Case) *CaseCreatedEvent {
	return &CaseCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SupplyCaseCreated", "SupplyCase", c.ID),
		CaseID:          c.ID,
		ProtocolNumber:  c.ProtocolNumber,
		RequesterID:     c.RequesterID,
		BudgetCode:      c.BudgetCode,
		RequestedValue:  c.RequestedValue,
	}
}

// CaseAttestedEvent is raised when the manager attests a supply case
type CaseAttestedEvent struct {
	shared.BaseDomainEvent
	CaseID         uuid.UUID `json:"case_id"`
	ProtocolNumber string    `json:"protocol_number"`
	AttestedBy     uuid.UUID `json:"attested_by"`
	AttestedAt     time.Time `json:"attested_at"`
}

// EventType returns the event type name
func (e *CaseAttestedEvent) EventType() string {
	return "SupplyCaseAttested"
}

// NewCaseAttestedEvent creates a new CaseAttestedEvent
func NewCaseAttestedEvent(c *Case, attestedBy uuid.UUID) *CaseAttestedEvent {
	attestedAt := time.Now()
	if c.AttestedAt != nil {
		attestedAt = *c.AttestedAt
	}
	return &CaseAttestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SupplyCaseAttested", "SupplyCase", c.ID),
		CaseID:          c.ID,
		ProtocolNumber:  c.ProtocolNumber,
		AttestedBy:      attestedBy,
		AttestedAt:      attestedAt,
	}
}

// CustodyTransferredEvent is raised when a case changes institutional custody.
// The outbox processor turns this into the NotifyCustodyChange call.
type CustodyTransferredEvent struct {
	shared.BaseDomainEvent
	CaseID         uuid.UUID `json:"case_id"`
	ProtocolNumber string    `json:"protocol_number"`
	FromCustody    Custody   `json:"from_custody"`
	ToCustody      Custody   `json:"to_custody"`
}

// EventType returns the event type name
func (e *CustodyTransferredEvent) EventType() string {
	return "CaseCustodyTransferred"
}

// NewCustodyTransferredEvent creates a new CustodyTransferredEvent
func NewCustodyTransferredEvent(c *Case, from, to Custody) *CustodyTransferredEvent {
	return &CustodyTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CaseCustodyTransferred", "SupplyCase", c.ID),
		CaseID:          c.ID,
		ProtocolNumber:  c.ProtocolNumber,
		FromCustody:     from,
		ToCustody:       to,
	}
}

// FundsReleasedEvent is raised when the payment order is executed and funds leave
type FundsReleasedEvent struct {
	shared.BaseDomainEvent
	CaseID         uuid.UUID       `json:"case_id"`
	ProtocolNumber string          `json:"protocol_number"`
	ApprovedValue  decimal.Decimal `json:"approved_value"`
}

// EventType returns the event type name
func (e *FundsReleasedEvent) EventType() string {
	return "SupplyCaseFundsReleased"
}

// NewFundsReleasedEvent creates a new FundsReleasedEvent
func NewFundsReleasedEvent(c *Case) *FundsReleasedEvent {
	return &FundsReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SupplyCaseFundsReleased", "SupplyCase", c.ID),
		CaseID:          c.ID,
		ProtocolNumber:  c.ProtocolNumber,
		ApprovedValue:   c.ApprovedValue,
	}
}

// CaseArchivedEvent is raised when a case reaches its terminal state
type CaseArchivedEvent struct {
	shared.BaseDomainEvent
	CaseID         uuid.UUID `json:"case_id"`
	ProtocolNumber string    `json:"protocol_number"`
}

// EventType returns the event type name
func (e *CaseArchivedEvent) EventType() string {
	return "SupplyCaseArchived"
}

// NewCaseArchivedEvent creates a new CaseArchivedEvent
func NewCaseArchivedEvent(c *Case) *CaseArchivedEvent {
	return &CaseArchivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SupplyCaseArchived", "SupplyCase", c.ID),
		CaseID:          c.ID,
		ProtocolNumber:  c.ProtocolNumber,
	}
}
