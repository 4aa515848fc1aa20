package suprimento

import (
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentGeneratedEvent is raised when an execution document is drafted
type DocumentGeneratedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID        `json:"document_id"`
	CaseID     uuid.UUID        `json:"case_id"`
	Kind       DocumentKind     `json:"kind"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
}

// EventType returns the event type name
func (e *DocumentGeneratedEvent) EventType() string {
	return "ExecutionDocumentGenerated"
}

// NewDocumentGeneratedEvent creates a new DocumentGeneratedEvent
func NewDocumentGeneratedEvent(doc *ExecutionDocument) *DocumentGeneratedEvent {
	return &DocumentGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ExecutionDocumentGenerated", "ExecutionDocument", doc.ID),
		DocumentID:      doc.ID,
		CaseID:          doc.CaseID,
		Kind:            doc.Kind,
		Amount:          doc.Amount,
	}
}

// DocumentSignedEvent is raised when an execution document is signed.
// The outbox processor turns this into the NotifyDocumentSigned call.
type DocumentSignedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID    `json:"document_id"`
	CaseID     uuid.UUID    `json:"case_id"`
	Kind       DocumentKind `json:"kind"`
	SignerID   uuid.UUID    `json:"signer_id"`
	SignedAt   time.Time    `json:"signed_at"`
}

// EventType returns the event type name
func (e *DocumentSignedEvent) EventType() string {
	return "ExecutionDocumentSigned"
}

// NewDocumentSignedEvent creates a new DocumentSignedEvent
func NewDocumentSignedEvent(doc *ExecutionDocument, signerID uuid.UUID) *DocumentSignedEvent {
	signedAt := time.Now()
	if doc.SignedAt != nil {
		signedAt = *doc.SignedAt
	}
	return &DocumentSignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ExecutionDocumentSigned", "ExecutionDocument", doc.ID),
		DocumentID:      doc.ID,
		CaseID:          doc.CaseID,
		Kind:            doc.Kind,
		SignerID:        signerID,
		SignedAt:        signedAt,
	}
}

// BudgetCommittedEvent is raised when a commitment lands on a budget allocation
type BudgetCommittedEvent struct {
	shared.BaseDomainEvent
	BudgetCode   string          `json:"budget_code"`
	CaseID       uuid.UUID       `json:"case_id"`
	Amount       decimal.Decimal `json:"amount"`
	NewCommitted decimal.Decimal `json:"new_committed"`
}

// EventType returns the event type name
func (e *BudgetCommittedEvent) EventType() string {
	return "BudgetCommitted"
}

// NewBudgetCommittedEvent creates a new BudgetCommittedEvent
func NewBudgetCommittedEvent(code string, caseID uuid.UUID, amount, newCommitted decimal.Decimal) *BudgetCommittedEvent {
	return &BudgetCommittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BudgetCommitted", "BudgetAllocation", caseID),
		BudgetCode:      code,
		CaseID:          caseID,
		Amount:          amount,
		NewCommitted:    newCommitted,
	}
}
