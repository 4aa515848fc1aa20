package suprimento

import (
	"fmt"
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SigningTaskStatus represents the status of a pending-signature work unit
type SigningTaskStatus string

const (
	SigningTaskPending  SigningTaskStatus = "PENDING"
	SigningTaskSigned   SigningTaskStatus = "SIGNED"
	SigningTaskRejected SigningTaskStatus = "REJECTED"
	SigningTaskSentBack SigningTaskStatus = "SENT_BACK"
)

// IsValid checks if the status is a valid SigningTaskStatus
func (s SigningTaskStatus) IsValid() bool {
	switch s {
	case SigningTaskPending, SigningTaskSigned, SigningTaskRejected, SigningTaskSentBack:
		return true
	}
	return false
}

// String returns the string representation of SigningTaskStatus
func (s SigningTaskStatus) String() string {
	return string(s)
}

// IsResolved returns true once the task no longer awaits a signer action
func (s SigningTaskStatus) IsResolved() bool {
	return s != SigningTaskPending
}

// SigningTask is one unit of pending-signature work created when a case's
// documents are routed to the finance office. Signing the task is what
// drives the referenced document to SIGNED.
type SigningTask struct {
	shared.ProcessRecord
	CaseID       uuid.UUID         `gorm:"type:uuid;not null;index"`
	DocumentID   uuid.UUID         `gorm:"type:uuid;not null;index"`
	DocumentKind DocumentKind      `gorm:"type:varchar(30);not null"`
	OriginRole   Custody           `gorm:"type:varchar(20);not null"`
	Amount       *decimal.Decimal  `gorm:"type:decimal(18,2)"`
	Status       SigningTaskStatus `gorm:"type:varchar(15);not null;default:'PENDING';index"`
	SignedBy     *uuid.UUID        `gorm:"type:uuid"`
	SignedAt     *time.Time
	Reason       string `gorm:"type:varchar(500)"` // Rejection / send-back reason
}

// TableName returns the table name for GORM
func (SigningTask) TableName() string {
	return "signing_tasks"
}

// NewSigningTask creates a pending task for a routed document
func NewSigningTask(doc *ExecutionDocument, origin Custody) (*SigningTask, error) {
	if doc == nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document is required")
	}
	if !origin.IsValid() {
		return nil, shared.NewDomainError("INVALID_CUSTODY", "Origin custody is not valid")
	}

	task := &SigningTask{
		ProcessRecord: shared.NewProcessRecord(),
		CaseID:        doc.CaseID,
		DocumentID:    doc.ID,
		DocumentKind:  doc.Kind,
		OriginRole:    origin,
		Status:        SigningTaskPending,
	}
	if doc.Amount != nil {
		a := *doc.Amount
		task.Amount = &a
	}
	return task, nil
}

// MarkSigned resolves the task after its document was signed.
// A task already signed is a no-op success, mirroring document signing.
func (t *SigningTask) MarkSigned(signerID uuid.UUID) error {
	if t.Status == SigningTaskSigned {
		return nil
	}
	if t.Status != SigningTaskPending {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot sign task in %s status", t.Status))
	}
	if signerID == uuid.Nil {
		return shared.NewDomainError("INVALID_SIGNER", "Signer ID is required")
	}

	now := time.Now()
	t.Status = SigningTaskSigned
	t.SignedBy = &signerID
	t.SignedAt = &now
	t.Touch()
	return nil
}

// Reject resolves the task with a mandatory reason; the referenced document
// stays in its current state
func (t *SigningTask) Reject(reason string) error {
	if t.Status != SigningTaskPending {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot reject task in %s status", t.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}

	t.Status = SigningTaskRejected
	t.Reason = reason
	t.Touch()
	return nil
}

// SendBack resolves the task by returning it to the origin role
func (t *SigningTask) SendBack(reason string) error {
	if t.Status != SigningTaskPending {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot send back task in %s status", t.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Send-back reason is required")
	}

	t.Status = SigningTaskSentBack
	t.Reason = reason
	t.Touch()
	return nil
}
