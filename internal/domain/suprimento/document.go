package suprimento

import (
	"fmt"
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentKind identifies one of the five ordered execution documents
type DocumentKind string

const (
	KindAuthorizationOrder    DocumentKind = "AUTHORIZATION_ORDER"    // Portaria de concessão
	KindRegularityCertificate DocumentKind = "REGULARITY_CERTIFICATE" // Certidão de regularidade
	KindCommitmentNote        DocumentKind = "COMMITMENT_NOTE"        // Nota de empenho (NE)
	KindSettlementDocument    DocumentKind = "SETTLEMENT_DOCUMENT"    // Documento de liquidação (DL)
	KindPaymentOrder          DocumentKind = "PAYMENT_ORDER"          // Ordem bancária (OB)
)

// documentSequence fixes the generation order of the five kinds
var documentSequence = []DocumentKind{
	KindAuthorizationOrder,
	KindRegularityCertificate,
	KindCommitmentNote,
	KindSettlementDocument,
	KindPaymentOrder,
}

// AllDocumentKinds returns the five kinds in their required order
func AllDocumentKinds() []DocumentKind {
	kinds := make([]DocumentKind, len(documentSequence))
	copy(kinds, documentSequence)
	return kinds
}

// IsValid checks if the kind is a valid DocumentKind
func (k DocumentKind) IsValid() bool {
	for _, kind := range documentSequence {
		if k == kind {
			return true
		}
	}
	return false
}

// String returns the string representation of DocumentKind
func (k DocumentKind) String() string {
	return string(k)
}

// DisplayName returns a human-readable name for the document kind
func (k DocumentKind) DisplayName() string {
	switch k {
	case KindAuthorizationOrder:
		return "Portaria de Concessão"
	case KindRegularityCertificate:
		return "Certidão de Regularidade"
	case KindCommitmentNote:
		return "Nota de Empenho"
	case KindSettlementDocument:
		return "Documento de Liquidação"
	case KindPaymentOrder:
		return "Ordem Bancária"
	default:
		return string(k)
	}
}

// Sequence returns the 1-based position of the kind in the required order,
// or 0 for an unknown kind
func (k DocumentKind) Sequence() int {
	for i, kind := range documentSequence {
		if k == kind {
			return i + 1
		}
	}
	return 0
}

// IsMonetary returns true for kinds that carry an amount
func (k DocumentKind) IsMonetary() bool {
	switch k {
	case KindCommitmentNote, KindSettlementDocument, KindPaymentOrder:
		return true
	}
	return false
}

// DocumentStatus represents the per-kind document lifecycle
type DocumentStatus string

const (
	DocumentStatusNotStarted DocumentStatus = "NOT_STARTED"
	DocumentStatusDrafted    DocumentStatus = "DRAFTED"
	DocumentStatusSigned     DocumentStatus = "SIGNED"
)

// IsValid checks if the status is a valid DocumentStatus
func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusNotStarted, DocumentStatusDrafted, DocumentStatusSigned:
		return true
	}
	return false
}

// String returns the string representation of DocumentStatus
func (s DocumentStatus) String() string {
	return string(s)
}

// AtLeastDrafted returns true for DRAFTED or SIGNED
func (s DocumentStatus) AtLeastDrafted() bool {
	return s == DocumentStatusDrafted || s == DocumentStatusSigned
}

// ExecutionDocument represents one document instance within a case.
// Documents are created already DRAFTED and are never deleted, only
// superseded by case archival.
type ExecutionDocument struct {
	shared.ProcessRecord
	CaseID   uuid.UUID        `gorm:"type:uuid;not null;index:idx_exec_doc_case_kind,unique,priority:1"`
	Kind     DocumentKind     `gorm:"type:varchar(30);not null;index:idx_exec_doc_case_kind,unique,priority:2"`
	Status   DocumentStatus   `gorm:"type:varchar(15);not null;default:'DRAFTED';index"`
	Amount   *decimal.Decimal `gorm:"type:decimal(18,2)"` // Nil for non-monetary kinds and legacy records
	FormData []byte           `gorm:"type:jsonb"`
	SignerID *uuid.UUID       `gorm:"type:uuid"`
	SignedAt *time.Time
}

// TableName returns the table name for GORM
func (ExecutionDocument) TableName() string {
	return "execution_documents"
}

// NewExecutionDocument creates a document in DRAFTED state.
// Prerequisite enforcement belongs to the DocumentWorkflow; this constructor
// only validates the document's own shape.
func NewExecutionDocument(caseID uuid.UUID, kind DocumentKind, amount *valueobject.Money, formData []byte) (*ExecutionDocument, error) {
	if caseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CASE", "Case ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", fmt.Sprintf("Unknown document kind %q", kind))
	}
	if kind.IsMonetary() {
		if amount == nil {
			return nil, shared.NewDomainError("INVALID_AMOUNT", fmt.Sprintf("%s requires an amount", kind.DisplayName()))
		}
		if !amount.IsPositive() {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Document amount must be positive")
		}
	}

	doc := &ExecutionDocument{
		ProcessRecord: shared.NewProcessRecord(),
		CaseID:        caseID,
		Kind:          kind,
		Status:        DocumentStatusDrafted,
		FormData:      formData,
	}
	if amount != nil {
		a := amount.Amount()
		doc.Amount = &a
	}

	doc.AddDomainEvent(NewDocumentGeneratedEvent(doc))

	return doc, nil
}

// GetAmountMoney returns the amount as Money, or nil when absent.
// Absence is distinct from zero: legacy records may have no amount at all.
func (d *ExecutionDocument) GetAmountMoney() *valueobject.Money {
	if d.Amount == nil {
		return nil
	}
	m := valueobject.NewMoneyBRL(*d.Amount)
	return &m
}

// IsSigned returns true if the document has been signed
func (d *ExecutionDocument) IsSigned() bool {
	return d.Status == DocumentStatusSigned
}

// MarkSigned transitions DRAFTED -> SIGNED.
// Signing an already-signed document is a no-op success so that two staff
// members racing on the same task cannot produce a duplicate mutation.
func (d *ExecutionDocument) MarkSigned(signerID uuid.UUID) error {
	if d.Status == DocumentStatusSigned {
		return nil
	}
	if d.Status != DocumentStatusDrafted {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			fmt.Sprintf("Cannot sign %s in %s status", d.Kind.DisplayName(), d.Status))
	}
	if signerID == uuid.Nil {
		return shared.NewDomainError("INVALID_SIGNER", "Signer ID is required")
	}

	now := time.Now()
	d.Status = DocumentStatusSigned
	d.SignerID = &signerID
	d.SignedAt = &now
	d.Touch()

	d.AddDomainEvent(NewDocumentSignedEvent(d, signerID))

	return nil
}

// DocumentSet is the per-case view of the five documents, keyed by kind.
// Kinds with no document yet are simply absent.
type DocumentSet map[DocumentKind]*ExecutionDocument

// NewDocumentSet builds a set from a slice of documents
func NewDocumentSet(docs []ExecutionDocument) DocumentSet {
	set := make(DocumentSet, len(docs))
	for i := range docs {
		set[docs[i].Kind] = &docs[i]
	}
	return set
}

// StatusOf returns the status of the given kind, NOT_STARTED when absent
func (s DocumentSet) StatusOf(kind DocumentKind) DocumentStatus {
	if doc, ok := s[kind]; ok {
		return doc.Status
	}
	return DocumentStatusNotStarted
}

// AmountOf returns the amount of the given kind, nil when the document is
// absent or carries no amount
func (s DocumentSet) AmountOf(kind DocumentKind) *decimal.Decimal {
	doc, ok := s[kind]
	if !ok || doc.Amount == nil {
		return nil
	}
	a := *doc.Amount
	return &a
}

// Has returns true if a document of the given kind exists (any status)
func (s DocumentSet) Has(kind DocumentKind) bool {
	_, ok := s[kind]
	return ok
}
