package suprimento

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared/valueobject"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// WorkflowService drives the ordered generation and signing of the five
// execution documents of a case
type WorkflowService struct {
	caseRepo   suprimento.CaseRepository
	docRepo    suprimento.ExecutionDocumentRepository
	outbox     shared.OutboxRepository
	regularity suprimento.RegularityChecker
	ledger     *BudgetLedger
	workflow   *suprimento.DocumentWorkflow
	logger     *zap.Logger
	metrics    WorkflowMetrics
}

// SetMetrics wires a business-metrics recorder into the service
func (s *WorkflowService) SetMetrics(m WorkflowMetrics) {
	s.metrics = m
}

// Workflow exposes the underlying document workflow so the tramitation
// service shares the same rules instance
func (s *WorkflowService) Workflow() *suprimento.DocumentWorkflow {
	return s.workflow
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(
	caseRepo suprimento.CaseRepository,
	docRepo suprimento.ExecutionDocumentRepository,
	outbox shared.OutboxRepository,
	regularity suprimento.RegularityChecker,
	ledger *BudgetLedger,
	logger *zap.Logger,
) *WorkflowService {
	return &WorkflowService{
		caseRepo:   caseRepo,
		docRepo:    docRepo,
		outbox:     outbox,
		regularity: regularity,
		ledger:     ledger,
		workflow:   suprimento.NewDocumentWorkflow(regularity, ledger),
		logger:     logger,
	}
}

// DocumentResponse represents an execution document in API responses
type DocumentResponse struct {
	ID        uuid.UUID        `json:"id"`
	CaseID    uuid.UUID        `json:"case_id"`
	Kind      string           `json:"kind"`
	KindName  string           `json:"kind_name"`
	Sequence  int              `json:"sequence"`
	Status    string           `json:"status"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	FormData  json.RawMessage  `json:"form_data,omitempty"`
	SignerID  *uuid.UUID       `json:"signer_id,omitempty"`
	SignedAt  *time.Time       `json:"signed_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Version   int              `json:"version"`
}

// GenerateDocumentRequest represents a request to draft a document.
// Amount is required for the settlement document and the payment order;
// the commitment note defaults to the case's approved value.
type GenerateDocumentRequest struct {
	Kind           string           `json:"kind" binding:"required"`
	Amount         *decimal.Decimal `json:"amount"`
	FormData       json.RawMessage  `json:"form_data"`
	OverrideReason string           `json:"override_reason"`
}

// SignDocumentRequest represents a request to sign a drafted document
type SignDocumentRequest struct {
	SignerID uuid.UUID `json:"-"` // Set from JWT context, not from request body
}

// DocumentAvailability reports, per kind, whether drafting is currently allowed
type DocumentAvailability struct {
	Kind     string `json:"kind"`
	KindName string `json:"kind_name"`
	Sequence int    `json:"sequence"`
	Status   string `json:"status"`
	CanDraft bool   `json:"can_draft"`
	Reason   string `json:"reason,omitempty"`
}

// ListDocuments returns the case's documents in generation order
func (s *WorkflowService) ListDocuments(ctx context.Context, caseID uuid.UUID) ([]DocumentResponse, error) {
	if _, err := s.loadCase(ctx, caseID); err != nil {
		return nil, err
	}
	docs, err := s.docRepo.FindByCase(ctx, caseID)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}

	set := suprimento.NewDocumentSet(docs)
	responses := make([]DocumentResponse, 0, len(docs))
	for _, kind := range suprimento.AllDocumentKinds() {
		if doc, ok := set[kind]; ok {
			responses = append(responses, *toDocumentResponse(doc))
		}
	}
	return responses, nil
}

// Availability reports the drafting state of all five kinds at once
func (s *WorkflowService) Availability(ctx context.Context, caseID uuid.UUID) ([]DocumentAvailability, error) {
	if _, err := s.loadCase(ctx, caseID); err != nil {
		return nil, err
	}
	docs, err := s.loadDocuments(ctx, caseID)
	if err != nil {
		return nil, err
	}

	availability := make([]DocumentAvailability, 0, 5)
	for _, kind := range suprimento.AllDocumentKinds() {
		can, reason := s.workflow.CanGenerate(docs, kind)
		availability = append(availability, DocumentAvailability{
			Kind:     kind.String(),
			KindName: kind.DisplayName(),
			Sequence: kind.Sequence(),
			Status:   docs.StatusOf(kind).String(),
			CanDraft: can,
			Reason:   reason,
		})
	}
	return availability, nil
}

// GenerateDocument drafts the next document of the workflow. Generating the
// commitment note books the amount against the budget ledger and freezes the
// case's approved value.
func (s *WorkflowService) GenerateDocument(ctx context.Context, caseID uuid.UUID, req GenerateDocumentRequest) (*DocumentResponse, error) {
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	docs, err := s.loadDocuments(ctx, caseID)
	if err != nil {
		return nil, err
	}

	kind := suprimento.DocumentKind(req.Kind)
	amount := s.resolveAmount(c, kind, req.Amount)

	workflow := s.workflow
	if req.OverrideReason != "" {
		workflow = suprimento.NewDocumentWorkflow(s.regularity,
			overrideCommitter{ledger: s.ledger, reason: req.OverrideReason})
	}

	doc, err := workflow.Generate(ctx, c, docs, kind, amount, req.FormData)
	if err != nil {
		if s.metrics != nil && kind == suprimento.KindCommitmentNote && shared.HasErrorCode(err, shared.CodeBudgetExceeded) {
			s.metrics.RecordBudgetCommit(ctx, c.BudgetCode, "rejected")
		}
		return nil, err
	}

	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if err := s.caseRepo.Save(ctx, c); err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if err := enqueueEvents(ctx, s.outbox, c, doc); err != nil {
		return nil, err
	}

	s.logger.Info("Execution document drafted",
		zap.String("protocol", c.ProtocolNumber),
		zap.String("kind", kind.String()),
	)

	if s.metrics != nil {
		s.metrics.RecordDocumentGenerated(ctx, kind.String())
		if kind == suprimento.KindCommitmentNote {
			s.metrics.RecordBudgetCommit(ctx, c.BudgetCode, "ok")
		}
	}

	return toDocumentResponse(doc), nil
}

// SignDocument transitions a document DRAFTED -> SIGNED. Settlement and
// payment documents must pass the triple reconciliation check first.
// Signing an already-signed document succeeds without effect.
func (s *WorkflowService) SignDocument(ctx context.Context, caseID, documentID uuid.UUID, req SignDocumentRequest) (*DocumentResponse, error) {
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	docs, err := s.loadDocuments(ctx, caseID)
	if err != nil {
		return nil, err
	}

	doc, err := s.docRepo.FindByID(ctx, documentID)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if doc == nil || doc.CaseID != caseID {
		return nil, shared.NewDomainError("NOT_FOUND", "Execution document not found")
	}

	if err := s.workflow.Sign(c, docs, doc, req.SignerID); err != nil {
		return nil, err
	}

	if err := s.docRepo.Save(ctx, doc); err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if err := enqueueEvents(ctx, s.outbox, doc); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordDocumentSigned(ctx, doc.Kind.String())
	}

	return toDocumentResponse(doc), nil
}

// ReconciliationReport runs the read-only triple check over the case's
// current amounts
func (s *WorkflowService) ReconciliationReport(ctx context.Context, caseID uuid.UUID) (*suprimento.TripleCheckReport, error) {
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	docs, err := s.loadDocuments(ctx, caseID)
	if err != nil {
		return nil, err
	}

	report := s.workflow.Reconcile(c, docs)
	return &report, nil
}

// resolveAmount fills the default amount for kinds where one is implied:
// the commitment note always books the approved value
func (s *WorkflowService) resolveAmount(c *suprimento.Case, kind suprimento.DocumentKind, requested *decimal.Decimal) *valueobject.Money {
	if requested != nil {
		m := valueobject.NewMoneyBRL(*requested)
		return &m
	}
	if kind == suprimento.KindCommitmentNote {
		m := c.GetApprovedValueMoney()
		return &m
	}
	return nil
}

func (s *WorkflowService) loadCase(ctx context.Context, id uuid.UUID) (*suprimento.Case, error) {
	c, err := s.caseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if c == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Supply case not found")
	}
	return c, nil
}

func (s *WorkflowService) loadDocuments(ctx context.Context, caseID uuid.UUID) (suprimento.DocumentSet, error) {
	docs, err := s.docRepo.FindByCase(ctx, caseID)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	return suprimento.NewDocumentSet(docs), nil
}

// toDocumentResponse converts a domain ExecutionDocument to DocumentResponse
func toDocumentResponse(doc *suprimento.ExecutionDocument) *DocumentResponse {
	return &DocumentResponse{
		ID:        doc.ID,
		CaseID:    doc.CaseID,
		Kind:      doc.Kind.String(),
		KindName:  doc.Kind.DisplayName(),
		Sequence:  doc.Kind.Sequence(),
		Status:    doc.Status.String(),
		Amount:    doc.Amount,
		FormData:  doc.FormData,
		SignerID:  doc.SignerID,
		SignedAt:  doc.SignedAt,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		Version:   doc.Version,
	}
}
