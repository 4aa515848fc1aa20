package suprimento

import (
	"context"
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TramitationService routes cases between institutional custodies and drives
// the pending-signature task batches of the finance office
type TramitationService struct {
	caseRepo suprimento.CaseRepository
	docRepo  suprimento.ExecutionDocumentRepository
	taskRepo suprimento.SigningTaskRepository
	tramRepo suprimento.TramitationRepository
	outbox   shared.OutboxRepository
	workflow *suprimento.DocumentWorkflow
	logger   *zap.Logger
	metrics  WorkflowMetrics
}

// SetMetrics wires a business-metrics recorder into the service
func (s *TramitationService) SetMetrics(m WorkflowMetrics) {
	s.metrics = m
}

// NewTramitationService creates a new TramitationService
func NewTramitationService(
	caseRepo suprimento.CaseRepository,
	docRepo suprimento.ExecutionDocumentRepository,
	taskRepo suprimento.SigningTaskRepository,
	tramRepo suprimento.TramitationRepository,
	outbox shared.OutboxRepository,
	workflow *suprimento.DocumentWorkflow,
	logger *zap.Logger,
) *TramitationService {
	return &TramitationService{
		caseRepo: caseRepo,
		docRepo:  docRepo,
		taskRepo: taskRepo,
		tramRepo: tramRepo,
		outbox:   outbox,
		workflow: workflow,
		logger:   logger,
	}
}

// SigningTaskResponse represents a pending-signature task in API responses
type SigningTaskResponse struct {
	ID           uuid.UUID        `json:"id"`
	CaseID       uuid.UUID        `json:"case_id"`
	DocumentID   uuid.UUID        `json:"document_id"`
	DocumentKind string           `json:"document_kind"`
	OriginRole   string           `json:"origin_role"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	Status       string           `json:"status"`
	SignedBy     *uuid.UUID       `json:"signed_by,omitempty"`
	SignedAt     *time.Time       `json:"signed_at,omitempty"`
	Reason       string           `json:"reason,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// RouteToFinanceRequest represents a request to route a case for signature
type RouteToFinanceRequest struct {
	Note    string    `json:"note"`
	ActorID uuid.UUID `json:"-"` // Set from JWT context, not from request body
}

// RouteToFinanceResponse carries the routed case and its new task batch
type RouteToFinanceResponse struct {
	Case  CaseResponse          `json:"case"`
	Tasks []SigningTaskResponse `json:"tasks"`
}

// SignTasksRequest represents a batch signing request
type SignTasksRequest struct {
	TaskIDs  []uuid.UUID `json:"task_ids" binding:"required,min=1"`
	SignerID uuid.UUID   `json:"-"` // Set from JWT context, not from request body
}

// SignTaskResult is the per-task outcome of a batch signing request.
// A batch never aborts: every task gets its own result.
type SignTaskResult struct {
	TaskID uuid.UUID `json:"task_id"`
	Status string    `json:"status"`
	Error  string    `json:"error,omitempty"`
}

// SignTasksResponse aggregates the per-task outcomes
type SignTasksResponse struct {
	Results []SignTaskResult `json:"results"`
	Signed  int              `json:"signed"`
	Failed  int              `json:"failed"`
}

// ReturnToOriginRequest sends a case back to the custody that routed it
type ReturnToOriginRequest struct {
	Reason  string    `json:"reason" binding:"required"`
	ActorID uuid.UUID `json:"-"` // Set from JWT context, not from request body
}

// TramitationEntryResponse represents one custody move in the audit trail
type TramitationEntryResponse struct {
	ID          uuid.UUID `json:"id"`
	CaseID      uuid.UUID `json:"case_id"`
	FromCustody string    `json:"from_custody"`
	ToCustody   string    `json:"to_custody"`
	ActorID     uuid.UUID `json:"actor_id"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// signatureBatch returns the document kinds a routing phase sends for
// signature: the first batch carries the granting documents, the final batch
// the settlement and payment pair.
func signatureBatch(status suprimento.CaseStatus) []suprimento.DocumentKind {
	if status == suprimento.CaseStatusAwaitingSettlement {
		return []suprimento.DocumentKind{
			suprimento.KindSettlementDocument,
			suprimento.KindPaymentOrder,
		}
	}
	return []suprimento.DocumentKind{
		suprimento.KindAuthorizationOrder,
		suprimento.KindRegularityCertificate,
		suprimento.KindCommitmentNote,
	}
}

// RouteToFinance transfers custody to the finance office and opens one
// signing task per drafted document of the current batch
func (s *TramitationService) RouteToFinance(ctx context.Context, caseID uuid.UUID, req RouteToFinanceRequest) (*RouteToFinanceResponse, error) {
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	docs, err := s.loadDocuments(ctx, caseID)
	if err != nil {
		return nil, err
	}

	switch c.Status {
	case suprimento.CaseStatusAttested, suprimento.CaseStatusInExecution:
		if !suprimento.RoutableToFinance(docs) {
			return nil, shared.NewDomainError(shared.CodeNotReady,
				"Authorization order, regularity certificate and commitment note must all be drafted before routing")
		}
	case suprimento.CaseStatusAwaitingSettlement:
		if !suprimento.RoutableForFinalPayment(docs) {
			return nil, shared.NewDomainError(shared.CodeNotReady,
				"Settlement document and payment order must both be drafted before routing")
		}
	default:
		return nil, shared.NewDomainError(shared.CodeInvalidTransition,
			"Case cannot be routed for signature in its current status")
	}

	origin := c.Custody
	var tasks []*suprimento.SigningTask
	for _, kind := range signatureBatch(c.Status) {
		doc := docs[kind]
		if doc == nil || doc.IsSigned() {
			continue
		}
		task, err := suprimento.NewSigningTask(doc, origin)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := c.RouteTo(suprimento.CustodyFinanceOffice, suprimento.CaseStatusAwaitingSignature); err != nil {
		return nil, err
	}

	if err := s.taskRepo.SaveAll(ctx, tasks); err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if err := s.caseRepo.Save(ctx, c); err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if err := s.appendTrail(ctx, c, origin, req.ActorID, req.Note); err != nil {
		return nil, err
	}
	if err := enqueueEvents(ctx, s.outbox, c); err != nil {
		return nil, err
	}

	s.logger.Info("Case routed to finance office",
		zap.String("protocol", c.ProtocolNumber),
		zap.Int("tasks", len(tasks)),
	)
	if s.metrics != nil {
		s.metrics.RecordCaseTransition(ctx, c.Status.String())
	}

	taskResponses := make([]SigningTaskResponse, len(tasks))
	for i, task := range tasks {
		taskResponses[i] = toSigningTaskResponse(task)
	}
	return &RouteToFinanceResponse{
		Case:  *toCaseResponse(c),
		Tasks: taskResponses,
	}, nil
}

// ListTasks lists signing tasks with filtering
func (s *TramitationService) ListTasks(ctx context.Context, caseID *uuid.UUID, status string) ([]SigningTaskResponse, error) {
	filter := suprimento.SigningTaskFilter{CaseID: caseID}
	if status != "" {
		st := suprimento.SigningTaskStatus(suprimento.NormalizeLegacyStatus(status))
		filter.Status = &st
	}

	tasks, _, err := s.taskRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}

	responses := make([]SigningTaskResponse, len(tasks))
	for i := range tasks {
		responses[i] = toSigningTaskResponse(&tasks[i])
	}
	return responses, nil
}

// SignTasks signs a batch of tasks. Each task resolves independently: a
// failed reconciliation on one never rolls back the others, and re-signing
// an already-signed task reports success without a second mutation.
func (s *TramitationService) SignTasks(ctx context.Context, req SignTasksRequest) (*SignTasksResponse, error) {
	tasks, err := s.taskRepo.FindByIDs(ctx, req.TaskIDs)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}

	byID := make(map[uuid.UUID]*suprimento.SigningTask, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = &tasks[i]
	}

	response := &SignTasksResponse{Results: make([]SignTaskResult, 0, len(req.TaskIDs))}
	caseCache := make(map[uuid.UUID]*suprimento.Case)
	docsCache := make(map[uuid.UUID]suprimento.DocumentSet)

	for _, taskID := range req.TaskIDs {
		result := s.signOne(ctx, byID[taskID], taskID, req.SignerID, caseCache, docsCache)
		if result.Error == "" {
			response.Signed++
		} else {
			response.Failed++
		}
		response.Results = append(response.Results, result)
	}

	return response, nil
}

func (s *TramitationService) signOne(
	ctx context.Context,
	task *suprimento.SigningTask,
	taskID uuid.UUID,
	signerID uuid.UUID,
	caseCache map[uuid.UUID]*suprimento.Case,
	docsCache map[uuid.UUID]suprimento.DocumentSet,
) SignTaskResult {
	result := SignTaskResult{TaskID: taskID}

	if task == nil {
		result.Error = "Signing task not found"
		return result
	}
	if task.Status == suprimento.SigningTaskSigned {
		result.Status = task.Status.String()
		return result
	}

	c, ok := caseCache[task.CaseID]
	if !ok {
		loaded, err := s.loadCase(ctx, task.CaseID)
		if err != nil {
			result.Status = task.Status.String()
			result.Error = err.Error()
			return result
		}
		c = loaded
		caseCache[task.CaseID] = c
	}

	docs, ok := docsCache[task.CaseID]
	if !ok {
		loaded, err := s.loadDocuments(ctx, task.CaseID)
		if err != nil {
			result.Status = task.Status.String()
			result.Error = err.Error()
			return result
		}
		docs = loaded
		docsCache[task.CaseID] = docs
	}

	doc := docs[task.DocumentKind]
	if doc == nil || doc.ID != task.DocumentID {
		result.Status = task.Status.String()
		result.Error = "Referenced document no longer matches the task"
		return result
	}

	if err := s.workflow.Sign(c, docs, doc, signerID); err != nil {
		result.Status = task.Status.String()
		result.Error = err.Error()
		return result
	}
	if err := s.docRepo.Save(ctx, doc); err != nil {
		result.Status = task.Status.String()
		result.Error = err.Error()
		return result
	}
	if err := task.MarkSigned(signerID); err != nil {
		result.Status = task.Status.String()
		result.Error = err.Error()
		return result
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		result.Status = task.Status.String()
		result.Error = err.Error()
		return result
	}
	if err := enqueueEvents(ctx, s.outbox, doc); err != nil {
		s.logger.Warn("Failed to enqueue signing events", zap.Error(err))
	}

	result.Status = task.Status.String()
	return result
}

// RejectTask resolves one task negatively with a mandatory reason; the
// referenced document stays drafted
func (s *TramitationService) RejectTask(ctx context.Context, taskID uuid.UUID, reason string) (*SigningTaskResponse, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if task == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Signing task not found")
	}

	if err := task.Reject(reason); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}

	resp := toSigningTaskResponse(task)
	return &resp, nil
}

// ReturnToOrigin sends the case back to the custody that routed it, resolving
// any still-pending tasks as sent back
func (s *TramitationService) ReturnToOrigin(ctx context.Context, caseID uuid.UUID, req ReturnToOriginRequest) (*CaseResponse, error) {
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.FindByCase(ctx, caseID)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	var pending []*suprimento.SigningTask
	for i := range tasks {
		if tasks[i].Status == suprimento.SigningTaskPending {
			if err := tasks[i].SendBack(req.Reason); err != nil {
				return nil, err
			}
			pending = append(pending, &tasks[i])
		}
	}

	from := c.Custody
	status := suprimento.CaseStatus("")
	if c.Status == suprimento.CaseStatusAwaitingSignature {
		status = suprimento.CaseStatusInExecution
	}
	if err := c.RouteTo(c.PriorCustody, status); err != nil {
		return nil, err
	}

	if err := s.taskRepo.SaveAll(ctx, pending); err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if err := s.caseRepo.Save(ctx, c); err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if err := s.appendTrail(ctx, c, from, req.ActorID, req.Reason); err != nil {
		return nil, err
	}
	if err := enqueueEvents(ctx, s.outbox, c); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordCaseTransition(ctx, c.Status.String())
	}

	return toCaseResponse(c), nil
}

// AdvanceAfterSigning moves a fully signed batch out of the finance office:
// the first batch returns the case to execution custody awaiting settlement,
// the final batch releases the funds
func (s *TramitationService) AdvanceAfterSigning(ctx context.Context, caseID, actorID uuid.UUID) (*CaseResponse, error) {
	c, err := s.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.Status != suprimento.CaseStatusAwaitingSignature {
		return nil, shared.NewDomainError(shared.CodeInvalidTransition,
			"Case is not awaiting signature")
	}

	tasks, err := s.taskRepo.FindByCase(ctx, caseID)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	for i := range tasks {
		if tasks[i].Status == suprimento.SigningTaskPending {
			return nil, shared.NewDomainError(shared.CodeNotReady,
				"Signature batch still has pending tasks")
		}
	}

	docs, err := s.loadDocuments(ctx, caseID)
	if err != nil {
		return nil, err
	}

	finalBatch := docs.StatusOf(suprimento.KindPaymentOrder) == suprimento.DocumentStatusSigned
	if !finalBatch {
		for _, kind := range signatureBatch(suprimento.CaseStatusInExecution) {
			if docs.StatusOf(kind) != suprimento.DocumentStatusSigned {
				return nil, shared.NewDomainError(shared.CodeNotReady,
					"Signature batch has unsigned documents; sign or return to origin")
			}
		}
	}

	from := c.Custody
	if err := c.RouteTo(c.PriorCustody, suprimento.CaseStatusAwaitingSettlement); err != nil {
		return nil, err
	}
	if finalBatch {
		if err := c.ReleaseFunds(); err != nil {
			return nil, err
		}
	}

	if err := s.caseRepo.Save(ctx, c); err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if err := s.appendTrail(ctx, c, from, actorID, "Lote de assinaturas concluído"); err != nil {
		return nil, err
	}
	if err := enqueueEvents(ctx, s.outbox, c); err != nil {
		return nil, err
	}

	s.logger.Info("Case advanced after signing",
		zap.String("protocol", c.ProtocolNumber),
		zap.Bool("funds_released", finalBatch),
	)
	if s.metrics != nil {
		s.metrics.RecordCaseTransition(ctx, c.Status.String())
	}

	return toCaseResponse(c), nil
}

// GetTrail returns the case's custody audit trail, oldest first
func (s *TramitationService) GetTrail(ctx context.Context, caseID uuid.UUID) ([]TramitationEntryResponse, error) {
	if _, err := s.loadCase(ctx, caseID); err != nil {
		return nil, err
	}

	entries, err := s.tramRepo.FindByCase(ctx, caseID)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}

	responses := make([]TramitationEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = TramitationEntryResponse{
			ID:          entry.ID,
			CaseID:      entry.CaseID,
			FromCustody: entry.FromCustody.String(),
			ToCustody:   entry.ToCustody.String(),
			ActorID:     entry.ActorID,
			Note:        entry.Note,
			CreatedAt:   entry.CreatedAt,
		}
	}
	return responses, nil
}

func (s *TramitationService) loadCase(ctx context.Context, id uuid.UUID) (*suprimento.Case, error) {
	c, err := s.caseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if c == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Supply case not found")
	}
	return c, nil
}

func (s *TramitationService) loadDocuments(ctx context.Context, caseID uuid.UUID) (suprimento.DocumentSet, error) {
	docs, err := s.docRepo.FindByCase(ctx, caseID)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	return suprimento.NewDocumentSet(docs), nil
}

func (s *TramitationService) appendTrail(ctx context.Context, c *suprimento.Case, from suprimento.Custody, actorID uuid.UUID, note string) error {
	if from == c.Custody {
		return nil
	}
	entry, err := suprimento.NewTramitationEntry(c.ID, from, c.Custody, actorID, note)
	if err != nil {
		return err
	}
	if err := s.tramRepo.Append(ctx, entry); err != nil {
		return shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	return nil
}

// toSigningTaskResponse converts a domain SigningTask to SigningTaskResponse
func toSigningTaskResponse(task *suprimento.SigningTask) SigningTaskResponse {
	return SigningTaskResponse{
		ID:           task.ID,
		CaseID:       task.CaseID,
		DocumentID:   task.DocumentID,
		DocumentKind: task.DocumentKind.String(),
		OriginRole:   task.OriginRole.String(),
		Amount:       task.Amount,
		Status:       task.Status.String(),
		SignedBy:     task.SignedBy,
		SignedAt:     task.SignedAt,
		Reason:       task.Reason,
		CreatedAt:    task.CreatedAt,
	}
}
