package suprimento

import (
	"context"
	"testing"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type tramitationServiceMocks struct {
	caseRepo *MockCaseRepository
	docRepo  *MockDocumentRepository
	taskRepo *MockSigningTaskRepository
	tramRepo *MockTramitationRepository
	outbox   *MockOutboxRepository
}

func newTramitationService() (tramitationServiceMocks, *TramitationService) {
	m := tramitationServiceMocks{
		caseRepo: new(MockCaseRepository),
		docRepo:  new(MockDocumentRepository),
		taskRepo: new(MockSigningTaskRepository),
		tramRepo: new(MockTramitationRepository),
		outbox:   new(MockOutboxRepository),
	}
	workflow := suprimento.NewDocumentWorkflow(new(MockRegularityChecker),
		&BudgetLedger{repo: new(MockBudgetRepository), fiscalYear: func() int { return 2026 }})
	service := NewTramitationService(m.caseRepo, m.docRepo, m.taskRepo, m.tramRepo, m.outbox, workflow, zap.NewNop())
	return m, service
}

// executionCase returns a case held by the audit office with the first three
// documents drafted
func executionCase(t *testing.T) (*suprimento.Case, []suprimento.ExecutionDocument) {
	t.Helper()
	c := newOpenCase(t)
	require.NoError(t, c.Attest(c.ManagerID))
	c.MarkInExecution()
	c.ClearDomainEvents()

	approved, _ := c.ApprovedValue.Float64()
	docs := []suprimento.ExecutionDocument{
		draftedDoc(t, c.ID, suprimento.KindAuthorizationOrder, 0),
		draftedDoc(t, c.ID, suprimento.KindRegularityCertificate, 0),
		draftedDoc(t, c.ID, suprimento.KindCommitmentNote, approved),
	}
	return c, docs
}

func TestRouteToFinance(t *testing.T) {
	ctx := context.Background()

	t.Run("opens one task per drafted document", func(t *testing.T) {
		m, service := newTramitationService()
		c, docs := executionCase(t)

		m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		m.docRepo.On("FindByCase", ctx, c.ID).Return(docs, nil)
		m.taskRepo.On("SaveAll", ctx, mock.Anything).Return(nil)
		m.caseRepo.On("Save", ctx, c).Return(nil)
		m.tramRepo.On("Append", ctx, mock.AnythingOfType("*suprimento.TramitationEntry")).Return(nil)
		m.outbox.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := service.RouteToFinance(ctx, c.ID, RouteToFinanceRequest{ActorID: uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, "AWAITING_SIGNATURE", resp.Case.Status)
		assert.Equal(t, "FINANCE_OFFICE", resp.Case.Custody)
		require.Len(t, resp.Tasks, 3)
		for _, task := range resp.Tasks {
			assert.Equal(t, "PENDING", task.Status)
			assert.Equal(t, "AUDIT_OFFICE", task.OriginRole)
		}
	})

	t.Run("not ready without the full first batch", func(t *testing.T) {
		m, service := newTramitationService()
		c, docs := executionCase(t)
		docs = docs[:2] // commitment note still missing

		m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		m.docRepo.On("FindByCase", ctx, c.ID).Return(docs, nil)

		_, err := service.RouteToFinance(ctx, c.ID, RouteToFinanceRequest{ActorID: uuid.New()})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeNotReady, domainErr.Code)
		m.taskRepo.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
	})

	t.Run("final batch routes settlement and payment", func(t *testing.T) {
		m, service := newTramitationService()
		c, docs := executionCase(t)
		approved, _ := c.ApprovedValue.Float64()
		for i := range docs {
			require.NoError(t, docs[i].MarkSigned(uuid.New()))
			docs[i].ClearDomainEvents()
		}
		docs = append(docs,
			draftedDoc(t, c.ID, suprimento.KindSettlementDocument, approved),
			draftedDoc(t, c.ID, suprimento.KindPaymentOrder, approved),
		)
		require.NoError(t, c.RouteTo(suprimento.CustodyAuditOffice, suprimento.CaseStatusAwaitingSettlement))
		c.ClearDomainEvents()

		m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		m.docRepo.On("FindByCase", ctx, c.ID).Return(docs, nil)
		m.taskRepo.On("SaveAll", ctx, mock.Anything).Return(nil)
		m.caseRepo.On("Save", ctx, c).Return(nil)
		m.tramRepo.On("Append", ctx, mock.AnythingOfType("*suprimento.TramitationEntry")).Return(nil)
		m.outbox.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := service.RouteToFinance(ctx, c.ID, RouteToFinanceRequest{ActorID: uuid.New()})
		require.NoError(t, err)
		require.Len(t, resp.Tasks, 2)
		assert.Equal(t, "SETTLEMENT_DOCUMENT", resp.Tasks[0].DocumentKind)
		assert.Equal(t, "PAYMENT_ORDER", resp.Tasks[1].DocumentKind)
	})
}

func TestSignTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("each task resolves independently", func(t *testing.T) {
		m, service := newTramitationService()
		c, docs := executionCase(t)
		require.NoError(t, c.RouteTo(suprimento.CustodyFinanceOffice, suprimento.CaseStatusAwaitingSignature))
		c.ClearDomainEvents()

		var tasks []suprimento.SigningTask
		for i := range docs {
			task, err := suprimento.NewSigningTask(&docs[i], suprimento.CustodyAuditOffice)
			require.NoError(t, err)
			tasks = append(tasks, *task)
		}

		ids := []uuid.UUID{tasks[0].ID, tasks[1].ID, tasks[2].ID}
		m.taskRepo.On("FindByIDs", ctx, ids).Return(tasks, nil)
		m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		m.docRepo.On("FindByCase", ctx, c.ID).Return(docs, nil)
		m.docRepo.On("Save", ctx, mock.AnythingOfType("*suprimento.ExecutionDocument")).Return(nil)
		m.taskRepo.On("Save", ctx, mock.AnythingOfType("*suprimento.SigningTask")).Return(nil)
		m.outbox.On("Save", ctx, mock.Anything).Return(nil)

		signer := uuid.New()
		resp, err := service.SignTasks(ctx, SignTasksRequest{TaskIDs: ids, SignerID: signer})
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Signed)
		assert.Equal(t, 0, resp.Failed)
		for _, result := range resp.Results {
			assert.Equal(t, "SIGNED", result.Status)
			assert.Empty(t, result.Error)
		}
	})

	t.Run("unknown task fails alone", func(t *testing.T) {
		m, service := newTramitationService()
		c, docs := executionCase(t)

		task, err := suprimento.NewSigningTask(&docs[0], suprimento.CustodyAuditOffice)
		require.NoError(t, err)
		unknown := uuid.New()

		ids := []uuid.UUID{task.ID, unknown}
		m.taskRepo.On("FindByIDs", ctx, ids).Return([]suprimento.SigningTask{*task}, nil)
		m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		m.docRepo.On("FindByCase", ctx, c.ID).Return(docs, nil)
		m.docRepo.On("Save", ctx, mock.AnythingOfType("*suprimento.ExecutionDocument")).Return(nil)
		m.taskRepo.On("Save", ctx, mock.AnythingOfType("*suprimento.SigningTask")).Return(nil)
		m.outbox.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := service.SignTasks(ctx, SignTasksRequest{TaskIDs: ids, SignerID: uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Signed)
		assert.Equal(t, 1, resp.Failed)
		assert.Empty(t, resp.Results[0].Error)
		assert.NotEmpty(t, resp.Results[1].Error)
	})

	t.Run("already signed task reports success without mutation", func(t *testing.T) {
		m, service := newTramitationService()
		_, docs := executionCase(t)

		task, err := suprimento.NewSigningTask(&docs[0], suprimento.CustodyAuditOffice)
		require.NoError(t, err)
		require.NoError(t, task.MarkSigned(uuid.New()))

		ids := []uuid.UUID{task.ID}
		m.taskRepo.On("FindByIDs", ctx, ids).Return([]suprimento.SigningTask{*task}, nil)

		resp, err := service.SignTasks(ctx, SignTasksRequest{TaskIDs: ids, SignerID: uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Signed)
		assert.Equal(t, "SIGNED", resp.Results[0].Status)
		m.docRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestReturnToOrigin(t *testing.T) {
	ctx := context.Background()
	m, service := newTramitationService()
	c, docs := executionCase(t)
	require.NoError(t, c.RouteTo(suprimento.CustodyFinanceOffice, suprimento.CaseStatusAwaitingSignature))
	c.ClearDomainEvents()

	task, err := suprimento.NewSigningTask(&docs[0], suprimento.CustodyAuditOffice)
	require.NoError(t, err)

	m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
	m.taskRepo.On("FindByCase", ctx, c.ID).Return([]suprimento.SigningTask{*task}, nil)
	m.taskRepo.On("SaveAll", ctx, mock.Anything).Return(nil)
	m.caseRepo.On("Save", ctx, c).Return(nil)
	m.tramRepo.On("Append", ctx, mock.AnythingOfType("*suprimento.TramitationEntry")).Return(nil)
	m.outbox.On("Save", ctx, mock.Anything).Return(nil)

	resp, err := service.ReturnToOrigin(ctx, c.ID, ReturnToOriginRequest{
		Reason:  "Divergência na nota de empenho",
		ActorID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Equal(t, "AUDIT_OFFICE", resp.Custody)
	assert.Equal(t, "IN_EXECUTION", resp.Status)
}

func TestAdvanceAfterSigning(t *testing.T) {
	ctx := context.Background()

	t.Run("pending tasks block the advance", func(t *testing.T) {
		m, service := newTramitationService()
		c, docs := executionCase(t)
		require.NoError(t, c.RouteTo(suprimento.CustodyFinanceOffice, suprimento.CaseStatusAwaitingSignature))
		c.ClearDomainEvents()

		task, err := suprimento.NewSigningTask(&docs[0], suprimento.CustodyAuditOffice)
		require.NoError(t, err)

		m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		m.taskRepo.On("FindByCase", ctx, c.ID).Return([]suprimento.SigningTask{*task}, nil)

		_, err = service.AdvanceAfterSigning(ctx, c.ID, uuid.New())
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeNotReady, domainErr.Code)
	})

	t.Run("first batch returns to execution custody", func(t *testing.T) {
		m, service := newTramitationService()
		c, docs := executionCase(t)
		for i := range docs {
			require.NoError(t, docs[i].MarkSigned(uuid.New()))
			docs[i].ClearDomainEvents()
		}
		require.NoError(t, c.RouteTo(suprimento.CustodyFinanceOffice, suprimento.CaseStatusAwaitingSignature))
		c.ClearDomainEvents()

		m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		m.taskRepo.On("FindByCase", ctx, c.ID).Return([]suprimento.SigningTask{}, nil)
		m.docRepo.On("FindByCase", ctx, c.ID).Return(docs, nil)
		m.caseRepo.On("Save", ctx, c).Return(nil)
		m.tramRepo.On("Append", ctx, mock.AnythingOfType("*suprimento.TramitationEntry")).Return(nil)
		m.outbox.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := service.AdvanceAfterSigning(ctx, c.ID, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "AWAITING_SETTLEMENT", resp.Status)
		assert.Equal(t, "AUDIT_OFFICE", resp.Custody)
	})

	t.Run("final batch releases the funds", func(t *testing.T) {
		m, service := newTramitationService()
		c, docs := executionCase(t)
		approved, _ := c.ApprovedValue.Float64()
		for i := range docs {
			require.NoError(t, docs[i].MarkSigned(uuid.New()))
			docs[i].ClearDomainEvents()
		}
		docs = append(docs,
			signedDoc(t, c.ID, suprimento.KindSettlementDocument, approved),
			signedDoc(t, c.ID, suprimento.KindPaymentOrder, approved),
		)
		require.NoError(t, c.RouteTo(suprimento.CustodyAuditOffice, suprimento.CaseStatusAwaitingSettlement))
		require.NoError(t, c.RouteTo(suprimento.CustodyFinanceOffice, suprimento.CaseStatusAwaitingSignature))
		c.ClearDomainEvents()

		m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		m.taskRepo.On("FindByCase", ctx, c.ID).Return([]suprimento.SigningTask{}, nil)
		m.docRepo.On("FindByCase", ctx, c.ID).Return(docs, nil)
		m.caseRepo.On("Save", ctx, c).Return(nil)
		m.tramRepo.On("Append", ctx, mock.AnythingOfType("*suprimento.TramitationEntry")).Return(nil)
		m.outbox.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := service.AdvanceAfterSigning(ctx, c.ID, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, "FUNDS_RELEASED", resp.Status)
		assert.NotNil(t, resp.ReleasedAt)
	})
}
