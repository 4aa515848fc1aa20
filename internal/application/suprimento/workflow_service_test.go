package suprimento

import (
	"context"
	"testing"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared/valueobject"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type workflowServiceMocks struct {
	caseRepo   *MockCaseRepository
	docRepo    *MockDocumentRepository
	budgetRepo *MockBudgetRepository
	outbox     *MockOutboxRepository
	regularity *MockRegularityChecker
}

func newWorkflowService() (workflowServiceMocks, *WorkflowService) {
	m := workflowServiceMocks{
		caseRepo:   new(MockCaseRepository),
		docRepo:    new(MockDocumentRepository),
		budgetRepo: new(MockBudgetRepository),
		outbox:     new(MockOutboxRepository),
		regularity: new(MockRegularityChecker),
	}
	ledger := &BudgetLedger{repo: m.budgetRepo, fiscalYear: func() int { return 2026 }}
	service := NewWorkflowService(m.caseRepo, m.docRepo, m.outbox, m.regularity, ledger, zap.NewNop())
	return m, service
}

// draftedDoc builds a drafted document for a case, with events cleared
func draftedDoc(t *testing.T, caseID uuid.UUID, kind suprimento.DocumentKind, amount float64) suprimento.ExecutionDocument {
	t.Helper()
	var money *valueobject.Money
	if kind.IsMonetary() {
		m := valueobject.NewMoneyBRLFromFloat(amount)
		money = &m
	}
	doc, err := suprimento.NewExecutionDocument(caseID, kind, money, nil)
	require.NoError(t, err)
	doc.ClearDomainEvents()
	return *doc
}

func signedDoc(t *testing.T, caseID uuid.UUID, kind suprimento.DocumentKind, amount float64) suprimento.ExecutionDocument {
	t.Helper()
	doc := draftedDoc(t, caseID, kind, amount)
	require.NoError(t, doc.MarkSigned(uuid.New()))
	doc.ClearDomainEvents()
	return doc
}

func TestGenerateDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("drafts the authorization order first", func(t *testing.T) {
		m, service := newWorkflowService()
		c := newOpenCase(t)
		require.NoError(t, c.Attest(c.ManagerID))
		c.ClearDomainEvents()

		m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		m.docRepo.On("FindByCase", ctx, c.ID).Return([]suprimento.ExecutionDocument{}, nil)
		m.docRepo.On("Save", ctx, mock.AnythingOfType("*suprimento.ExecutionDocument")).Return(nil)
		m.caseRepo.On("Save", ctx, c).Return(nil)
		m.outbox.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := service.GenerateDocument(ctx, c.ID, GenerateDocumentRequest{Kind: "AUTHORIZATION_ORDER"})
		require.NoError(t, err)
		assert.Equal(t, "DRAFTED", resp.Status)
		assert.Equal(t, 1, resp.Sequence)
		assert.Equal(t, "IN_EXECUTION", c.Status.String())
	})

	t.Run("blocks out-of-order generation", func(t *testing.T) {
		m, service := newWorkflowService()
		c := newOpenCase(t)
		m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		m.docRepo.On("FindByCase", ctx, c.ID).Return([]suprimento.ExecutionDocument{}, nil)

		_, err := service.GenerateDocument(ctx, c.ID, GenerateDocumentRequest{Kind: "COMMITMENT_NOTE"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodePrerequisiteNotMet, domainErr.Code)
		m.docRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("regularity certificate consults the compliance check", func(t *testing.T) {
		m, service := newWorkflowService()
		c := newOpenCase(t)
		docs := []suprimento.ExecutionDocument{draftedDoc(t, c.ID, suprimento.KindAuthorizationOrder, 0)}

		m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		m.docRepo.On("FindByCase", ctx, c.ID).Return(docs, nil)
		m.regularity.On("Check", ctx, c.RequesterID).
			Return(suprimento.RegularityResult{Passed: false, Reasons: []string{"prestação de contas pendente"}}, nil)

		_, err := service.GenerateDocument(ctx, c.ID, GenerateDocumentRequest{Kind: "REGULARITY_CERTIFICATE"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodePrerequisiteNotMet, domainErr.Code)
		assert.Contains(t, domainErr.Message, "compliance holds")
	})

	t.Run("commitment note books the approved value and freezes it", func(t *testing.T) {
		m, service := newWorkflowService()
		c := newOpenCase(t)
		docs := []suprimento.ExecutionDocument{
			draftedDoc(t, c.ID, suprimento.KindAuthorizationOrder, 0),
			draftedDoc(t, c.ID, suprimento.KindRegularityCertificate, 0),
		}

		m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		m.docRepo.On("FindByCase", ctx, c.ID).Return(docs, nil)
		m.budgetRepo.On("AtomicIncrementCommitted", ctx, "8193", 2026, c.ApprovedValue).
			Return(true, decimal.NewFromFloat(33500.00), nil)
		m.docRepo.On("Save", ctx, mock.AnythingOfType("*suprimento.ExecutionDocument")).Return(nil)
		m.caseRepo.On("Save", ctx, c).Return(nil)
		m.outbox.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := service.GenerateDocument(ctx, c.ID, GenerateDocumentRequest{Kind: "COMMITMENT_NOTE"})
		require.NoError(t, err)
		require.NotNil(t, resp.Amount)
		assert.True(t, resp.Amount.Equal(c.ApprovedValue))
		assert.True(t, c.ValueFrozen)
		m.budgetRepo.AssertExpectations(t)
	})

	t.Run("budget exceeded propagates and drafts nothing", func(t *testing.T) {
		m, service := newWorkflowService()
		c := newOpenCase(t)
		docs := []suprimento.ExecutionDocument{
			draftedDoc(t, c.ID, suprimento.KindAuthorizationOrder, 0),
			draftedDoc(t, c.ID, suprimento.KindRegularityCertificate, 0),
		}
		allocation, _ := suprimento.NewBudgetAllocation("8193", 2026,
			valueobject.NewMoneyBRLFromFloat(50000.00), "")
		require.NoError(t, allocation.RegisterCommitment(decimal.NewFromInt(49000)))

		m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		m.docRepo.On("FindByCase", ctx, c.ID).Return(docs, nil)
		m.budgetRepo.On("AtomicIncrementCommitted", ctx, "8193", 2026, mock.Anything).
			Return(false, decimal.Zero, nil)
		m.budgetRepo.On("FindByCode", ctx, "8193", 2026).Return(allocation, nil)

		_, err := service.GenerateDocument(ctx, c.ID, GenerateDocumentRequest{Kind: "COMMITMENT_NOTE"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeBudgetExceeded, domainErr.Code)
		assert.False(t, c.ValueFrozen)
		m.docRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestSignDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("settlement signature passes the triple check", func(t *testing.T) {
		m, service := newWorkflowService()
		c := newOpenCase(t)
		approved, _ := c.ApprovedValue.Float64()

		settlement := draftedDoc(t, c.ID, suprimento.KindSettlementDocument, approved)
		docs := []suprimento.ExecutionDocument{
			signedDoc(t, c.ID, suprimento.KindAuthorizationOrder, 0),
			signedDoc(t, c.ID, suprimento.KindRegularityCertificate, 0),
			signedDoc(t, c.ID, suprimento.KindCommitmentNote, approved),
			settlement,
		}

		m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		m.docRepo.On("FindByCase", ctx, c.ID).Return(docs, nil)
		m.docRepo.On("FindByID", ctx, settlement.ID).Return(&settlement, nil)
		m.docRepo.On("Save", ctx, mock.AnythingOfType("*suprimento.ExecutionDocument")).Return(nil)
		m.outbox.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := service.SignDocument(ctx, c.ID, settlement.ID, SignDocumentRequest{SignerID: uuid.New()})
		require.NoError(t, err)
		assert.Equal(t, "SIGNED", resp.Status)
	})

	t.Run("settlement exceeding the approved value is blocked", func(t *testing.T) {
		m, service := newWorkflowService()
		c := newOpenCase(t)
		approved, _ := c.ApprovedValue.Float64()

		settlement := draftedDoc(t, c.ID, suprimento.KindSettlementDocument, approved+500)
		docs := []suprimento.ExecutionDocument{
			signedDoc(t, c.ID, suprimento.KindAuthorizationOrder, 0),
			signedDoc(t, c.ID, suprimento.KindRegularityCertificate, 0),
			signedDoc(t, c.ID, suprimento.KindCommitmentNote, approved),
			settlement,
		}

		m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		m.docRepo.On("FindByCase", ctx, c.ID).Return(docs, nil)
		m.docRepo.On("FindByID", ctx, settlement.ID).Return(&settlement, nil)

		_, err := service.SignDocument(ctx, c.ID, settlement.ID, SignDocumentRequest{SignerID: uuid.New()})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeReconciliationFailed, domainErr.Code)
		report, ok := domainErr.Details.(suprimento.TripleCheckReport)
		require.True(t, ok)
		assert.Equal(t, suprimento.AmountInvalid, report.Settlement.Status)
	})

	t.Run("document from another case is not found", func(t *testing.T) {
		m, service := newWorkflowService()
		c := newOpenCase(t)
		foreign := draftedDoc(t, uuid.New(), suprimento.KindAuthorizationOrder, 0)

		m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
		m.docRepo.On("FindByCase", ctx, c.ID).Return([]suprimento.ExecutionDocument{}, nil)
		m.docRepo.On("FindByID", ctx, foreign.ID).Return(&foreign, nil)

		_, err := service.SignDocument(ctx, c.ID, foreign.ID, SignDocumentRequest{SignerID: uuid.New()})
		require.Error(t, err)
	})
}

func TestAvailability(t *testing.T) {
	ctx := context.Background()
	m, service := newWorkflowService()
	c := newOpenCase(t)
	docs := []suprimento.ExecutionDocument{draftedDoc(t, c.ID, suprimento.KindAuthorizationOrder, 0)}

	m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
	m.docRepo.On("FindByCase", ctx, c.ID).Return(docs, nil)

	availability, err := service.Availability(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, availability, 5)

	assert.False(t, availability[0].CanDraft) // already generated
	assert.True(t, availability[1].CanDraft)  // certificate next
	assert.False(t, availability[3].CanDraft) // settlement needs signed prerequisites
	assert.Contains(t, availability[3].Reason, "prerequisite")
}

func TestReconciliationReport(t *testing.T) {
	ctx := context.Background()
	m, service := newWorkflowService()
	c := newOpenCase(t)
	approved, _ := c.ApprovedValue.Float64()

	docs := []suprimento.ExecutionDocument{
		signedDoc(t, c.ID, suprimento.KindCommitmentNote, approved),
		signedDoc(t, c.ID, suprimento.KindSettlementDocument, approved),
	}
	m.caseRepo.On("FindByID", ctx, c.ID).Return(c, nil)
	m.docRepo.On("FindByCase", ctx, c.ID).Return(docs, nil)

	report, err := service.ReconciliationReport(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, suprimento.AmountValid, report.Commitment.Status)
	assert.Equal(t, suprimento.AmountValid, report.Settlement.Status)
	assert.Equal(t, suprimento.AmountMissing, report.Payment.Status)
}
