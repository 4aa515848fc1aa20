package suprimento

import (
	"context"
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Case Repository
// =============================================================================

type MockCaseRepository struct {
	mock.Mock
}

func (m *MockCaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*suprimento.Case, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*suprimento.Case), args.Error(1)
}

func (m *MockCaseRepository) FindByProtocol(ctx context.Context, protocolNumber string) (*suprimento.Case, error) {
	args := m.Called(ctx, protocolNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*suprimento.Case), args.Error(1)
}

func (m *MockCaseRepository) FindAll(ctx context.Context, filter suprimento.CaseFilter) ([]suprimento.Case, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]suprimento.Case), args.Get(1).(int64), args.Error(2)
}

func (m *MockCaseRepository) Save(ctx context.Context, c *suprimento.Case) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCaseRepository) NextProtocolSequence(ctx context.Context, year int) (int64, error) {
	args := m.Called(ctx, year)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Mock Execution Document Repository
// =============================================================================

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*suprimento.ExecutionDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*suprimento.ExecutionDocument), args.Error(1)
}

func (m *MockDocumentRepository) FindByCase(ctx context.Context, caseID uuid.UUID) ([]suprimento.ExecutionDocument, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]suprimento.ExecutionDocument), args.Error(1)
}

func (m *MockDocumentRepository) FindByCaseAndKind(ctx context.Context, caseID uuid.UUID, kind suprimento.DocumentKind) (*suprimento.ExecutionDocument, error) {
	args := m.Called(ctx, caseID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*suprimento.ExecutionDocument), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, doc *suprimento.ExecutionDocument) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

// =============================================================================
// Mock Budget Allocation Repository
// =============================================================================

type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindByCode(ctx context.Context, code string, fiscalYear int) (*suprimento.BudgetAllocation, error) {
	args := m.Called(ctx, code, fiscalYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*suprimento.BudgetAllocation), args.Error(1)
}

func (m *MockBudgetRepository) Save(ctx context.Context, allocation *suprimento.BudgetAllocation) error {
	args := m.Called(ctx, allocation)
	return args.Error(0)
}

func (m *MockBudgetRepository) AtomicIncrementCommitted(ctx context.Context, code string, fiscalYear int, amount decimal.Decimal) (bool, decimal.Decimal, error) {
	args := m.Called(ctx, code, fiscalYear, amount)
	return args.Bool(0), args.Get(1).(decimal.Decimal), args.Error(2)
}

// =============================================================================
// Mock Signing Task Repository
// =============================================================================

type MockSigningTaskRepository struct {
	mock.Mock
}

func (m *MockSigningTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*suprimento.SigningTask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*suprimento.SigningTask), args.Error(1)
}

func (m *MockSigningTaskRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]suprimento.SigningTask, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]suprimento.SigningTask), args.Error(1)
}

func (m *MockSigningTaskRepository) FindByCase(ctx context.Context, caseID uuid.UUID) ([]suprimento.SigningTask, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]suprimento.SigningTask), args.Error(1)
}

func (m *MockSigningTaskRepository) FindAll(ctx context.Context, filter suprimento.SigningTaskFilter) ([]suprimento.SigningTask, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]suprimento.SigningTask), args.Get(1).(int64), args.Error(2)
}

func (m *MockSigningTaskRepository) Save(ctx context.Context, task *suprimento.SigningTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockSigningTaskRepository) SaveAll(ctx context.Context, tasks []*suprimento.SigningTask) error {
	args := m.Called(ctx, tasks)
	return args.Error(0)
}

// =============================================================================
// Mock Tramitation Repository
// =============================================================================

type MockTramitationRepository struct {
	mock.Mock
}

func (m *MockTramitationRepository) Append(ctx context.Context, entry *suprimento.TramitationEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockTramitationRepository) FindByCase(ctx context.Context, caseID uuid.UUID) ([]suprimento.TramitationEntry, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]suprimento.TramitationEntry), args.Error(1)
}

// =============================================================================
// Mock Outbox Repository
// =============================================================================

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockOutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) FindDead(ctx context.Context, eventType string, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	args := m.Called(ctx, eventType, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockOutboxRepository) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[shared.OutboxStatus]int64), args.Error(1)
}

func (m *MockOutboxRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Mock Regularity Checker
// =============================================================================

type MockRegularityChecker struct {
	mock.Mock
}

func (m *MockRegularityChecker) Check(ctx context.Context, requesterID uuid.UUID) (suprimento.RegularityResult, error) {
	args := m.Called(ctx, requesterID)
	return args.Get(0).(suprimento.RegularityResult), args.Error(1)
}
