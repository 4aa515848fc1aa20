package suprimento

import (
	"context"
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CaseFilter defines filtering options for case list queries
type CaseFilter struct {
	shared.Filter
	RequesterID    *uuid.UUID
	ManagerID      *uuid.UUID
	Custody        *Custody
	Status         *CaseStatus
	BudgetCode     *string
	SupplyCategory *SupplyCategory
	FromDate       *time.Time
	ToDate         *time.Time
}

// CaseRepository persists supply cases
type CaseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Case, error)
	FindByProtocol(ctx context.Context, protocolNumber string) (*Case, error)
	FindAll(ctx context.Context, filter CaseFilter) ([]Case, int64, error)
	Save(ctx context.Context, c *Case) error
	// NextProtocolSequence returns the next protocol sequence number for a year
	NextProtocolSequence(ctx context.Context, year int) (int64, error)
}

// ExecutionDocumentRepository persists execution documents
type ExecutionDocumentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ExecutionDocument, error)
	FindByCase(ctx context.Context, caseID uuid.UUID) ([]ExecutionDocument, error)
	FindByCaseAndKind(ctx context.Context, caseID uuid.UUID, kind DocumentKind) (*ExecutionDocument, error)
	Save(ctx context.Context, doc *ExecutionDocument) error
}

// BudgetAllocationRepository persists budget allocations.
// AtomicIncrementCommitted is the safety-critical operation behind the
// ceiling guarantee: a single conditional update that books the amount only
// when the ceiling still covers it.
type BudgetAllocationRepository interface {
	FindByCode(ctx context.Context, code string, fiscalYear int) (*BudgetAllocation, error)
	Save(ctx context.Context, allocation *BudgetAllocation) error
	// AtomicIncrementCommitted executes
	//   UPDATE ... SET committed = committed + amount
	//   WHERE code = ? AND committed + amount <= ceiling
	// and reports whether the guard held, plus the new total when it did.
	AtomicIncrementCommitted(ctx context.Context, code string, fiscalYear int, amount decimal.Decimal) (bool, decimal.Decimal, error)
}

// SigningTaskFilter defines filtering options for signing-task queries
type SigningTaskFilter struct {
	shared.Filter
	CaseID *uuid.UUID
	Status *SigningTaskStatus
	Kind   *DocumentKind
}

// SigningTaskRepository persists signing tasks
type SigningTaskRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SigningTask, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]SigningTask, error)
	FindByCase(ctx context.Context, caseID uuid.UUID) ([]SigningTask, error)
	FindAll(ctx context.Context, filter SigningTaskFilter) ([]SigningTask, int64, error)
	Save(ctx context.Context, task *SigningTask) error
	SaveAll(ctx context.Context, tasks []*SigningTask) error
}

// TramitationRepository appends and reads the immutable custody audit trail
type TramitationRepository interface {
	Append(ctx context.Context, entry *TramitationEntry) error
	FindByCase(ctx context.Context, caseID uuid.UUID) ([]TramitationEntry, error)
}
