package suprimento

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared/valueobject"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
	"github.com/shopspring/decimal"
)

// BudgetLedger adapts the allocation repository to the workflow's
// BudgetCommitter port. The guard and the increment run as a single
// conditional update inside the repository, so concurrent commitments
// against the same code can never jointly breach the ceiling.
type BudgetLedger struct {
	repo       suprimento.BudgetAllocationRepository
	fiscalYear func() int
}

// NewBudgetLedger creates a ledger bound to the current fiscal year
func NewBudgetLedger(repo suprimento.BudgetAllocationRepository) *BudgetLedger {
	return &BudgetLedger{
		repo:       repo,
		fiscalYear: func() int { return time.Now().Year() },
	}
}

// Commit books the amount against the code and returns the new cumulative
// committed total. A code with no provisioned allocation fails closed.
func (l *BudgetLedger) Commit(ctx context.Context, code string, amount decimal.Decimal) (decimal.Decimal, error) {
	year := l.fiscalYear()

	ok, newTotal, err := l.repo.AtomicIncrementCommitted(ctx, code, year, amount)
	if err != nil {
		return decimal.Zero, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if ok {
		return newTotal, nil
	}

	// The guard failed: distinguish an exhausted envelope from a code that
	// was never provisioned
	allocation, err := l.repo.FindByCode(ctx, code, year)
	if err != nil {
		return decimal.Zero, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if allocation == nil {
		return decimal.Zero, suprimento.NewBudgetUnavailableError(code)
	}
	return decimal.Zero, suprimento.NewBudgetExceededError(code, allocation.Available(), amount)
}

// CommitWithOverride books the amount even when the code has no provisioned
// allocation, provisioning a single-purpose envelope that records the reason.
// The override never bypasses the ceiling of an allocation that does exist.
func (l *BudgetLedger) CommitWithOverride(ctx context.Context, code string, amount decimal.Decimal, reason string) (decimal.Decimal, error) {
	if strings.TrimSpace(reason) == "" {
		return decimal.Zero, shared.NewDomainError("INVALID_REASON", "Budget override requires an explicit reason")
	}

	newTotal, err := l.Commit(ctx, code, amount)
	if err == nil {
		return newTotal, nil
	}

	var domainErr *shared.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != shared.CodeBudgetExceeded || domainErr.Details != nil {
		// Real ceiling breach (carries details) or infrastructure failure
		return decimal.Zero, err
	}

	allocation, allocErr := suprimento.NewBudgetAllocation(code, l.fiscalYear(),
		valueobject.NewMoneyBRL(amount), "Override: "+reason)
	if allocErr != nil {
		return decimal.Zero, allocErr
	}
	if saveErr := l.repo.Save(ctx, allocation); saveErr != nil {
		return decimal.Zero, shared.ErrStorageUnavailable.WithDetails(saveErr.Error())
	}

	return l.Commit(ctx, code, amount)
}

// overrideCommitter wraps the ledger so a single generation call can carry
// an override reason through the workflow's BudgetCommitter port
type overrideCommitter struct {
	ledger *BudgetLedger
	reason string
}

func (o overrideCommitter) Commit(ctx context.Context, code string, amount decimal.Decimal) (decimal.Decimal, error) {
	return o.ledger.CommitWithOverride(ctx, code, amount, o.reason)
}
