package suprimento

import (
	"fmt"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CriticalUtilizationPercent is the advisory threshold: commitments that push
// utilization at or beyond this percentage trigger a critical warning, never
// a hard block.
var CriticalUtilizationPercent = decimal.NewFromInt(90)

// BudgetAllocation represents one budget code's annual envelope.
// The committed amount is an append-only ledger shared across all cases using
// the code; it only grows as commitments land.
type BudgetAllocation struct {
	shared.ProcessRecord
	Code            string          `gorm:"type:varchar(20);not null;uniqueIndex:idx_budget_code_year,priority:1"`
	FiscalYear      int             `gorm:"not null;uniqueIndex:idx_budget_code_year,priority:2"`
	AnnualCeiling   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CommittedAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Description     string          `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (BudgetAllocation) TableName() string {
	return "budget_allocations"
}

// NewBudgetAllocation provisions an annual envelope for a budget code
func NewBudgetAllocation(code string, fiscalYear int, ceiling valueobject.Money, description string) (*BudgetAllocation, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_BUDGET_CODE", "Budget code cannot be empty")
	}
	if fiscalYear < 2000 {
		return nil, shared.NewDomainError("INVALID_FISCAL_YEAR", "Fiscal year is not valid")
	}
	if !ceiling.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Annual ceiling must be positive")
	}

	return &BudgetAllocation{
		ProcessRecord:   shared.NewProcessRecord(),
		Code:            code,
		FiscalYear:      fiscalYear,
		AnnualCeiling:   ceiling.Amount(),
		CommittedAmount: decimal.Zero,
		Description:     description,
	}, nil
}

// Available returns ceiling minus cumulative committed amount
func (a *BudgetAllocation) Available() decimal.Decimal {
	return a.AnnualCeiling.Sub(a.CommittedAmount)
}

// AvailableMoney returns the available balance as Money
func (a *BudgetAllocation) AvailableMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(a.Available())
}

// CanCommit returns true if committing the amount would not breach the ceiling
func (a *BudgetAllocation) CanCommit(amount decimal.Decimal) bool {
	return a.CommittedAmount.Add(amount).LessThanOrEqual(a.AnnualCeiling)
}

// Utilization returns the current committed percentage of the ceiling (0-100)
func (a *BudgetAllocation) Utilization() decimal.Decimal {
	return a.UtilizationAfter(decimal.Zero)
}

// UtilizationAfter projects the committed percentage of the ceiling after a
// hypothetical additional commitment. Read-only; used for advisory thresholds.
func (a *BudgetAllocation) UtilizationAfter(amount decimal.Decimal) decimal.Decimal {
	if a.AnnualCeiling.IsZero() {
		return decimal.NewFromInt(100)
	}
	return a.CommittedAmount.Add(amount).
		Div(a.AnnualCeiling).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// IsCriticalAfter returns true when a commitment would push utilization to or
// beyond the critical advisory threshold
func (a *BudgetAllocation) IsCriticalAfter(amount decimal.Decimal) bool {
	return a.UtilizationAfter(amount).GreaterThanOrEqual(CriticalUtilizationPercent)
}

// RegisterCommitment applies a commitment to the in-memory aggregate.
// The persistence layer performs the equivalent check-and-increment as one
// conditional update; this method exists for domain logic and tests.
func (a *BudgetAllocation) RegisterCommitment(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Commitment amount must be positive")
	}
	if !a.CanCommit(amount) {
		return NewBudgetExceededError(a.Code, a.Available(), amount)
	}

	a.CommittedAmount = a.CommittedAmount.Add(amount)
	a.Touch()
	return nil
}

// BudgetExceededDetails carries the available vs requested amounts of a
// rejected commitment
type BudgetExceededDetails struct {
	BudgetCode string          `json:"budget_code"`
	Available  decimal.Decimal `json:"available"`
	Requested  decimal.Decimal `json:"requested"`
}

// NewBudgetExceededError builds the BUDGET_EXCEEDED domain error.
// Always recoverable: the caller may reduce the amount or obtain an override.
func NewBudgetExceededError(code string, available, requested decimal.Decimal) *shared.DomainError {
	return shared.NewDomainError(shared.CodeBudgetExceeded,
		fmt.Sprintf("Commitment of R$%s against budget code %s exceeds available balance R$%s",
			requested.StringFixed(2), code, available.StringFixed(2)),
	).WithDetails(BudgetExceededDetails{
		BudgetCode: code,
		Available:  available,
		Requested:  requested,
	})
}

// NewBudgetUnavailableError is returned for codes with no provisioned
// allocation; callers may use the explicit override escape hatch instead.
func NewBudgetUnavailableError(code string) *shared.DomainError {
	return shared.NewDomainError(shared.CodeBudgetExceeded,
		fmt.Sprintf("Budget code %s has no provisioned allocation; commitment requires a manual override", code))
}
