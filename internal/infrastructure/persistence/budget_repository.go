package persistence

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormBudgetAllocationRepository implements BudgetAllocationRepository using GORM
type GormBudgetAllocationRepository struct {
	db *gorm.DB
}

// NewGormBudgetAllocationRepository creates a new GormBudgetAllocationRepository
func NewGormBudgetAllocationRepository(db *gorm.DB) *GormBudgetAllocationRepository {
	return &GormBudgetAllocationRepository{db: db}
}

// FindByCode finds an allocation by budget code and fiscal year
func (r *GormBudgetAllocationRepository) FindByCode(ctx context.Context, code string, fiscalYear int) (*suprimento.BudgetAllocation, error) {
	var allocation suprimento.BudgetAllocation
	if err := r.db.WithContext(ctx).
		Where("code = ? AND fiscal_year = ?", code, fiscalYear).
		First(&allocation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &allocation, nil
}

// Save creates or updates an allocation
func (r *GormBudgetAllocationRepository) Save(ctx context.Context, allocation *suprimento.BudgetAllocation) error {
	return r.db.WithContext(ctx).Save(allocation).Error
}

// AtomicIncrementCommitted books a commitment against the allocation in a
// single conditional update. The WHERE clause re-checks the ceiling inside
// the database, so two concurrent commitments can never jointly breach it:
// the row is locked for the duration of the update and the loser of the race
// re-evaluates the guard against the winner's new total.
//
// Returns (false, 0, nil) when the guard rejected the increment, which the
// caller distinguishes from infrastructure errors.
func (r *GormBudgetAllocationRepository) AtomicIncrementCommitted(ctx context.Context, code string, fiscalYear int, amount decimal.Decimal) (bool, decimal.Decimal, error) {
	var newTotal decimal.Decimal
	row := r.db.WithContext(ctx).Raw(`
		UPDATE budget_allocations
		SET committed_amount = committed_amount + ?,
		    updated_at = now(),
		    version = version + 1
		WHERE code = ? AND fiscal_year = ?
		  AND committed_amount + ? <= annual_ceiling
		RETURNING committed_amount`, amount, code, fiscalYear, amount).
		Row()

	if err := row.Scan(&newTotal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, decimal.Zero, nil
		}
		return false, decimal.Zero, err
	}
	return true, newTotal, nil
}

// Ensure GormBudgetAllocationRepository implements BudgetAllocationRepository
var _ suprimento.BudgetAllocationRepository = (*GormBudgetAllocationRepository)(nil)
