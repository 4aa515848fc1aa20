package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/infrastructure/telemetry"
)

// BudgetTelemetryAdapter feeds current-year budget utilization to the
// periodic business-metrics collector.
type BudgetTelemetryAdapter struct {
	db *gorm.DB
}

// NewBudgetTelemetryAdapter creates a new BudgetTelemetryAdapter
func NewBudgetTelemetryAdapter(db *gorm.DB) *BudgetTelemetryAdapter {
	return &BudgetTelemetryAdapter{db: db}
}

// BudgetUtilization returns committed/ceiling per budget code for the
// current fiscal year
func (a *BudgetTelemetryAdapter) BudgetUtilization(ctx context.Context) ([]telemetry.BudgetSnapshot, error) {
	var allocations []suprimento.BudgetAllocation
	err := a.db.WithContext(ctx).
		Where("fiscal_year = ?", time.Now().Year()).
		Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	snapshots := make([]telemetry.BudgetSnapshot, 0, len(allocations))
	for _, alloc := range allocations {
		if alloc.AnnualCeiling.IsZero() {
			continue
		}
		utilization, _ := alloc.CommittedAmount.Div(alloc.AnnualCeiling).Float64()
		snapshots = append(snapshots, telemetry.BudgetSnapshot{
			Code:        alloc.Code,
			FiscalYear:  alloc.FiscalYear,
			Utilization: utilization,
		})
	}
	return snapshots, nil
}

var _ telemetry.BudgetMetricsProvider = (*BudgetTelemetryAdapter)(nil)
