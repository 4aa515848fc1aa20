package suprimento

import (
	"context"
	"time"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared/valueobject"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/suprimento"
	"github.com/shopspring/decimal"
)

// BudgetService provides application-level budget-allocation operations
type BudgetService struct {
	repo suprimento.BudgetAllocationRepository
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(repo suprimento.BudgetAllocationRepository) *BudgetService {
	return &BudgetService{repo: repo}
}

// BalanceResponse represents a budget allocation's current balance
type BalanceResponse struct {
	Code        string          `json:"code"`
	FiscalYear  int             `json:"fiscal_year"`
	Ceiling     decimal.Decimal `json:"annual_ceiling"`
	Committed   decimal.Decimal `json:"committed_amount"`
	Available   decimal.Decimal `json:"available"`
	Utilization decimal.Decimal `json:"utilization_percent"`
	Description string          `json:"description,omitempty"`
}

// ProvisionAllocationRequest provisions an annual envelope for a budget code
type ProvisionAllocationRequest struct {
	Code        string          `json:"code" binding:"required"`
	FiscalYear  int             `json:"fiscal_year" binding:"required"`
	Ceiling     decimal.Decimal `json:"annual_ceiling" binding:"required"`
	Description string          `json:"description"`
}

// ProjectionResponse is the read-only effect a hypothetical commitment
// would have on the allocation
type ProjectionResponse struct {
	Code             string          `json:"code"`
	Amount           decimal.Decimal `json:"amount"`
	WouldExceed      bool            `json:"would_exceed"`
	UtilizationAfter decimal.Decimal `json:"utilization_after_percent"`
	Critical         bool            `json:"critical"`
}

// ProvisionAllocation creates the annual envelope for a budget code
func (s *BudgetService) ProvisionAllocation(ctx context.Context, req ProvisionAllocationRequest) (*BalanceResponse, error) {
	existing, err := s.repo.FindByCode(ctx, req.Code, req.FiscalYear)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Budget code already provisioned for this fiscal year")
	}

	allocation, err := suprimento.NewBudgetAllocation(req.Code, req.FiscalYear,
		valueobject.NewMoneyBRL(req.Ceiling), req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, allocation); err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	return toBalanceResponse(allocation), nil
}

// GetBalance returns the current balance of a budget code. A zero fiscal year
// defaults to the current one.
func (s *BudgetService) GetBalance(ctx context.Context, code string, fiscalYear int) (*BalanceResponse, error) {
	allocation, err := s.loadAllocation(ctx, code, fiscalYear)
	if err != nil {
		return nil, err
	}
	return toBalanceResponse(allocation), nil
}

// ProjectCommitment reports what a commitment would do to the allocation
// without booking anything
func (s *BudgetService) ProjectCommitment(ctx context.Context, code string, fiscalYear int, amount decimal.Decimal) (*ProjectionResponse, error) {
	allocation, err := s.loadAllocation(ctx, code, fiscalYear)
	if err != nil {
		return nil, err
	}

	return &ProjectionResponse{
		Code:             allocation.Code,
		Amount:           amount,
		WouldExceed:      !allocation.CanCommit(amount),
		UtilizationAfter: allocation.UtilizationAfter(amount),
		Critical:         allocation.IsCriticalAfter(amount),
	}, nil
}

func (s *BudgetService) loadAllocation(ctx context.Context, code string, fiscalYear int) (*suprimento.BudgetAllocation, error) {
	if fiscalYear == 0 {
		fiscalYear = time.Now().Year()
	}
	allocation, err := s.repo.FindByCode(ctx, code, fiscalYear)
	if err != nil {
		return nil, shared.ErrStorageUnavailable.WithDetails(err.Error())
	}
	if allocation == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Budget allocation not found")
	}
	return allocation, nil
}

// toBalanceResponse converts a domain BudgetAllocation to BalanceResponse
func toBalanceResponse(a *suprimento.BudgetAllocation) *BalanceResponse {
	return &BalanceResponse{
		Code:        a.Code,
		FiscalYear:  a.FiscalYear,
		Ceiling:     a.AnnualCeiling,
		Committed:   a.CommittedAmount,
		Available:   a.Available(),
		Utilization: a.Utilization(),
		Description: a.Description,
	}
}
