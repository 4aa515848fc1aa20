package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	appsupr "github.com/fpfinfo/SODPA2026-V1-sub002/internal/application/suprimento"
)

// BudgetHandler handles budget-allocation endpoints
type BudgetHandler struct {
	BaseHandler
	budgetService *appsupr.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *appsupr.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// RegisterRoutes registers budget routes
func (h *BudgetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.Provision)
		budgets.GET("/:code/balance", h.Balance)
		budgets.GET("/:code/utilization", h.Utilization)
	}
}

// Provision creates the annual envelope for a budget code
// POST /api/v1/budgets
func (h *BudgetHandler) Provision(c *gin.Context) {
	var req appsupr.ProvisionAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.budgetService.ProvisionAllocation(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Balance returns the current balance of a budget code
// GET /api/v1/budgets/:code/balance?fiscal_year=2026
func (h *BudgetHandler) Balance(c *gin.Context) {
	code := c.Param("code")
	fiscalYear, ok := h.parseFiscalYear(c)
	if !ok {
		return
	}

	resp, err := h.budgetService.GetBalance(c.Request.Context(), code, fiscalYear)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Utilization reports what a commitment would do to the allocation's
// utilization percentage
// GET /api/v1/budgets/:code/utilization?amount=1500.00&fiscal_year=2026
func (h *BudgetHandler) Utilization(c *gin.Context) {
	code := c.Param("code")
	fiscalYear, ok := h.parseFiscalYear(c)
	if !ok {
		return
	}

	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil || !amount.IsPositive() {
		h.BadRequest(c, "A positive amount query parameter is required")
		return
	}

	resp, err := h.budgetService.ProjectCommitment(c.Request.Context(), code, fiscalYear, amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// parseFiscalYear parses the optional fiscal_year query parameter.
// Zero means the current year; the service applies that default.
func (h *BudgetHandler) parseFiscalYear(c *gin.Context) (int, bool) {
	raw := c.Query("fiscal_year")
	if raw == "" {
		return 0, true
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 2000 || year > 2100 {
		h.BadRequest(c, "Invalid fiscal_year query parameter")
		return 0, false
	}
	return year, true
}
