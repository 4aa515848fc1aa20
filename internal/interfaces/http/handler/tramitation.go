package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appsupr "github.com/fpfinfo/SODPA2026-V1-sub002/internal/application/suprimento"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
)

// TramitationHandler handles custody routing and signature batches
type TramitationHandler struct {
	BaseHandler
	tramitationService *appsupr.TramitationService
	idempotency        shared.IdempotencyStore
	idempotencyConfig  shared.IdempotencyConfig
	logger             *zap.Logger
}

// NewTramitationHandler creates a new TramitationHandler
func NewTramitationHandler(
	tramitationService *appsupr.TramitationService,
	idempotency shared.IdempotencyStore,
	idempotencyConfig shared.IdempotencyConfig,
	logger *zap.Logger,
) *TramitationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TramitationHandler{
		tramitationService: tramitationService,
		idempotency:        idempotency,
		idempotencyConfig:  idempotencyConfig,
		logger:             logger,
	}
}

// RegisterRoutes registers tramitation routes
func (h *TramitationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cases := rg.Group("/cases/:id")
	{
		cases.POST("/route-to-finance", h.RouteToFinance)
		cases.POST("/return-to-origin", h.ReturnToOrigin)
		cases.POST("/advance", h.Advance)
		cases.GET("/trail", h.Trail)
	}

	tasks := rg.Group("/signing-tasks")
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("/sign", h.SignTasks)
		tasks.POST("/:taskID/reject", h.RejectTask)
	}
}

// RouteToFinance routes a case to the finance office for signature
// POST /api/v1/cases/:id/route-to-finance
func (h *TramitationHandler) RouteToFinance(c *gin.Context) {
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid case ID")
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authenticated actor required")
		return
	}

	var req appsupr.RouteToFinanceRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.ActorID = actorID

	resp, err := h.tramitationService.RouteToFinance(c.Request.Context(), caseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ReturnToOrigin sends a case back to the custody that routed it
// POST /api/v1/cases/:id/return-to-origin
func (h *TramitationHandler) ReturnToOrigin(c *gin.Context) {
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid case ID")
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authenticated actor required")
		return
	}

	var req appsupr.ReturnToOriginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.ActorID = actorID

	resp, err := h.tramitationService.ReturnToOrigin(c.Request.Context(), caseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Advance moves a case forward after its signature batch is complete
// POST /api/v1/cases/:id/advance
func (h *TramitationHandler) Advance(c *gin.Context) {
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid case ID")
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authenticated actor required")
		return
	}

	resp, err := h.tramitationService.AdvanceAfterSigning(c.Request.Context(), caseID, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Trail returns the custody audit trail of a case
// GET /api/v1/cases/:id/trail
func (h *TramitationHandler) Trail(c *gin.Context) {
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid case ID")
		return
	}

	trail, err := h.tramitationService.GetTrail(c.Request.Context(), caseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trail)
}

// ListTasks lists signing tasks, optionally filtered by case and status
// GET /api/v1/signing-tasks
func (h *TramitationHandler) ListTasks(c *gin.Context) {
	var caseID *uuid.UUID
	if raw := c.Query("case_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid case_id filter")
			return
		}
		caseID = &id
	}

	tasks, err := h.tramitationService.ListTasks(c.Request.Context(), caseID, c.Query("status"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tasks)
}

// SignTasks signs a batch of tasks. An Idempotency-Key header guards against
// duplicate batch submissions; replays are rejected with 409.
// POST /api/v1/signing-tasks/sign
func (h *TramitationHandler) SignTasks(c *gin.Context) {
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authenticated actor required")
		return
	}

	var req appsupr.SignTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.SignerID = actorID

	if key := c.GetHeader("Idempotency-Key"); key != "" && h.idempotency != nil && h.idempotencyConfig.Enabled {
		isNew, err := h.idempotency.MarkProcessed(c.Request.Context(), key, h.idempotencyConfig.TTL)
		if err != nil {
			// Idempotency storage failure must not block signing; log and continue
			h.logger.Warn("idempotency check failed, proceeding without replay protection",
				zap.String("key", key), zap.Error(err))
		} else if !isNew {
			h.Error(c, http.StatusConflict, "DUPLICATE_REQUEST",
				"This signing batch was already submitted")
			return
		}
	}

	resp, err := h.tramitationService.SignTasks(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RejectTask rejects a single signing task with a reason
// POST /api/v1/signing-tasks/:taskID/reject
func (h *TramitationHandler) RejectTask(c *gin.Context) {
	taskID, ok := parseUUIDParam(c, "taskID")
	if !ok {
		h.BadRequest(c, "Invalid task ID")
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	task, err := h.tramitationService.RejectTask(c.Request.Context(), taskID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, task)
}
