package handler

import (
	"github.com/gin-gonic/gin"

	appsupr "github.com/fpfinfo/SODPA2026-V1-sub002/internal/application/suprimento"
)

// CaseHandler handles supply-case endpoints
type CaseHandler struct {
	BaseHandler
	caseService *appsupr.CaseService
}

// NewCaseHandler creates a new CaseHandler
func NewCaseHandler(caseService *appsupr.CaseService) *CaseHandler {
	return &CaseHandler{caseService: caseService}
}

// RegisterRoutes registers case routes
func (h *CaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cases := rg.Group("/cases")
	{
		cases.POST("", h.Create)
		cases.GET("", h.List)
		cases.GET("/protocol/:protocol", h.GetByProtocol)
		cases.GET("/:id", h.Get)
		cases.PATCH("/:id/approved-value", h.SetApprovedValue)
		cases.GET("/:id/conformity", h.Conformity)
		cases.POST("/:id/attest", h.Attest)
		cases.POST("/:id/archive", h.Archive)
	}
}

// Create opens a new supply case
// POST /api/v1/cases
func (h *CaseHandler) Create(c *gin.Context) {
	var req appsupr.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.caseService.CreateCase(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List lists supply cases with filtering and pagination
// GET /api/v1/cases
func (h *CaseHandler) List(c *gin.Context) {
	var filter appsupr.CaseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	cases, total, err := h.caseService.ListCases(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, cases, total, filter.Page, filter.PageSize)
}

// Get gets a supply case by ID
// GET /api/v1/cases/:id
func (h *CaseHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid case ID")
		return
	}

	resp, err := h.caseService.GetCase(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByProtocol gets a supply case by protocol number
// GET /api/v1/cases/protocol/:protocol
func (h *CaseHandler) GetByProtocol(c *gin.Context) {
	protocol := c.Param("protocol")
	if protocol == "" {
		h.BadRequest(c, "Protocol number is required")
		return
	}

	resp, err := h.caseService.GetCaseByProtocol(c.Request.Context(), protocol)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetApprovedValue adjusts the approved value during review
// PATCH /api/v1/cases/:id/approved-value
func (h *CaseHandler) SetApprovedValue(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid case ID")
		return
	}

	var req appsupr.UpdateApprovedValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.caseService.SetApprovedValue(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Conformity evaluates the conformity checklist for a case
// GET /api/v1/cases/:id/conformity
func (h *CaseHandler) Conformity(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid case ID")
		return
	}

	resp, err := h.caseService.ConformityReport(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Attest records the manager attestation
// POST /api/v1/cases/:id/attest
func (h *CaseHandler) Attest(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid case ID")
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authenticated actor required")
		return
	}

	resp, err := h.caseService.Attest(c.Request.Context(), id, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Archive terminates the case lifecycle
// POST /api/v1/cases/:id/archive
func (h *CaseHandler) Archive(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid case ID")
		return
	}

	resp, err := h.caseService.Archive(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
