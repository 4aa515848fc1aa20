package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appsupr "github.com/fpfinfo/SODPA2026-V1-sub002/internal/application/suprimento"
)

// DocumentHandler handles execution-document endpoints
type DocumentHandler struct {
	BaseHandler
	workflowService *appsupr.WorkflowService
	renderService   *appsupr.RenderService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(workflowService *appsupr.WorkflowService, renderService *appsupr.RenderService) *DocumentHandler {
	return &DocumentHandler{
		workflowService: workflowService,
		renderService:   renderService,
	}
}

// RegisterRoutes registers document routes
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cases := rg.Group("/cases/:id")
	{
		cases.GET("/documents", h.List)
		cases.GET("/documents/availability", h.Availability)
		cases.POST("/documents", h.Generate)
		cases.POST("/documents/:docID/sign", h.Sign)
		cases.GET("/documents/:docID/render", h.Render)
		cases.GET("/reconciliation", h.Reconciliation)
	}
}

// List returns the case's documents in generation order
// GET /api/v1/cases/:id/documents
func (h *DocumentHandler) List(c *gin.Context) {
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid case ID")
		return
	}

	docs, err := h.workflowService.ListDocuments(c.Request.Context(), caseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, docs)
}

// Availability reports per kind whether drafting is currently allowed
// GET /api/v1/cases/:id/documents/availability
func (h *DocumentHandler) Availability(c *gin.Context) {
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid case ID")
		return
	}

	availability, err := h.workflowService.Availability(c.Request.Context(), caseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, availability)
}

// Generate drafts the next execution document
// POST /api/v1/cases/:id/documents
func (h *DocumentHandler) Generate(c *gin.Context) {
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid case ID")
		return
	}

	var req appsupr.GenerateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	doc, err := h.workflowService.GenerateDocument(c.Request.Context(), caseID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// Sign signs a drafted document
// POST /api/v1/cases/:id/documents/:docID/sign
func (h *DocumentHandler) Sign(c *gin.Context) {
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid case ID")
		return
	}
	docID, ok := parseUUIDParam(c, "docID")
	if !ok {
		h.BadRequest(c, "Invalid document ID")
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Authenticated actor required")
		return
	}

	doc, err := h.workflowService.SignDocument(c.Request.Context(), caseID, docID,
		appsupr.SignDocumentRequest{SignerID: actorID})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Render returns the printable PDF form of a document
// GET /api/v1/cases/:id/documents/:docID/render
func (h *DocumentHandler) Render(c *gin.Context) {
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid case ID")
		return
	}
	docID, ok := parseUUIDParam(c, "docID")
	if !ok {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	rendered, err := h.renderService.RenderDocument(c.Request.Context(), caseID, docID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+rendered.Filename+`"`)
	c.Data(http.StatusOK, "application/pdf", rendered.PDFData)
}

// Reconciliation runs the triple check across the monetary documents
// GET /api/v1/cases/:id/reconciliation
func (h *DocumentHandler) Reconciliation(c *gin.Context) {
	caseID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid case ID")
		return
	}

	report, err := h.workflowService.ReconciliationReport(c.Request.Context(), caseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
