package handler

import (
	"github.com/gin-gonic/gin"

	appevent "github.com/fpfinfo/SODPA2026-V1-sub002/internal/application/event"
)

// OutboxHandler exposes administrative endpoints for the event outbox
type OutboxHandler struct {
	BaseHandler
	outboxService *appevent.OutboxService
}

// NewOutboxHandler creates a new OutboxHandler
func NewOutboxHandler(outboxService *appevent.OutboxService) *OutboxHandler {
	return &OutboxHandler{outboxService: outboxService}
}

// RegisterRoutes registers outbox admin routes
func (h *OutboxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	outbox := rg.Group("/admin/outbox")
	{
		outbox.GET("/stats", h.Stats)
		outbox.GET("/dead", h.ListDead)
		outbox.GET("/:id", h.Get)
		outbox.POST("/:id/retry", h.Retry)
		outbox.POST("/retry-all", h.RetryAll)
	}
}

// Stats returns counts per outbox status
// GET /api/v1/admin/outbox/stats
func (h *OutboxHandler) Stats(c *gin.Context) {
	stats, err := h.outboxService.GetStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// ListDead lists dead-lettered entries
// GET /api/v1/admin/outbox/dead
func (h *OutboxHandler) ListDead(c *gin.Context) {
	var filter appevent.OutboxFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.outboxService.GetDeadLetterEntries(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Get returns a single outbox entry
// GET /api/v1/admin/outbox/:id
func (h *OutboxHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid outbox entry ID")
		return
	}

	entry, err := h.outboxService.GetEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Retry resets a dead entry for another delivery attempt
// POST /api/v1/admin/outbox/:id/retry
func (h *OutboxHandler) Retry(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid outbox entry ID")
		return
	}

	entry, err := h.outboxService.RetryDeadEntry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// RetryAll resets every dead entry for another delivery attempt, optionally
// only those of one event kind
// POST /api/v1/admin/outbox/retry-all?event_type=
func (h *OutboxHandler) RetryAll(c *gin.Context) {
	count, err := h.outboxService.RetryAllDeadEntries(c.Request.Context(), c.Query("event_type"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"reset": count})
}
