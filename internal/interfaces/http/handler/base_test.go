package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/domain/shared"
	"github.com/fpfinfo/SODPA2026-V1-sub002/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandlerSuccess(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.Success(c, gin.H{"value": "ok"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandlerSuccessWithMeta(t *testing.T) {
	c, w := newTestContext(t)

	h := &BaseHandler{}
	h.SuccessWithMeta(c, []string{"a", "b"}, 45, 2, 20)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}

func TestBaseHandlerErrorHelpers(t *testing.T) {
	tests := []struct {
		name         string
		call         func(h *BaseHandler, c *gin.Context)
		expectStatus int
		expectCode   string
	}{
		{
			name:         "bad request",
			call:         func(h *BaseHandler, c *gin.Context) { h.BadRequest(c, "bad") },
			expectStatus: http.StatusBadRequest,
			expectCode:   dto.ErrCodeBadRequest,
		},
		{
			name:         "not found",
			call:         func(h *BaseHandler, c *gin.Context) { h.NotFound(c, "missing") },
			expectStatus: http.StatusNotFound,
			expectCode:   dto.ErrCodeNotFound,
		},
		{
			name:         "unauthorized",
			call:         func(h *BaseHandler, c *gin.Context) { h.Unauthorized(c, "no token") },
			expectStatus: http.StatusUnauthorized,
			expectCode:   dto.ErrCodeUnauthorized,
		},
		{
			name:         "internal error",
			call:         func(h *BaseHandler, c *gin.Context) { h.InternalError(c, "boom") },
			expectStatus: http.StatusInternalServerError,
			expectCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(t)
			h := &BaseHandler{}

			tt.call(h, c)

			assert.Equal(t, tt.expectStatus, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectCode, resp.Error.Code)
		})
	}
}

func TestBaseHandlerHandleError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("nil error writes nothing", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, nil)
		assert.Empty(t, w.Body.String())
	})

	t.Run("business rejection maps to 422", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, shared.NewDomainError(shared.CodeBudgetExceeded, "ceiling reached"))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, shared.CodeBudgetExceeded, resp.Error.Code)
		assert.Equal(t, "ceiling reached", resp.Error.Message)
	})

	t.Run("state conflict maps to 409", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, shared.NewDomainError(shared.CodeInvalidTransition, "already signed"))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("storage outage maps to 503", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, shared.ErrStorageUnavailable)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("domain error details survive the envelope", func(t *testing.T) {
		c, w := newTestContext(t)
		err := shared.NewDomainError(shared.CodeValidationFailed, "checklist failed").
			WithDetails(map[string]any{"failed_items": []string{"cpf"}})
		h.HandleError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.NotNil(t, resp.Error.Details)
	})

	t.Run("unknown error maps to 500", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, assert.AnError)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	})
}

func TestParseUUIDParam(t *testing.T) {
	t.Run("valid uuid", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Params = gin.Params{{Key: "id", Value: "550e8400-e29b-41d4-a716-446655440000"}}

		id, ok := parseUUIDParam(c, "id")
		assert.True(t, ok)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())
	})

	t.Run("invalid uuid", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

		_, ok := parseUUIDParam(c, "id")
		assert.False(t, ok)
	})
}
