package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{"VALIDATION_FAILED", http.StatusBadRequest},
		{"NOT_FOUND", http.StatusNotFound},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"INVALID_TRANSITION", http.StatusConflict},
		{"PREREQUISITE_NOT_MET", http.StatusUnprocessableEntity},
		{"BUDGET_EXCEEDED", http.StatusUnprocessableEntity},
		{"RECONCILIATION_FAILED", http.StatusUnprocessableEntity},
		{"NOT_READY", http.StatusUnprocessableEntity},
		{"STORAGE_UNAVAILABLE", http.StatusServiceUnavailable},
		{"INVALID_AMOUNT", http.StatusBadRequest},
		{"INVALID_KIND", http.StatusBadRequest},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	resp := NewErrorResponseWithDetails("BUDGET_EXCEEDED", "Ceiling would be exceeded", "req-123",
		map[string]string{"available": "100.00"})

	assert.False(t, resp.Success)
	assert.Equal(t, "BUDGET_EXCEEDED", resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	assert.NotNil(t, resp.Error.Details)
}
