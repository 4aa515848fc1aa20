package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CaseSortFields contains allowed sort fields for supply cases
var CaseSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"updated_at":      true,
	"protocol_number": true,
	"requester_name":  true,
	"status":          true,
	"custody":         true,
	"budget_code":     true,
	"requested_value": true,
	"supply_category": true,
}

// SigningTaskSortFields contains allowed sort fields for signing tasks
var SigningTaskSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"document_kind": true,
	"status":        true,
	"amount":        true,
	"signed_at":     true,
}
