package persistence

import "strings"

// ValidateSortOrder validates and normalizes a sort direction.
// Returns "asc" or "desc", defaulting to defaultDir for anything else.
func ValidateSortOrder(dir, defaultDir string) string {
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "asc":
		return "asc"
	case "desc":
		return "desc"
	default:
		return defaultDir
	}
}

// ValidateSortField validates a sort field against a whitelist, returning the
// default when the field is unknown. Sort fields come straight from query
// strings and must never reach the ORDER BY clause unchecked.
func ValidateSortField(field string, allowed map[string]bool, defaultField string) string {
	field = strings.ToLower(strings.TrimSpace(field))
	if allowed[field] {
		return field
	}
	return defaultField
}

// CommonSortFields contains fields common to every aggregate
var CommonSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
}

// ContactSortFields contains allowed sort fields for contacts
var ContactSortFields = mergeSortFields(CommonSortFields, map[string]bool{
	"name":    true,
	"company": true,
	"type":    true,
	"email":   true,
})

// StockItemSortFields contains allowed sort fields for stock items
var StockItemSortFields = mergeSortFields(CommonSortFields, map[string]bool{
	"name":     true,
	"code":     true,
	"quantity": true,
})

// ProjectSortFields contains allowed sort fields for projects
var ProjectSortFields = mergeSortFields(CommonSortFields, map[string]bool{
	"name":        true,
	"status":      true,
	"hourly_rate": true,
})

// DocumentSortFields contains allowed sort fields for quotes and invoices
var DocumentSortFields = mergeSortFields(CommonSortFields, map[string]bool{
	"number":      true,
	"issue_date":  true,
	"status":      true,
	"gross_total": true,
})

// MovementSortFields contains allowed sort fields for ledger movements
var MovementSortFields = mergeSortFields(CommonSortFields, map[string]bool{
	"date":         true,
	"type":         true,
	"amount_total": true,
})

// EventSortFields contains allowed sort fields for calendar events
var EventSortFields = mergeSortFields(CommonSortFields, map[string]bool{
	"date":  true,
	"title": true,
	"kind":  true,
})

func mergeSortFields(base, extra map[string]bool) map[string]bool {
	merged := make(map[string]bool, len(base)+len(extra))
	for k := range base {
		merged[k] = true
	}
	for k := range extra {
		merged[k] = true
	}
	return merged
}
