// internal/models/query_types.go
package models

import "strings"

// SortOrder selects the scan order of franchise queries.
type SortOrder string

const (
	// SortDesc is newest crawl first.
	SortDesc SortOrder = "desc"
	// SortAsc is oldest record first, by company id.
	SortAsc SortOrder = "asc"
)

// ParseSortOrder accepts asc/desc in any case; anything else is desc.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// OrderBy returns the SQL ORDER BY expression for the sort order.
func (o SortOrder) OrderBy() string {
	if o == SortAsc {
		return "company_id ASC"
	}
	return "crawled_at DESC, company_id DESC"
}
