// Package pagination builds the paged response envelope shared by every
// listing endpoint.
package pagination

import "math"

const (
	DefaultPage = 1
	DefaultSize = 20
	MaxSize     = 100
)

// Page is the uniform paging envelope.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	CurrentPage   int   `json:"currentPage"`
	HasNext       bool  `json:"hasNext"`
	HasPrevious   bool  `json:"hasPrevious"`
}

// Build wraps one page of items. The page number is not clamped, so a page
// past the end yields empty content with HasNext false.
func Build[T any](items []T, totalCount int64, page, size int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := TotalPages(totalCount, size)
	return Page[T]{
		Content:       items,
		TotalElements: totalCount,
		TotalPages:    totalPages,
		CurrentPage:   page,
		HasNext:       page < totalPages,
		HasPrevious:   page > 1,
	}
}

// TotalPages is ceil(totalCount / size), or 0 when either is not positive.
func TotalPages(totalCount int64, size int) int {
	if totalCount <= 0 || size <= 0 {
		return 0
	}
	return int((totalCount + int64(size) - 1) / int64(size))
}

// Offset is the number of items skipped before page. ok is false when the
// offset does not fit in an int; no such page can hold items.
func Offset(page, size int) (offset int, ok bool) {
	if page < 1 || size < 1 {
		return 0, true
	}
	if page-1 > math.MaxInt/size {
		return 0, false
	}
	return (page - 1) * size, true
}

// Slice returns the window of items belonging to page.
func Slice[T any](items []T, page, size int) []T {
	if size < 1 {
		return []T{}
	}
	start, ok := Offset(page, size)
	if !ok || start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Map converts the content of a page, keeping its paging metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, len(p.Content))
	for i, item := range p.Content {
		out[i] = fn(item)
	}
	return Page[U]{
		Content:       out,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		CurrentPage:   p.CurrentPage,
		HasNext:       p.HasNext,
		HasPrevious:   p.HasPrevious,
	}
}
