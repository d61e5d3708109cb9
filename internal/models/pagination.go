package models

import "math"

// MaxPageSize caps every listing.
const MaxPageSize = 100

// Pagination describes where a page sits in a listing.
type Pagination struct {
	Total       int64 `json:"total"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
}

// NewPagination computes totalPages as ceil(total / pageSize).
func NewPagination(total int64, page, pageSize int) Pagination {
	var pages int64
	if pageSize > 0 {
		pages = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return Pagination{Total: total, TotalPages: pages, CurrentPage: page}
}

// NormalizePage clamps a 1-indexed page and a page size, returning the offset as well.
func NormalizePage(page, pageSize, defaultSize int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	// keep the offset from overflowing on absurd page numbers
	if maxPage := math.MaxInt/pageSize - 1; page > maxPage {
		page = maxPage
	}
	return page, pageSize, (page - 1) * pageSize
}
