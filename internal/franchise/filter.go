package franchise

import (
	"strings"

	"franchise-service/internal/common/pagination"
	"franchise-service/internal/disclosure"
	"franchise-service/internal/models"
)

// Category sentinels meaning "no restriction".
const (
	CategoryAll      = "ALL"
	CategoryAllLocal = "전체"
)

// KnownCategories are the category labels clients can browse by.
var KnownCategories = []string{
	CategoryAll,
	"한식",
	"중식",
	"일식",
	"양식",
	"기타 외식",
	"카페·디저트",
	"치킨·피자",
	"편의점",
	"미용·뷰티",
	"교육·학원",
	"생활서비스",
	"의류·잡화",
	"소매업",
	"서비스업",
}

// PageQuery holds the paging parameters shared by every listing endpoint.
type PageQuery struct {
	Page      int    `form:"page,default=1" binding:"min=1"`
	Size      int    `form:"size,default=20" binding:"min=1,max=100"`
	SortOrder string `form:"sortOrder,default=desc" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// DefaultPageQuery is page 1 of 20, newest first.
func DefaultPageQuery() PageQuery {
	return PageQuery{Page: pagination.DefaultPage, Size: pagination.DefaultSize, SortOrder: string(models.SortDesc)}
}

// Order returns the parsed sort order.
func (q PageQuery) Order() models.SortOrder {
	return models.ParseSortOrder(q.SortOrder)
}

// FilterCriteria are the optional bounds of a filter request. Nil means the
// criterion is absent.
type FilterCriteria struct {
	PageQuery

	MinInvestment      *int64   `form:"minInvestment" binding:"omitempty,min=0"`
	MaxInvestment      *int64   `form:"maxInvestment" binding:"omitempty,min=0"`
	MinRevenue         *int64   `form:"minRevenue" binding:"omitempty,min=0"`
	MaxRevenue         *int64   `form:"maxRevenue" binding:"omitempty,min=0"`
	MinStores          *int     `form:"minStores" binding:"omitempty,min=0"`
	MaxStores          *int     `form:"maxStores" binding:"omitempty,min=0"`
	MaxTerminationRate *float64 `form:"maxTerminationRate" binding:"omitempty,min=0,max=100"`
	HasRoyalty         *bool    `form:"hasRoyalty"`
	Category           *string  `form:"category"`
}

// Matches reports whether facts satisfy every present criterion. Bounds are
// inclusive and category is an exact match.
func (c FilterCriteria) Matches(f disclosure.Facts) bool {
	investment := f.Costs.TotalInvestment
	if c.MinInvestment != nil && investment < *c.MinInvestment {
		return false
	}
	if c.MaxInvestment != nil && investment > *c.MaxInvestment {
		return false
	}

	revenue := f.Sales.Average
	if c.MinRevenue != nil && revenue < *c.MinRevenue {
		return false
	}
	if c.MaxRevenue != nil && revenue > *c.MaxRevenue {
		return false
	}

	stores := f.Stores.Total
	if c.MinStores != nil && stores < *c.MinStores {
		return false
	}
	if c.MaxStores != nil && stores > *c.MaxStores {
		return false
	}

	if c.MaxTerminationRate != nil && f.TerminationRate > *c.MaxTerminationRate {
		return false
	}
	if c.HasRoyalty != nil && (f.Costs.RoyaltyRate > 0) != *c.HasRoyalty {
		return false
	}
	if c.Category != nil && f.Category != *c.Category {
		return false
	}
	return true
}

// matchesCategory is the category browsing rule: ALL and 전체 match
// everything, otherwise equality or substring.
func matchesCategory(extracted, requested string) bool {
	requested = strings.TrimSpace(requested)
	if requested == "" || requested == CategoryAll || requested == CategoryAllLocal {
		return true
	}
	return extracted == requested || strings.Contains(extracted, requested)
}
