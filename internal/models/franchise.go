// internal/models/franchise.go
package models

import (
	"strings"
	"time"
)

// DefaultName is shown when neither company nor brand name is known.
const DefaultName = "정보 없음"

// FranchiseRecord is one row of the franchises table. The five document
// columns are opaque report JSON.
type FranchiseRecord struct {
	CompanyID       int64
	CompanyName     *string
	BrandName       *string
	BasicInfo       []byte
	BusinessStatus  []byte
	FranchiseeCosts []byte
	BusinessTerms   []byte
	LegalCompliance []byte
	CrawledAt       time.Time
	UpdatedAt       time.Time
}

// DisplayName is company name, then brand name, then DefaultName.
func (r *FranchiseRecord) DisplayName() string {
	return firstNonEmpty(r.CompanyName, r.BrandName)
}

// DisplayBrand is brand name, then company name, then DefaultName.
func (r *FranchiseRecord) DisplayBrand() string {
	return firstNonEmpty(r.BrandName, r.CompanyName)
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v != nil && strings.TrimSpace(*v) != "" {
			return *v
		}
	}
	return DefaultName
}
