package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestDisplayNames(t *testing.T) {
	tests := []struct {
		name      string
		company   *string
		brand     *string
		wantName  string
		wantBrand string
	}{
		{"both", strPtr("(주)교촌에프앤비"), strPtr("교촌치킨"), "(주)교촌에프앤비", "교촌치킨"},
		{"company only", strPtr("(주)교촌에프앤비"), nil, "(주)교촌에프앤비", "(주)교촌에프앤비"},
		{"brand only", nil, strPtr("교촌치킨"), "교촌치킨", "교촌치킨"},
		{"blank company", strPtr("  "), strPtr("교촌치킨"), "교촌치킨", "교촌치킨"},
		{"neither", nil, strPtr(""), DefaultName, DefaultName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &FranchiseRecord{CompanyName: tt.company, BrandName: tt.brand}
			assert.Equal(t, tt.wantName, r.DisplayName())
			assert.Equal(t, tt.wantBrand, r.DisplayBrand())
		})
	}
}

func TestSortOrder(t *testing.T) {
	assert.Equal(t, SortAsc, ParseSortOrder("ASC"))
	assert.Equal(t, SortDesc, ParseSortOrder("desc"))
	assert.Equal(t, SortDesc, ParseSortOrder(""))
	assert.Equal(t, SortDesc, ParseSortOrder("sideways"))

	assert.Equal(t, "company_id ASC", SortAsc.OrderBy())
	assert.Contains(t, SortDesc.OrderBy(), "crawled_at DESC")
}
