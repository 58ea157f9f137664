package franchise

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"franchise-service/internal/models"

	"github.com/stretchr/testify/require"
)

var (
	fixedNow  = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	crawledAt = time.Date(2025, 5, 20, 2, 0, 0, 0, time.UTC)
)

func strPtr(s string) *string { return &s }

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("..", "disclosure", "testdata", name))
	require.NoError(t, err)
	return raw
}

// fixtureRecord is the fully populated record backed by the disclosure
// golden files.
func fixtureRecord(t *testing.T) models.FranchiseRecord {
	return models.FranchiseRecord{
		CompanyID:       1001,
		CompanyName:     strPtr("(주)맛있는치킨"),
		BrandName:       strPtr("맛있는치킨"),
		BasicInfo:       readFixture(t, "basic_info.json"),
		BusinessStatus:  readFixture(t, "business_status.json"),
		FranchiseeCosts: readFixture(t, "franchisee_costs.json"),
		BusinessTerms:   readFixture(t, "business_terms.json"),
		LegalCompliance: readFixture(t, "legal_compliance.json"),
		CrawledAt:       crawledAt,
		UpdatedAt:       crawledAt.Add(time.Hour),
	}
}

type recordFixture struct {
	id          int64
	name        string
	category    string
	established string
	stores      int
	fee         string // franchise fee, e.g. "1,000만원"
	avgSales    string
	royalty     string // empty for none
	closures    int
}

func buildRecord(s recordFixture) models.FranchiseRecord {
	basic := fmt.Sprintf(`{"sections":[{"title":"일반 현황","data":[
		{"title":"업종","value":%q},
		{"title":"대표자","value":"김대표"},
		{"title":"사업자등록일","value":%q}]}]}`, s.category, s.established)

	status := fmt.Sprintf(`{"sections":[
		{"title":"가맹점 및 직영점 현황","data":[{"region":"전체","year_data":{"2023":
			{"total":"%d","direct_count":"0","franchise_count":"%d","contract_terminations":"%d","contract_cancellations":"0"}}}]},
		{"title":"가맹점 평균 매출액","data":[{"year":"2023","average_sales":%q,"median_sales":"0"}]}]}`,
		s.stores, s.stores, s.closures, s.avgSales)

	costs := fmt.Sprintf(`{"sections":[{"title":"가맹점사업자 부담금","data":[{"key":"join_fee","value":%q}]}]}`, s.fee)

	terms := `{"sections":[]}`
	if s.royalty != "" {
		terms = fmt.Sprintf(`{"sections":[{"title":"영업 조건","data":[{"title":"로열티","value":%q}]}]}`, s.royalty)
	}

	return models.FranchiseRecord{
		CompanyID:       s.id,
		CompanyName:     strPtr(s.name),
		BasicInfo:       []byte(basic),
		BusinessStatus:  []byte(status),
		FranchiseeCosts: []byte(costs),
		BusinessTerms:   []byte(terms),
		CrawledAt:       crawledAt.Add(-time.Duration(s.id) * time.Hour),
		UpdatedAt:       crawledAt,
	}
}

// memoryRepo is an in-memory Repository keeping records in company id order.
type memoryRepo struct {
	records []models.FranchiseRecord
	err     error

	allCalls  int
	listCalls int
}

func (m *memoryRepo) ordered(order models.SortOrder) []models.FranchiseRecord {
	out := make([]models.FranchiseRecord, len(m.records))
	copy(out, m.records)
	if order == models.SortDesc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func (m *memoryRepo) Count(_ context.Context, search string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.matching(search))), nil
}

func (m *memoryRepo) matching(search string) []models.FranchiseRecord {
	if search == "" {
		return m.records
	}
	var out []models.FranchiseRecord
	for _, r := range m.records {
		if r.DisplayName() == search || r.DisplayBrand() == search {
			out = append(out, r)
		}
	}
	return out
}

func (m *memoryRepo) List(_ context.Context, q ListQuery) ([]models.FranchiseRecord, error) {
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	all := m.ordered(q.Order)
	if q.Search != "" {
		all = m.matching(q.Search)
	}
	if q.Offset >= len(all) {
		return nil, nil
	}
	end := q.Offset + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[q.Offset:end], nil
}

func (m *memoryRepo) All(_ context.Context, order models.SortOrder) ([]models.FranchiseRecord, error) {
	m.allCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.ordered(order), nil
}

func (m *memoryRepo) GetByID(_ context.Context, id int64) (*models.FranchiseRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.records {
		if m.records[i].CompanyID == id {
			return &m.records[i], nil
		}
	}
	return nil, nil
}

// catalogue is a small mixed data set in company id order.
func catalogue() []models.FranchiseRecord {
	return []models.FranchiseRecord{
		buildRecord(recordFixture{id: 1, name: "가나치킨", category: "치킨", established: "2010.01.01", stores: 120, fee: "1,000만원", avgSales: "3억", royalty: "3%", closures: 6}),
		buildRecord(recordFixture{id: 2, name: "다라카페", category: "카페", established: "2024.12.01", stores: 5, fee: "500만원", avgSales: "1억", closures: 0}),
		buildRecord(recordFixture{id: 3, name: "마바피자", category: "치킨·피자", established: "2021.03.01", stores: 60, fee: "2,000만원", avgSales: "2억5000만원", royalty: "5%", closures: 12}),
		buildRecord(recordFixture{id: 4, name: "사아분식", category: "분식", established: "2018.07.15", stores: 30, fee: "300만원", avgSales: "9000만원", closures: 1}),
		buildRecord(recordFixture{id: 5, name: "자차치킨", category: "치킨", established: "2023.09.01", stores: 15, fee: "800만원", avgSales: "1억2000만원", royalty: "0%", closures: 0}),
	}
}
