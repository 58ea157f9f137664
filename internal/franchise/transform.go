package franchise

import (
	"math"
	"time"

	"franchise-service/internal/disclosure"
	"franchise-service/internal/models"
)

// ListItem is the lightweight list view of a franchise.
type ListItem struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	BrandName          string    `json:"brandName"`
	Category           string    `json:"category"`
	CEO                string    `json:"ceo"`
	BusinessType       string    `json:"businessType"`
	Address            string    `json:"address"`
	Phone              string    `json:"phone"`
	Status             string    `json:"status"`
	ImageURL           *string   `json:"imageUrl"`
	TotalStores        int       `json:"totalStores"`
	DirectStores       int       `json:"directStores"`
	FranchiseStores    int       `json:"franchiseStores"`
	EstablishedDate    string    `json:"establishedDate"`
	RegistrationNumber string    `json:"registrationNumber"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Detail is the full view: the list view, the raw documents and the
// aggregates older mobile clients read.
type Detail struct {
	ListItem

	BasicInfo       any `json:"basicInfo"`
	BusinessStatus  any `json:"businessStatus"`
	FranchiseeCosts any `json:"franchiseeCosts"`
	BusinessTerms   any `json:"businessTerms"`
	LegalCompliance any `json:"legalCompliance"`

	FinancialInfo FinancialInfo            `json:"financialInfo"`
	StoreInfo     StoreInfo                `json:"storeInfo"`
	CostInfo      disclosure.CostLabels    `json:"costInfo"`
	ContractInfo  disclosure.ContractTerms `json:"contractInfo"`
	LegalInfo     disclosure.LegalCounts   `json:"legalInfo"`
}

type FinancialInfo struct {
	FinancialData    any   `json:"financialData"`
	AdvertisingCosts []any `json:"advertisingCosts"`
}

type StoreInfo struct {
	disclosure.StoreCounts
	RegionalHeadquarters int `json:"regionalHeadquarters"`
}

// FilterItem is the view returned by the filter endpoint.
type FilterItem struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	BrandName       string    `json:"brandName"`
	Category        string    `json:"category"`
	Status          string    `json:"status"`
	TotalStores     int       `json:"totalStores"`
	DirectStores    int       `json:"directStores"`
	FranchiseStores int       `json:"franchiseStores"`
	TerminationRate float64   `json:"terminationRate"`
	AverageSales    int64     `json:"averageSales"`
	MedianSales     int64     `json:"medianSales"`
	FranchiseFee    int64     `json:"franchiseFee"`
	EducationFee    int64     `json:"educationFee"`
	Deposit         int64     `json:"deposit"`
	InteriorCost    int64     `json:"interiorCost"`
	TotalInvestment int64     `json:"totalInvestment"`
	RoyaltyRate     float64   `json:"royaltyRate"`
	HasRoyalty      bool      `json:"hasRoyalty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// view is a record with its documents parsed and facts extracted once.
type view struct {
	record *models.FranchiseRecord
	docs   disclosure.Documents
	facts  disclosure.Facts
}

func newView(r *models.FranchiseRecord) view {
	docs := disclosure.ParseDocuments(r.BasicInfo, r.BusinessStatus, r.FranchiseeCosts, r.BusinessTerms, r.LegalCompliance)
	return view{record: r, docs: docs, facts: disclosure.Extract(docs)}
}

// ToListItem builds the list view of a record.
func ToListItem(r *models.FranchiseRecord, now time.Time) ListItem {
	return newView(r).listItem(now)
}

// ToDetail builds the detail view of a record.
func ToDetail(r *models.FranchiseRecord, now time.Time) Detail {
	return newView(r).detail(now)
}

// ToFilterItem builds the filter view of a record.
func ToFilterItem(r *models.FranchiseRecord, now time.Time) FilterItem {
	return newView(r).filterItem(now)
}

func (v view) status(now time.Time) string {
	return DeriveStatus(v.facts.Stores.Total, v.facts.EstablishedDate, now)
}

func (v view) listItem(now time.Time) ListItem {
	f := v.facts
	return ListItem{
		ID:                 v.record.CompanyID,
		Name:               v.record.DisplayName(),
		BrandName:          v.record.DisplayBrand(),
		Category:           f.Category,
		CEO:                f.CEO,
		BusinessType:       f.BusinessType,
		Address:            f.Address,
		Phone:              f.Phone,
		Status:             v.status(now),
		TotalStores:        f.Stores.Total,
		DirectStores:       f.Stores.Direct,
		FranchiseStores:    f.Stores.Franchise,
		EstablishedDate:    f.EstablishedDate,
		RegistrationNumber: f.RegistrationNumber,
		CreatedAt:          v.record.CrawledAt,
		UpdatedAt:          v.record.UpdatedAt,
	}
}

func (v view) detail(now time.Time) Detail {
	r := v.record
	return Detail{
		ListItem: v.listItem(now),

		BasicInfo:       disclosure.DecodeJSON(r.BasicInfo),
		BusinessStatus:  disclosure.DecodeJSON(r.BusinessStatus),
		FranchiseeCosts: disclosure.DecodeJSON(r.FranchiseeCosts),
		BusinessTerms:   disclosure.DecodeJSON(r.BusinessTerms),
		LegalCompliance: disclosure.DecodeJSON(r.LegalCompliance),

		FinancialInfo: FinancialInfo{
			FinancialData:    disclosure.FinancialData(v.docs.BasicInfo),
			AdvertisingCosts: []any{},
		},
		StoreInfo:    StoreInfo{StoreCounts: v.facts.Stores},
		CostInfo:     disclosure.Labels(v.docs.FranchiseeCosts),
		ContractInfo: v.facts.Contract,
		LegalInfo:    v.facts.Legal,
	}
}

func (v view) filterItem(now time.Time) FilterItem {
	f := v.facts
	return FilterItem{
		ID:              v.record.CompanyID,
		Name:            v.record.DisplayName(),
		BrandName:       v.record.DisplayBrand(),
		Category:        f.Category,
		Status:          v.status(now),
		TotalStores:     f.Stores.Total,
		DirectStores:    f.Stores.Direct,
		FranchiseStores: f.Stores.Franchise,
		TerminationRate: round2(f.TerminationRate),
		AverageSales:    f.Sales.Average,
		MedianSales:     f.Sales.Median,
		FranchiseFee:    f.Costs.FranchiseFee,
		EducationFee:    f.Costs.EducationFee,
		Deposit:         f.Costs.Deposit,
		InteriorCost:    f.Costs.InteriorCost,
		TotalInvestment: f.Costs.TotalInvestment,
		RoyaltyRate:     f.Costs.RoyaltyRate,
		HasRoyalty:      f.Costs.RoyaltyRate > 0,
		CreatedAt:       v.record.CrawledAt,
		UpdatedAt:       v.record.UpdatedAt,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
