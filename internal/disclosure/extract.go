package disclosure

import (
	"fmt"
	"sort"
	"strings"
)

// Section titles and labels used by the disclosure filings.
const (
	SectionStoreStatus   = "가맹점 및 직영점 현황"
	SectionStoreChanges  = "가맹점 변동 현황"
	SectionFranchiseeFee = "가맹점사업자 부담금"
	SectionFinancial     = "재무 상황"
	SectionViolations    = "법 위반 사실"

	RegionNationwide = "전체"
)

// Extraction defaults.
const (
	DefaultCategory     = "기타"
	DefaultCEO          = "정보 없음"
	DefaultBusinessType = "법인"
	DefaultAddress      = "주소 정보 없음"
	DefaultPhone        = "전화번호 정보 없음"

	DefaultInitialContractYears   = 3
	DefaultExtensionContractYears = 2
)

var salesSectionTitles = []string{"평균매출", "평균 매출", "매출 현황"}

// StoreCounts is the latest nationwide store breakdown.
type StoreCounts struct {
	Total     int `json:"totalStores"`
	Direct    int `json:"directStores"`
	Franchise int `json:"franchiseStores"`
}

// Costs are the up-front franchisee cost components in won.
type Costs struct {
	FranchiseFee    int64   `json:"franchiseFee"`
	EducationFee    int64   `json:"educationFee"`
	Deposit         int64   `json:"deposit"`
	InteriorCost    int64   `json:"interiorCost"`
	TotalInvestment int64   `json:"totalInvestment"`
	RoyaltyRate     float64 `json:"royaltyRate"`
}

// CostLabels are the cost values as written in the filing.
type CostLabels struct {
	JoinFee          string `json:"joinFee"`
	EducationFee     string `json:"educationFee"`
	SecurityDeposit  string `json:"securityDeposit"`
	TotalInitialCost string `json:"totalInitialCost"`
}

// Sales are the latest average and median franchisee sales in won.
type Sales struct {
	Average int64 `json:"averageSales"`
	Median  int64 `json:"medianSales"`
}

// LegalCounts are the counts of recorded law violations.
type LegalCounts struct {
	FTCCorrections      int `json:"ftcCorrections"`
	CivilLawsuits       int `json:"civilLawsuits"`
	CriminalConvictions int `json:"criminalConvictions"`
}

// ContractTerms are the franchise agreement periods in years.
type ContractTerms struct {
	InitialPeriodYears   int `json:"initialPeriodYears"`
	ExtensionPeriodYears int `json:"extensionPeriodYears"`
}

// guard turns a panic inside an extractor into its default result.
func guard[T any](def T, fn func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			out = def
		}
	}()
	return fn()
}

func lookupString(r Report, def string, labels ...string) string {
	return guard(def, func() string {
		v, ok := r.Lookup(labels...)
		if !ok {
			return def
		}
		s := strings.TrimSpace(fmt.Sprint(v))
		if s == "" {
			return def
		}
		return s
	})
}

// Category returns the business category (업종).
func Category(basicInfo Report) string {
	return lookupString(basicInfo, DefaultCategory, "업종", "category")
}

// CEOName returns the representative (대표자).
func CEOName(basicInfo Report) string {
	return lookupString(basicInfo, DefaultCEO, "대표자")
}

// BusinessType returns the business entity type (사업자유형).
func BusinessType(basicInfo Report) string {
	return lookupString(basicInfo, DefaultBusinessType, "사업자유형", "business_type")
}

// Address returns the head office address (주소).
func Address(basicInfo Report) string {
	return lookupString(basicInfo, DefaultAddress, "주소")
}

// Phone returns the main phone number (대표번호).
func Phone(basicInfo Report) string {
	return lookupString(basicInfo, DefaultPhone, "대표번호")
}

// RegistrationNumber returns the disclosure registration number (등록번호).
func RegistrationNumber(basicInfo Report) string {
	return lookupString(basicInfo, "", "등록번호")
}

// EstablishedDate returns the incorporation date, falling back to the
// business registration date. The ".." placeholder is treated as absent.
func EstablishedDate(basicInfo Report) string {
	for _, label := range []string{"법인설립등기일", "사업자등록일"} {
		s := lookupString(basicInfo, "", label)
		if s != "" && s != ".." {
			return s
		}
	}
	return ""
}

// latestYear returns the metrics of the lexicographically greatest year key.
func latestYear(yearData map[string]map[string]any) (map[string]any, bool) {
	if len(yearData) == 0 {
		return nil, false
	}
	years := make([]string, 0, len(yearData))
	for y := range yearData {
		years = append(years, y)
	}
	sort.Strings(years)
	m := yearData[years[len(years)-1]]
	return m, m != nil
}

func nationwideLatest(s Section) (map[string]any, bool) {
	table, ok := s.Data.(RegionTable)
	if !ok {
		return nil, false
	}
	for _, row := range table {
		if row.Region == RegionNationwide {
			return latestYear(row.YearData)
		}
	}
	return nil, false
}

// Stores reads the latest nationwide store counts.
func Stores(businessStatus Report) StoreCounts {
	return guard(StoreCounts{}, func() StoreCounts {
		s, ok := businessStatus.FindSection(SectionStoreStatus)
		if !ok {
			return StoreCounts{}
		}
		m, ok := nationwideLatest(s)
		if !ok {
			return StoreCounts{}
		}
		return StoreCounts{
			Total:     ParseCount(m["total"]),
			Direct:    ParseCount(m["direct_count"]),
			Franchise: ParseCount(m["franchise_count"]),
		}
	})
}

// TerminationRate is the share, in percent, of stores whose contract was
// terminated or cancelled in the latest year, relative to the latest total.
func TerminationRate(businessStatus Report) float64 {
	return guard(0.0, func() float64 {
		total := Stores(businessStatus).Total
		if total <= 0 {
			return 0
		}

		closed, ok := 0, false
		if s, found := businessStatus.FindSection(SectionStoreStatus); found {
			if m, has := nationwideLatest(s); has {
				closed, ok = closures(m)
			}
		}
		if !ok {
			if s, found := businessStatus.FindSection(SectionStoreChanges); found {
				if m, has := lastRow(s.Data); has {
					closed, ok = closures(m)
				}
			}
		}
		if !ok {
			return 0
		}
		return float64(closed) / float64(total) * 100
	})
}

// closures sums terminations and cancellations. The single contract_end
// counter is only read when neither is reported.
func closures(m map[string]any) (int, bool) {
	term, hasTerm := m["contract_terminations"]
	canc, hasCanc := m["contract_cancellations"]
	if hasTerm || hasCanc {
		return ParseCount(term) + ParseCount(canc), true
	}
	if end, ok := m["contract_end"]; ok {
		return ParseCount(end), true
	}
	return 0, false
}

// lastRow returns the most recent row of a tabular section.
func lastRow(data SectionData) (map[string]any, bool) {
	switch d := data.(type) {
	case RowList:
		if len(d) == 0 {
			return nil, false
		}
		return d[len(d)-1], true
	case Object:
		return d, true
	case RegionTable:
		for _, row := range d {
			if row.Region == RegionNationwide {
				return latestYear(row.YearData)
			}
		}
		if len(d) > 0 {
			return latestYear(d[len(d)-1].YearData)
		}
	case PairList:
		if len(d) == 0 {
			return nil, false
		}
		m := make(map[string]any, len(d))
		for _, p := range d {
			m[p.Label] = p.Value
		}
		return m, true
	}
	return nil, false
}

// costFields maps each cost component to its bilingual keys.
var costFields = struct {
	fee, education, deposit, interior, royalty []string
}{
	fee:       []string{"join_fee", "가맹비"},
	education: []string{"education_fee", "교육비"},
	deposit:   []string{"security_deposit", "보증금"},
	interior:  []string{"interior_cost", "인테리어비용"},
	royalty:   []string{"royalty_rate", "로열티"},
}

func costValues(franchiseeCosts Report) (func(keys ...string) (any, bool), bool) {
	s, ok := franchiseeCosts.FindSection(SectionFranchiseeFee)
	if !ok {
		return nil, false
	}
	switch d := s.Data.(type) {
	case PairList:
		return d.Get, true
	case Object:
		return d.Get, true
	case RowList:
		if len(d) == 0 {
			return nil, false
		}
		return Object(d[len(d)-1]).Get, true
	}
	return nil, false
}

// FeeComponents reads the franchisee cost burden section. Total investment is
// the sum of the four fee components.
func FeeComponents(franchiseeCosts Report) Costs {
	return guard(Costs{}, func() Costs {
		get, ok := costValues(franchiseeCosts)
		if !ok {
			return Costs{}
		}
		amount := func(keys []string) int64 {
			v, _ := get(keys...)
			return ParseCurrency(v)
		}
		c := Costs{
			FranchiseFee: amount(costFields.fee),
			EducationFee: amount(costFields.education),
			Deposit:      amount(costFields.deposit),
			InteriorCost: amount(costFields.interior),
		}
		if v, ok := get(costFields.royalty...); ok {
			c.RoyaltyRate = ParseRate(v)
		}
		c.TotalInvestment = c.FranchiseFee + c.EducationFee + c.Deposit + c.InteriorCost
		return c
	})
}

// Labels returns the raw cost strings of the cost burden section, "0" when
// absent.
func Labels(franchiseeCosts Report) CostLabels {
	def := CostLabels{JoinFee: "0", EducationFee: "0", SecurityDeposit: "0", TotalInitialCost: "0"}
	return guard(def, func() CostLabels {
		get, ok := costValues(franchiseeCosts)
		if !ok {
			return def
		}
		str := func(keys ...string) string {
			v, ok := get(keys...)
			if !ok {
				return "0"
			}
			return fmt.Sprint(v)
		}
		return CostLabels{
			JoinFee:          str(costFields.fee...),
			EducationFee:     str(costFields.education...),
			SecurityDeposit:  str(costFields.deposit...),
			TotalInitialCost: str("total", "합계"),
		}
	})
}

// RoyaltyRate prefers the royalty entry of the cost section and otherwise
// scans both documents for a pair labelled as a royalty.
func RoyaltyRate(franchiseeCosts, businessTerms Report) float64 {
	return guard(0.0, func() float64 {
		if rate := FeeComponents(franchiseeCosts).RoyaltyRate; rate > 0 {
			return rate
		}
		for _, r := range []Report{franchiseeCosts, businessTerms} {
			for _, s := range r.Sections {
				pairs, ok := s.Data.(PairList)
				if !ok {
					continue
				}
				for _, p := range pairs {
					label := strings.ToLower(p.Label)
					if strings.Contains(label, "로열티") || strings.Contains(label, "royalty") {
						if n := leadingNumber(p.Value); n > 0 {
							return n
						}
					}
				}
			}
		}
		return 0
	})
}

// SalesFigures reads the latest average and median franchisee sales.
func SalesFigures(businessStatus Report) Sales {
	return guard(Sales{}, func() Sales {
		s, ok := businessStatus.FindSection(salesSectionTitles...)
		if !ok {
			return Sales{}
		}
		row, ok := lastRow(s.Data)
		if !ok {
			return Sales{}
		}
		avg, _ := Object(row).Get("average_sales", "평균매출")
		med, _ := Object(row).Get("median_sales", "중위매출")
		return Sales{Average: ParseCurrency(avg), Median: ParseCurrency(med)}
	})
}

// Violations counts recorded law violations.
func Violations(legalCompliance Report) LegalCounts {
	return guard(LegalCounts{}, func() LegalCounts {
		s, ok := legalCompliance.FindSection(SectionViolations)
		if !ok {
			return LegalCounts{}
		}
		row, ok := lastRow(s.Data)
		if !ok {
			return LegalCounts{}
		}
		count := func(keys ...string) int {
			v, _ := Object(row).Get(keys...)
			return ParseCount(v)
		}
		return LegalCounts{
			FTCCorrections:      count("ftc_correction", "시정조치"),
			CivilLawsuits:       count("civil_lawsuit", "민사소송"),
			CriminalConvictions: count("criminal_conviction", "형사처벌"),
		}
	})
}

// Terms reads the initial and extension contract periods.
func Terms(businessTerms Report) ContractTerms {
	def := ContractTerms{
		InitialPeriodYears:   DefaultInitialContractYears,
		ExtensionPeriodYears: DefaultExtensionContractYears,
	}
	return guard(def, func() ContractTerms {
		terms := def
		for _, s := range businessTerms.Sections {
			pairs, ok := s.Data.(PairList)
			if !ok {
				continue
			}
			for _, p := range pairs {
				if !strings.Contains(p.Label, "기간") {
					continue
				}
				n := ParseCount(strings.TrimSpace(fmt.Sprint(p.Value)))
				if n <= 0 {
					continue
				}
				switch {
				case strings.Contains(p.Label, "연장"):
					terms.ExtensionPeriodYears = n
				case strings.Contains(p.Label, "계약기간"):
					terms.InitialPeriodYears = n
				}
			}
		}
		return terms
	})
}

// FinancialData returns the financial status section payload verbatim, or an
// empty list.
func FinancialData(basicInfo Report) any {
	return guard[any]([]any{}, func() any {
		s, ok := basicInfo.FindSection(SectionFinancial)
		if !ok || len(s.Raw) == 0 || string(s.Raw) == "null" {
			return []any{}
		}
		return s.Raw
	})
}
