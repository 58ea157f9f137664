package disclosure

// Documents are the five report columns of one franchise record, parsed.
type Documents struct {
	BasicInfo       Report
	BusinessStatus  Report
	FranchiseeCosts Report
	BusinessTerms   Report
	LegalCompliance Report
}

// ParseDocuments parses the raw document columns of a record.
func ParseDocuments(basicInfo, businessStatus, franchiseeCosts, businessTerms, legalCompliance []byte) Documents {
	return Documents{
		BasicInfo:       ParseReport(basicInfo),
		BusinessStatus:  ParseReport(businessStatus),
		FranchiseeCosts: ParseReport(franchiseeCosts),
		BusinessTerms:   ParseReport(businessTerms),
		LegalCompliance: ParseReport(legalCompliance),
	}
}

// Facts is everything extracted from one record's documents.
type Facts struct {
	Category           string
	CEO                string
	BusinessType       string
	Address            string
	Phone              string
	EstablishedDate    string
	RegistrationNumber string

	Stores          StoreCounts
	TerminationRate float64
	Costs           Costs
	Sales           Sales
	Legal           LegalCounts
	Contract        ContractTerms
}

// Extract runs every extractor once over the documents.
func Extract(d Documents) Facts {
	costs := FeeComponents(d.FranchiseeCosts)
	costs.RoyaltyRate = RoyaltyRate(d.FranchiseeCosts, d.BusinessTerms)

	return Facts{
		Category:           Category(d.BasicInfo),
		CEO:                CEOName(d.BasicInfo),
		BusinessType:       BusinessType(d.BasicInfo),
		Address:            Address(d.BasicInfo),
		Phone:              Phone(d.BasicInfo),
		EstablishedDate:    EstablishedDate(d.BasicInfo),
		RegistrationNumber: RegistrationNumber(d.BasicInfo),
		Stores:             Stores(d.BusinessStatus),
		TerminationRate:    TerminationRate(d.BusinessStatus),
		Costs:              costs,
		Sales:              SalesFigures(d.BusinessStatus),
		Legal:              Violations(d.LegalCompliance),
		Contract:           Terms(d.BusinessTerms),
	}
}
