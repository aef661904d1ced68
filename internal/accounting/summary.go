// Package accounting fetches filed annual accounts and normalizes them into
// per-year financial summaries.
package accounting

// CompanySize is derived from the accounting principles a company reports under.
type CompanySize string

// Known company sizes.
const (
	SizeSmall  CompanySize = "small"
	SizeMedium CompanySize = "medium"
	SizeLarge  CompanySize = "large"
)

// DefaultCurrency is used when a record does not state its currency.
const DefaultCurrency = "NOK"

// YearlyFinancialSummary is the flat, typed view of one filed annual account.
// Monetary fields are nil when the filing does not carry them.
type YearlyFinancialSummary struct {
	Year            int         `json:"year"`
	Currency        string      `json:"currency"`
	Revenue         *float64    `json:"revenue"`
	Profit          *float64    `json:"profit"`
	OperatingProfit *float64    `json:"operatingProfit"`
	TotalAssets     *float64    `json:"totalAssets"`
	Equity          *float64    `json:"equity"`
	Debt            *float64    `json:"debt"`
	CurrentAssets   *float64    `json:"currentAssets"`
	FixedAssets     *float64    `json:"fixedAssets"`
	FinancialIncome *float64    `json:"financialIncome"`
	FinancialCosts  *float64    `json:"financialCosts"`
	Employees       *int        `json:"employees"`
	CompanySize     CompanySize `json:"companySize"`
	IsParentCompany bool        `json:"isParentCompany"`
	HasRealData     bool        `json:"hasRealData"`
	AccountingType  string      `json:"accountingType"`
}

func hasRealData(s YearlyFinancialSummary) bool {
	return s.Revenue != nil || s.Profit != nil || s.TotalAssets != nil
}
