// Package report assembles the financial report for a company from its
// registry profile and whatever filed accounts are available.
package report

import (
	"time"

	"github.com/finreport/finreport/internal/accounting"
	"github.com/finreport/finreport/internal/estimate"
)

// SchemaVersion is bumped whenever the serialized report shape changes in a
// way consumers must notice.
const SchemaVersion = "1"

// DataSource records where the headline figures came from.
type DataSource string

// Data sources.
const (
	SourceReal      DataSource = "real"
	SourceEstimated DataSource = "estimated"
)

// Data source messages shown alongside the report.
const (
	MessageOfficial  = "Using official financial statements"
	MessageEstimates = "Analysis will use company registration data and industry estimates"
)

// Meta identifies one generated report.
type Meta struct {
	SchemaVersion     string     `json:"schemaVersion"`
	ID                string     `json:"id"`
	GeneratedAt       time.Time  `json:"generatedAt"`
	DataSource        DataSource `json:"dataSource"`
	DataSourceMessage string     `json:"dataSourceMessage"`
	Enhanced          bool       `json:"enhanced"`
}

// KeyMetrics are the headline figures.
type KeyMetrics struct {
	Revenue              float64                 `json:"revenue"`
	Profit               *float64                `json:"profit,omitempty"`
	OperatingProfit      *float64                `json:"operatingProfit,omitempty"`
	TotalAssets          *float64                `json:"totalAssets,omitempty"`
	Equity               *float64                `json:"equity,omitempty"`
	Debt                 *float64                `json:"debt,omitempty"`
	CurrentAssets        *float64                `json:"currentAssets,omitempty"`
	FixedAssets          *float64                `json:"fixedAssets,omitempty"`
	FinancialIncome      *float64                `json:"financialIncome,omitempty"`
	FinancialCosts       *float64                `json:"financialCosts,omitempty"`
	Employees            int                     `json:"employees"`
	FoundedYear          int                     `json:"foundedYear"`
	Industry             string                  `json:"industry"`
	LegalForm            string                  `json:"legalForm"`
	RegistrationDate     string                  `json:"registrationDate"`
	VATRegistered        bool                    `json:"vatRegistered"`
	Location             string                  `json:"location"`
	Status               string                  `json:"status"`
	HasRealFinancialData bool                    `json:"hasRealFinancialData"`
	FinancialDataYear    *int                    `json:"financialDataYear,omitempty"`
	Currency             string                  `json:"currency"`
	CompanySize          *accounting.CompanySize `json:"companySize,omitempty"`
	IsParentCompany      *bool                   `json:"isParentCompany,omitempty"`
}

// TrendAnalysis describes growth and positioning.
type TrendAnalysis struct {
	GrowthRate     float64 `json:"growthRate"`
	MarketPosition string  `json:"marketPosition"`
	FutureOutlook  string  `json:"futureOutlook"`
}

// CompetitorAnalysis describes the competitive landscape.
type CompetitorAnalysis struct {
	MarketShare          float64  `json:"marketShare"`
	CompetitiveAdvantage string   `json:"competitiveAdvantage"`
	Threats              []string `json:"threats"`
}

// SwotAnalysis holds the four SWOT quadrants.
type SwotAnalysis struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// InvestmentRecommendation is the rating with its target and rationale.
type InvestmentRecommendation struct {
	Rating      estimate.Rating    `json:"rating"`
	TargetPrice float64            `json:"targetPrice"`
	Reasoning   string             `json:"reasoning"`
	RiskLevel   estimate.RiskLevel `json:"riskLevel"`
}

// YearPoint is one point of a yearly series.
type YearPoint struct {
	Year   int     `json:"year"`
	Value  float64 `json:"value"`
	IsReal bool    `json:"isReal"`
}

// CategoryPoint is one slice of a categorical series.
type CategoryPoint struct {
	Category string  `json:"category"`
	Value    float64 `json:"value"`
}

// ChartData carries the chart series, ordered ascending by year.
type ChartData struct {
	Revenue     []YearPoint     `json:"revenue"`
	Employees   []YearPoint     `json:"employees"`
	Profit      []YearPoint     `json:"profit"`
	MarketShare []CategoryPoint `json:"marketShare"`
}

// FinancialReport is the synthesized report.
type FinancialReport struct {
	Meta                     Meta                     `json:"meta"`
	CompanyName              string                   `json:"companyName"`
	OrganizationNumber       string                   `json:"organizationNumber"`
	KeyMetrics               KeyMetrics               `json:"keyMetrics"`
	TrendAnalysis            TrendAnalysis            `json:"trendAnalysis"`
	CompetitorAnalysis       CompetitorAnalysis       `json:"competitorAnalysis"`
	SwotAnalysis             SwotAnalysis             `json:"swotAnalysis"`
	InvestmentRecommendation InvestmentRecommendation `json:"investmentRecommendation"`
	ChartData                ChartData                `json:"chartData"`
}

// Clone returns a copy that shares no slices with r.
func (r FinancialReport) Clone() FinancialReport {
	out := r
	out.CompetitorAnalysis.Threats = cloneStrings(r.CompetitorAnalysis.Threats)
	out.SwotAnalysis = SwotAnalysis{
		Strengths:     cloneStrings(r.SwotAnalysis.Strengths),
		Weaknesses:    cloneStrings(r.SwotAnalysis.Weaknesses),
		Opportunities: cloneStrings(r.SwotAnalysis.Opportunities),
		Threats:       cloneStrings(r.SwotAnalysis.Threats),
	}
	out.ChartData = ChartData{
		Revenue:     append([]YearPoint(nil), r.ChartData.Revenue...),
		Employees:   append([]YearPoint(nil), r.ChartData.Employees...),
		Profit:      append([]YearPoint{}, r.ChartData.Profit...),
		MarketShare: append([]CategoryPoint(nil), r.ChartData.MarketShare...),
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
