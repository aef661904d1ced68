package report

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finreport/finreport/internal/accounting"
	"github.com/finreport/finreport/internal/company"
	"github.com/finreport/finreport/internal/estimate"
)

var fixedNow = time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)

func newTestSynthesizer() *Synthesizer {
	s := NewSynthesizer(estimate.New(estimate.DefaultParams()))
	s.WithNow(func() time.Time { return fixedNow })
	s.newID = func() string { return "test-id" }
	return s
}

func f(v float64) *float64 { return &v }
func n(v int) *int         { return &v }

func itProfile() company.Profile {
	return company.Profile{
		OrganizationNumber: "912345678",
		Name:               "Kode AS",
		IndustryCode:       "62.010",
		IndustryLabel:      "Programmeringstjenester",
		LegalForm:          "Aksjeselskap",
		Employees:          n(20),
		FoundedDate:        "2015-03-01",
		RegistrationDate:   "2015-03-10",
		VATRegistered:      true,
		Location:           "OSLO, OSLO",
	}
}

func TestBuildEstimateScenario(t *testing.T) {
	r := newTestSynthesizer().Build(itProfile(), nil, MessageEstimates)

	assert.Equal(t, 44_880_000.0, r.KeyMetrics.Revenue)
	assert.Equal(t, 20, r.KeyMetrics.Employees)
	assert.False(t, r.KeyMetrics.HasRealFinancialData)
	assert.Nil(t, r.KeyMetrics.FinancialDataYear)
	assert.Nil(t, r.KeyMetrics.Profit)
	assert.Equal(t, "NOK", r.KeyMetrics.Currency)
	assert.Equal(t, 2015, r.KeyMetrics.FoundedYear)
	assert.Equal(t, 15.2, r.TrendAnalysis.GrowthRate)
	assert.Equal(t, 0.2, r.CompetitorAnalysis.MarketShare)
	assert.Equal(t, estimate.RatingHold, r.InvestmentRecommendation.Rating)
	assert.Equal(t, estimate.RiskMedium, r.InvestmentRecommendation.RiskLevel)
	assert.Equal(t, 157_080_000.0, r.InvestmentRecommendation.TargetPrice)

	assert.Equal(t, SchemaVersion, r.Meta.SchemaVersion)
	assert.Equal(t, "test-id", r.Meta.ID)
	assert.Equal(t, SourceEstimated, r.Meta.DataSource)
	assert.Equal(t, fixedNow, r.Meta.GeneratedAt)
	assert.False(t, r.Meta.Enhanced)

	assert.Equal(t,
		"aksjeselskap operating in the programmeringstjenester sector with 20 employees in OSLO, OSLO (analysis will use company registration data and industry estimates)",
		r.TrendAnalysis.MarketPosition)
	assert.Equal(t,
		"Based on industry analysis and company profile, projected 15.2% annual growth in the Norwegian programmeringstjenester market",
		r.TrendAnalysis.FutureOutlook)
	assert.Equal(t,
		"Established Norwegian aksjeselskap with strong market positioning in programmeringstjenester",
		r.CompetitorAnalysis.CompetitiveAdvantage)
	assert.Equal(t,
		"Aksjeselskap with 20 employees showing estimated performance in the Norwegian programmeringstjenester sector",
		r.InvestmentRecommendation.Reasoning)
	assert.Equal(t, []string{
		"Established aksjeselskap with 20 employees",
		"Specialized expertise in programmeringstjenester",
		"VAT registered with full commercial operations",
	}, r.SwotAnalysis.Strengths)
	assert.Len(t, r.SwotAnalysis.Weaknesses, 3)
	assert.Len(t, r.SwotAnalysis.Opportunities, 3)
	assert.Len(t, r.SwotAnalysis.Threats, 3)
	assert.Len(t, r.CompetitorAnalysis.Threats, 3)

	require.Len(t, r.ChartData.Revenue, 5)
	for i, p := range r.ChartData.Revenue {
		assert.Equal(t, 2022+i, p.Year)
		assert.False(t, p.IsReal)
	}
	assert.Equal(t, 44_880_000.0, r.ChartData.Revenue[4].Value)
	assert.Equal(t, math.Floor(44_880_000/1.152+0.5), r.ChartData.Revenue[3].Value)
	require.Len(t, r.ChartData.Employees, 5)
	assert.Equal(t, 20.0, r.ChartData.Employees[4].Value)
	assert.Equal(t, 19.0, r.ChartData.Employees[3].Value)
	assert.NotNil(t, r.ChartData.Profit)
	assert.Empty(t, r.ChartData.Profit)
	assert.Equal(t, []CategoryPoint{{"Company", 0.2}, {"Competitors", 99.8}}, r.ChartData.MarketShare)
}

func TestBuildAppliesProfileDefaults(t *testing.T) {
	profile := company.Profile{OrganizationNumber: "999999999", Name: "Ukjent AS"}
	r := newTestSynthesizer().Build(profile, nil, MessageEstimates)

	assert.Equal(t, DefaultIndustry, r.KeyMetrics.Industry)
	assert.Equal(t, DefaultLegalForm, r.KeyMetrics.LegalForm)
	assert.Equal(t, DefaultLocation, r.KeyMetrics.Location)
	assert.Equal(t, DefaultRegistrationDate, r.KeyMetrics.RegistrationDate)
	assert.Equal(t, 2016, r.KeyMetrics.FoundedYear)
	assert.Equal(t, 10, r.KeyMetrics.Employees)
	assert.Equal(t, 6.5, r.TrendAnalysis.GrowthRate)
	assert.Equal(t, 10_200_000.0, r.KeyMetrics.Revenue)
	assert.Equal(t, "Streamlined business structure", r.SwotAnalysis.Strengths[2])
	assert.Equal(t, "Active", r.KeyMetrics.Status)
}

func TestBuildClampsEmployees(t *testing.T) {
	profile := itProfile()
	profile.Employees = n(0)
	r := newTestSynthesizer().Build(profile, nil, MessageEstimates)
	assert.Equal(t, 1, r.KeyMetrics.Employees)
	for _, p := range r.ChartData.Employees {
		assert.GreaterOrEqual(t, p.Value, 1.0)
	}
}

func TestBuildRealDataPath(t *testing.T) {
	summaries := []accounting.YearlyFinancialSummary{
		{Year: 2025, Currency: "NOK", Revenue: f(14_641_000), Profit: f(1_200_000), OperatingProfit: f(1_500_000),
			TotalAssets: f(9_000_000), Equity: f(4_000_000), Debt: f(5_000_000), Employees: n(25),
			CompanySize: accounting.SizeSmall, HasRealData: true},
		{Year: 2022, Currency: "NOK", Revenue: f(10_000_000), Profit: f(-300_000), Employees: n(18),
			CompanySize: accounting.SizeSmall, HasRealData: true},
	}
	r := newTestSynthesizer().Build(itProfile(), summaries, MessageOfficial)

	assert.True(t, r.KeyMetrics.HasRealFinancialData)
	assert.Equal(t, SourceReal, r.Meta.DataSource)
	require.NotNil(t, r.KeyMetrics.FinancialDataYear)
	assert.Equal(t, 2025, *r.KeyMetrics.FinancialDataYear)
	assert.Equal(t, 14_641_000.0, r.KeyMetrics.Revenue)
	assert.Equal(t, 25, r.KeyMetrics.Employees)
	require.NotNil(t, r.KeyMetrics.Profit)
	assert.Equal(t, 1_200_000.0, *r.KeyMetrics.Profit)
	require.NotNil(t, r.KeyMetrics.CompanySize)
	assert.Equal(t, accounting.SizeSmall, *r.KeyMetrics.CompanySize)
	require.NotNil(t, r.KeyMetrics.IsParentCompany)
	assert.False(t, *r.KeyMetrics.IsParentCompany)

	assert.Contains(t, r.TrendAnalysis.MarketPosition, "(2025 financials)")
	assert.Contains(t, r.TrendAnalysis.FutureOutlook, "Based on recent financial performance, projected 15.2%")
	assert.Contains(t, r.CompetitorAnalysis.CompetitiveAdvantage, "documented financial performance")
	assert.Equal(t, "Established aksjeselskap with 25 employees and proven financial track record", r.SwotAnalysis.Strengths[0])
	assert.Contains(t, r.InvestmentRecommendation.Reasoning, "documented performance")
	assert.Equal(t, estimate.RatingBuy, r.InvestmentRecommendation.Rating)

	profit := r.ChartData.Profit
	require.Len(t, profit, 2)
	assert.Equal(t, YearPoint{Year: 2022, Value: -300_000, IsReal: true}, profit[0])
	assert.Equal(t, YearPoint{Year: 2025, Value: 1_200_000, IsReal: true}, profit[1])
}

func TestBuildKeepsOptionalMetricsWithoutRevenue(t *testing.T) {
	summaries := []accounting.YearlyFinancialSummary{
		{Year: 2025, Currency: "NOK", TotalAssets: f(3_000_000), Employees: n(4), HasRealData: true},
	}
	r := newTestSynthesizer().Build(itProfile(), summaries, MessageOfficial)

	assert.False(t, r.KeyMetrics.HasRealFinancialData)
	assert.Equal(t, 20, r.KeyMetrics.Employees)
	assert.Equal(t, 44_880_000.0, r.KeyMetrics.Revenue)
	require.NotNil(t, r.KeyMetrics.TotalAssets)
	assert.Equal(t, 3_000_000.0, *r.KeyMetrics.TotalAssets)
	assert.Contains(t, r.TrendAnalysis.MarketPosition, "(using official financial statements)")
	assert.Empty(t, r.ChartData.Profit)
}

func TestBuildActualGrowthOverridesIndustryRate(t *testing.T) {
	summaries := []accounting.YearlyFinancialSummary{
		{Year: 2026, Revenue: f(14_641_000), HasRealData: true},
		{Year: 2023, Revenue: f(10_000_000), HasRealData: true},
	}
	r := newTestSynthesizer().Build(itProfile(), summaries, MessageOfficial)

	expected := estimate.Round1((math.Pow(14_641_000.0/10_000_000.0, 1.0/3) - 1) * 100)
	assert.Equal(t, expected, r.TrendAnalysis.GrowthRate)
	assert.Equal(t, 13.6, r.TrendAnalysis.GrowthRate)

	series := r.ChartData.Revenue
	require.Len(t, series, 5)
	assert.Equal(t, YearPoint{Year: 2023, Value: 10_000_000, IsReal: true}, series[1])
	assert.Equal(t, YearPoint{Year: 2026, Value: 14_641_000, IsReal: true}, series[4])
	assert.False(t, series[0].IsReal)
	assert.Equal(t, math.Floor(14_641_000*math.Pow(1.136, -1)+0.5), series[3].Value)
	assert.False(t, series[3].IsReal)
}

func TestActualGrowthRate(t *testing.T) {
	assert.Nil(t, ActualGrowthRate(nil))
	assert.Nil(t, ActualGrowthRate([]accounting.YearlyFinancialSummary{{Year: 2025, Revenue: f(1)}}))
	assert.Nil(t, ActualGrowthRate([]accounting.YearlyFinancialSummary{
		{Year: 2025, Revenue: f(2)}, {Year: 2025, Revenue: f(1)},
	}))
	assert.Nil(t, ActualGrowthRate([]accounting.YearlyFinancialSummary{
		{Year: 2025, Revenue: f(2)}, {Year: 2024, Revenue: f(0)},
	}))
	assert.Nil(t, ActualGrowthRate([]accounting.YearlyFinancialSummary{
		{Year: 2025, Revenue: f(2)}, {Year: 2024, Profit: f(1)},
	}))

	rate := ActualGrowthRate([]accounting.YearlyFinancialSummary{
		{Year: 2025, Revenue: f(110)}, {Year: 2024, Revenue: f(100)},
	})
	require.NotNil(t, rate)
	assert.Equal(t, 10.0, *rate)
}

func TestBuildDoesNotMutateInput(t *testing.T) {
	summaries := []accounting.YearlyFinancialSummary{
		{Year: 2023, Revenue: f(1)},
		{Year: 2025, Revenue: f(2)},
	}
	newTestSynthesizer().Build(itProfile(), summaries, MessageOfficial)
	assert.Equal(t, 2023, summaries[0].Year)
}

func TestFoundedYear(t *testing.T) {
	p := company.Profile{FoundedDate: "1999-05-01", RegistrationDate: "2001-01-01"}
	assert.Equal(t, 1999, FoundedYear(p, fixedNow))
	p.FoundedDate = ""
	assert.Equal(t, 2001, FoundedYear(p, fixedNow))
	p.RegistrationDate = "garbage"
	assert.Equal(t, 2016, FoundedYear(p, fixedNow))
}

func TestCloneSharesNoSlices(t *testing.T) {
	base := newTestSynthesizer().Build(itProfile(), nil, MessageEstimates)
	clone := base.Clone()
	clone.SwotAnalysis.Strengths[0] = "changed"
	clone.ChartData.Revenue[0].Value = -1
	assert.NotEqual(t, "changed", base.SwotAnalysis.Strengths[0])
	assert.NotEqual(t, -1.0, base.ChartData.Revenue[0].Value)
}
