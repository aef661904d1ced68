package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finreport/finreport/internal/accounting"
	"github.com/finreport/finreport/internal/company"
	"github.com/finreport/finreport/internal/estimate"
	"github.com/finreport/finreport/internal/industry"
)

var (
	defaultCompetitorThreats = []string{
		"Increased competition from international players",
		"Economic uncertainty affecting Norwegian market",
		"Digital transformation and technology disruption",
	}
	defaultWeaknesses = []string{
		"Limited international market presence",
		"Dependency on Norwegian economic conditions",
		"Need for continuous innovation and market adaptation",
	}
	defaultOpportunities = []string{
		"Digital transformation and automation opportunities",
		"Expansion to other Nordic markets",
		"Strategic partnerships and market consolidation",
	}
	defaultThreats = []string{
		"Economic downturn affecting domestic demand",
		"Increased regulatory compliance requirements",
		"Rising competition from larger international firms",
	}
)

// Synthesizer turns a profile and its filed accounts into a report. It never
// fails: every missing input has a default.
type Synthesizer struct {
	estimator *estimate.Estimator
	now       func() time.Time
	newID     func() string
}

// NewSynthesizer constructs a synthesizer around the estimator.
func NewSynthesizer(estimator *estimate.Estimator) *Synthesizer {
	if estimator == nil {
		estimator = estimate.New(estimate.DefaultParams())
	}
	return &Synthesizer{
		estimator: estimator,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
}

// WithNow overrides the synthesizer clock for testing.
func (s *Synthesizer) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Build synthesizes the base report. Summaries are expected newest first; the
// message describes where the figures came from.
func (s *Synthesizer) Build(profile company.Profile, summaries []accounting.YearlyFinancialSummary, message string) FinancialReport {
	now := s.now()
	currentYear := now.Year()
	summaries = newestFirst(summaries)

	code := profile.IndustryCode
	industryName := industryLabel(profile)
	form := legalForm(profile)
	place := location(profile)

	metrics := KeyMetrics{
		FoundedYear:      FoundedYear(profile, now),
		Industry:         industryName,
		LegalForm:        form,
		RegistrationDate: registrationDate(profile),
		VATRegistered:    profile.VATRegistered,
		Location:         place,
		Status:           profile.Status(),
		Currency:         accounting.DefaultCurrency,
	}

	if len(summaries) > 0 && summaries[0].Revenue != nil {
		latest := summaries[0]
		employees := latest.Employees
		if employees == nil {
			employees = profile.Employees
		}
		year := latest.Year
		metrics.Revenue = *latest.Revenue
		metrics.Employees = s.estimator.Employees(employees)
		metrics.HasRealFinancialData = true
		metrics.FinancialDataYear = &year
		if latest.Currency != "" {
			metrics.Currency = latest.Currency
		}
	} else {
		metrics.Employees = s.estimator.Employees(profile.Employees)
		metrics.Revenue = s.estimator.Revenue(metrics.Employees, code, profile.VATRegistered)
	}

	if len(summaries) > 0 {
		latest := summaries[0]
		size := latest.CompanySize
		parent := latest.IsParentCompany
		metrics.Profit = latest.Profit
		metrics.OperatingProfit = latest.OperatingProfit
		metrics.TotalAssets = latest.TotalAssets
		metrics.Equity = latest.Equity
		metrics.Debt = latest.Debt
		metrics.CurrentAssets = latest.CurrentAssets
		metrics.FixedAssets = latest.FixedAssets
		metrics.FinancialIncome = latest.FinancialIncome
		metrics.FinancialCosts = latest.FinancialCosts
		metrics.CompanySize = &size
		metrics.IsParentCompany = &parent
	}

	hasReal := metrics.HasRealFinancialData
	industryGrowth := industry.GrowthRatePercent(code)
	growth := industryGrowth
	if actual := ActualGrowthRate(summaries); actual != nil {
		growth = *actual
	}
	share := estimate.MarketShare(metrics.Employees, code)

	source := SourceEstimated
	if hasReal {
		source = SourceReal
	}

	return FinancialReport{
		Meta: Meta{
			SchemaVersion:     SchemaVersion,
			ID:                s.newID(),
			GeneratedAt:       now.UTC(),
			DataSource:        source,
			DataSourceMessage: message,
		},
		CompanyName:        profile.Name,
		OrganizationNumber: profile.OrganizationNumber,
		KeyMetrics:         metrics,
		TrendAnalysis: TrendAnalysis{
			GrowthRate:     growth,
			MarketPosition: marketPosition(metrics, message),
			FutureOutlook:  futureOutlook(metrics, industryGrowth),
		},
		CompetitorAnalysis: CompetitorAnalysis{
			MarketShare:          share,
			CompetitiveAdvantage: competitiveAdvantage(metrics),
			Threats:              cloneStrings(defaultCompetitorThreats),
		},
		SwotAnalysis: SwotAnalysis{
			Strengths:     strengths(metrics),
			Weaknesses:    cloneStrings(defaultWeaknesses),
			Opportunities: cloneStrings(defaultOpportunities),
			Threats:       cloneStrings(defaultThreats),
		},
		InvestmentRecommendation: InvestmentRecommendation{
			Rating:      s.estimator.Rating(metrics.Employees, industryGrowth, profile.VATRegistered, hasReal),
			TargetPrice: estimate.Valuation(metrics.Revenue, code),
			Reasoning:   reasoning(metrics),
			RiskLevel:   estimate.Risk(metrics.Employees, industryGrowth, hasReal),
		},
		ChartData: ChartData{
			Revenue:     RevenueSeries(summaries, metrics.Revenue, growth, currentYear),
			Employees:   EmployeeSeries(summaries, metrics.Employees, currentYear),
			Profit:      ProfitSeries(summaries),
			MarketShare: MarketShareSeries(share),
		},
	}
}

// ActualGrowthRate is the compound annual revenue growth in percent between
// the oldest and newest filed revenue, rounded to one decimal. It is nil with
// fewer than two distinct years or a zero starting revenue.
func ActualGrowthRate(summaries []accounting.YearlyFinancialSummary) *float64 {
	withRevenue := make([]accounting.YearlyFinancialSummary, 0, len(summaries))
	for _, s := range summaries {
		if s.Revenue != nil {
			withRevenue = append(withRevenue, s)
		}
	}
	if len(withRevenue) < 2 {
		return nil
	}
	sort.SliceStable(withRevenue, func(i, j int) bool { return withRevenue[i].Year < withRevenue[j].Year })
	oldest := withRevenue[0]
	newest := withRevenue[len(withRevenue)-1]
	span := newest.Year - oldest.Year
	if span == 0 || *oldest.Revenue == 0 {
		return nil
	}
	rate := (math.Pow(*newest.Revenue / *oldest.Revenue, 1/float64(span)) - 1) * 100
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil
	}
	rounded := estimate.Round1(rate)
	return &rounded
}

func newestFirst(summaries []accounting.YearlyFinancialSummary) []accounting.YearlyFinancialSummary {
	out := append([]accounting.YearlyFinancialSummary(nil), summaries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

func marketPosition(m KeyMetrics, message string) string {
	provenance := strings.ToLower(message)
	if m.HasRealFinancialData && m.FinancialDataYear != nil {
		provenance = fmt.Sprintf("%d financials", *m.FinancialDataYear)
	}
	return fmt.Sprintf("%s operating in the %s sector with %d employees in %s (%s)",
		strings.ToLower(m.LegalForm), strings.ToLower(m.Industry), m.Employees, m.Location, provenance)
}

func futureOutlook(m KeyMetrics, industryGrowth float64) string {
	basis := "Based on industry analysis and company profile"
	if m.HasRealFinancialData {
		basis = "Based on recent financial performance"
	}
	return fmt.Sprintf("%s, projected %s%% annual growth in the Norwegian %s market",
		basis, FormatPercent(industryGrowth), strings.ToLower(m.Industry))
}

func competitiveAdvantage(m KeyMetrics) string {
	edge := "strong market positioning"
	if m.HasRealFinancialData {
		edge = "documented financial performance"
	}
	return fmt.Sprintf("Established Norwegian %s with %s in %s", strings.ToLower(m.LegalForm), edge, strings.ToLower(m.Industry))
}

func strengths(m KeyMetrics) []string {
	first := fmt.Sprintf("Established %s with %d employees", strings.ToLower(m.LegalForm), m.Employees)
	if m.HasRealFinancialData {
		first += " and proven financial track record"
	}
	third := "Streamlined business structure"
	if m.VATRegistered {
		third = "VAT registered with full commercial operations"
	}
	return []string{
		first,
		fmt.Sprintf("Specialized expertise in %s", strings.ToLower(m.Industry)),
		third,
	}
}

func reasoning(m KeyMetrics) string {
	performance := "estimated"
	if m.HasRealFinancialData {
		performance = "documented"
	}
	return fmt.Sprintf("%s with %d employees showing %s performance in the Norwegian %s sector",
		m.LegalForm, m.Employees, performance, strings.ToLower(m.Industry))
}
