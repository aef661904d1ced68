package enhance

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finreport/finreport/internal/accounting"
	"github.com/finreport/finreport/internal/company"
	"github.com/finreport/finreport/internal/estimate"
	"github.com/finreport/finreport/internal/report"
)

type generatorStub struct {
	text   string
	err    error
	prompt string
}

func (g *generatorStub) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.text, g.err
}

func testProfile() company.Profile {
	employees := 20
	return company.Profile{
		OrganizationNumber: "912345678",
		Name:               "Kode AS",
		IndustryCode:       "62.010",
		IndustryLabel:      "Programmeringstjenester",
		LegalForm:          "Aksjeselskap",
		Employees:          &employees,
		VATRegistered:      true,
		Location:           "OSLO, OSLO",
	}
}

func baseReport(summaries []accounting.YearlyFinancialSummary, message string) report.FinancialReport {
	s := report.NewSynthesizer(estimate.New(estimate.DefaultParams()))
	s.WithNow(func() time.Time { return time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC) })
	return s.Build(testProfile(), summaries, message)
}

func TestEnhanceAppliesParsedSections(t *testing.T) {
	base := baseReport(nil, report.MessageEstimates)
	gen := &generatorStub{text: fullResponse}

	out, err := NewEnhancer(gen, nil, nil).Enhance(context.Background(), base, testProfile(), nil)
	require.NoError(t, err)

	assert.Equal(t, "A leading boutique software house in Oslo.", out.TrendAnalysis.MarketPosition)
	assert.Equal(t, "Solid margins and a loyal client base.", out.InvestmentRecommendation.Reasoning)
	assert.Equal(t, []string{"Small sales team", "Few products"}, out.SwotAnalysis.Weaknesses)
	assert.Equal(t, base.KeyMetrics, out.KeyMetrics)
	assert.Equal(t, base.ChartData, out.ChartData)

	assert.NotEqual(t, out.TrendAnalysis.MarketPosition, base.TrendAnalysis.MarketPosition)
	assert.Len(t, base.SwotAnalysis.Weaknesses, 3)
}

func TestEnhanceWithoutStrengthsKeepsDefaults(t *testing.T) {
	base := baseReport(nil, report.MessageEstimates)
	gen := &generatorStub{text: "MARKET_POSITION: Strong.\nWEAKNESSES:\n- Thin margins\n"}

	out, err := NewEnhancer(gen, nil, nil).Enhance(context.Background(), base, testProfile(), nil)
	require.NoError(t, err)
	assert.Equal(t, base.SwotAnalysis.Strengths, out.SwotAnalysis.Strengths)
	assert.Len(t, out.SwotAnalysis.Strengths, 3)
	assert.Equal(t, []string{"Thin margins"}, out.SwotAnalysis.Weaknesses)
}

func TestEnhanceFailuresReturnBase(t *testing.T) {
	base := baseReport(nil, report.MessageEstimates)

	out, err := NewEnhancer(&generatorStub{err: errors.New("boom")}, nil, nil).Enhance(context.Background(), base, testProfile(), nil)
	require.Error(t, err)
	assert.Equal(t, base, out)

	out, err = NewEnhancer(&generatorStub{text: "nothing useful"}, nil, nil).Enhance(context.Background(), base, testProfile(), nil)
	require.ErrorIs(t, err, ErrNoOverrides)
	assert.Equal(t, base, out)

	_, err = NewEnhancer(nil, nil, nil).Enhance(context.Background(), base, testProfile(), nil)
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestBuildPromptWithFiledAccounts(t *testing.T) {
	rev := func(v float64) *float64 { return &v }
	summaries := []accounting.YearlyFinancialSummary{
		{Year: 2025, Revenue: rev(14_641_000), Profit: rev(1_200_000)},
		{Year: 2024, Revenue: rev(12_000_000)},
		{Year: 2023, Revenue: rev(11_000_000), Profit: rev(-300_000)},
		{Year: 2022, Revenue: rev(10_000_000)},
	}
	base := baseReport(summaries, report.MessageOfficial)

	prompt, err := BuildPrompt(base, testProfile(), summaries)
	require.NoError(t, err)
	assert.Contains(t, prompt, "- Name: Kode AS")
	assert.Contains(t, prompt, "- VAT Registered: Yes")
	assert.Contains(t, prompt, "- Status: Active")
	assert.Contains(t, prompt, "Real Financial Data Available:\n- Year 2025: Revenue: 14.6M NOK, Profit: 1.2M NOK")
	assert.Contains(t, prompt, "- Year 2024: Revenue: 12.0M NOK, Profit: N/A")
	assert.Contains(t, prompt, "- Year 2023: Revenue: 11.0M NOK, Profit: -0.3M NOK")
	assert.NotContains(t, prompt, "Year 2022")
	assert.Contains(t, prompt, "- 20 employees indicating small company size")
	assert.Contains(t, prompt, "- Norwegian programmeringstjenester sector")
	assert.True(t, strings.HasSuffix(prompt, "- [Threat 3 - industry or operational threat]"))
}

func TestBuildPromptWithEstimates(t *testing.T) {
	base := baseReport(nil, report.MessageEstimates)
	prompt, err := BuildPrompt(base, testProfile(), nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Data Source: "+report.MessageEstimates)
	assert.Contains(t, prompt, "Estimated Revenue: 44.9M NOK")
	assert.NotContains(t, prompt, "Real Financial Data Available")
}
