package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/finreport/finreport/internal/report"
)

func TestYearSeriesFlagsEstimates(t *testing.T) {
	values, labels, estimated := YearSeries([]report.YearPoint{
		{Year: 2024, Value: 10, IsReal: true},
		{Year: 2025, Value: 12},
	})
	assert.Equal(t, []float64{10, 12}, values)
	assert.Equal(t, []string{"2024", "2025"}, labels)
	assert.Equal(t, []bool{false, true}, estimated)
}

func TestToMetricCardsSkipsAbsentValues(t *testing.T) {
	year := 2025
	equity := 2_500_000.0
	cards := ToMetricCards(report.KeyMetrics{
		Revenue:              44_880_000,
		Equity:               &equity,
		Employees:            44,
		FoundedYear:          2015,
		Status:               "Active",
		Currency:             "NOK",
		HasRealFinancialData: true,
		FinancialDataYear:    &year,
	})

	labels := make([]string, 0, len(cards))
	for _, card := range cards {
		labels = append(labels, card.Label)
	}
	assert.Equal(t, []string{"Revenue", "Equity", "Employees", "Founded", "Status"}, labels)
	assert.Equal(t, "44.9M NOK", cards[0].Value)
	assert.Equal(t, "Filed 2025", cards[0].Hint)
	assert.Equal(t, "2.5M NOK", cards[1].Value)
}
