// Package ui shapes a generated report for the dashboard templates.
package ui

import (
	"html/template"
	"strconv"

	"github.com/finreport/finreport/internal/report"
	"github.com/finreport/finreport/internal/report/svg"
)

// MetricCard is one headline figure on the dashboard.
type MetricCard struct {
	Label string
	Value string
	Hint  string
}

// DashboardViewModel combines all dashboard data for rendering.
type DashboardViewModel struct {
	Report         report.FinancialReport
	Cards          []MetricCard
	RevenueSVG     template.HTML
	EmployeeSVG    template.HTML
	ProfitSVG      template.HTML
	MarketShareSVG template.HTML
	PDFEnabled     bool
}

// LineRenderer abstracts SVG line chart rendering for the dashboard.
type LineRenderer interface {
	Line(width, height int, series []float64, labels []string, opts svg.LineOpts) (template.HTML, error)
}

// BarRenderer abstracts SVG bar chart rendering for the dashboard.
type BarRenderer interface {
	Bars(width, height int, series []float64, labels []string, opts svg.BarOpts) (template.HTML, error)
}

// YearSeries splits year points into values, labels and estimate flags.
func YearSeries(points []report.YearPoint) ([]float64, []string, []bool) {
	values := make([]float64, 0, len(points))
	labels := make([]string, 0, len(points))
	estimated := make([]bool, 0, len(points))
	for _, point := range points {
		values = append(values, point.Value)
		labels = append(labels, strconv.Itoa(point.Year))
		estimated = append(estimated, !point.IsReal)
	}
	return values, labels, estimated
}

// CategorySeries splits category points into values and labels.
func CategorySeries(points []report.CategoryPoint) ([]float64, []string) {
	values := make([]float64, 0, len(points))
	labels := make([]string, 0, len(points))
	for _, point := range points {
		values = append(values, point.Value)
		labels = append(labels, point.Category)
	}
	return values, labels
}

// ToMetricCards picks the headline figures. Absent optional values are skipped.
func ToMetricCards(m report.KeyMetrics) []MetricCard {
	revenueHint := "Estimated"
	if m.HasRealFinancialData {
		revenueHint = "Filed"
		if m.FinancialDataYear != nil {
			revenueHint = "Filed " + strconv.Itoa(*m.FinancialDataYear)
		}
	}
	cards := []MetricCard{
		{Label: "Revenue", Value: report.FormatMillions(m.Revenue) + " " + m.Currency, Hint: revenueHint},
	}
	optional := []struct {
		label string
		value *float64
	}{
		{"Profit", m.Profit},
		{"Operating profit", m.OperatingProfit},
		{"Total assets", m.TotalAssets},
		{"Equity", m.Equity},
		{"Debt", m.Debt},
	}
	for _, o := range optional {
		if o.value == nil {
			continue
		}
		cards = append(cards, MetricCard{Label: o.label, Value: report.FormatMillions(*o.value) + " " + m.Currency})
	}
	cards = append(cards,
		MetricCard{Label: "Employees", Value: strconv.Itoa(m.Employees)},
		MetricCard{Label: "Founded", Value: strconv.Itoa(m.FoundedYear)},
		MetricCard{Label: "Status", Value: m.Status},
	)
	return cards
}
