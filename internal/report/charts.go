package report

import (
	"math"
	"sort"

	"github.com/finreport/finreport/internal/accounting"
	"github.com/finreport/finreport/internal/estimate"
)

const (
	chartWindowYears        = 5
	employeeGrowthPerYear   = 0.05
	marketShareCompetitors  = "Competitors"
	marketShareCompanyLabel = "Company"
)

// RevenueSeries merges real revenue points inside the trailing window with
// estimates compounded backwards from current at growth percent per year.
func RevenueSeries(summaries []accounting.YearlyFinancialSummary, current, growthPercent float64, currentYear int) []YearPoint {
	filed := make(map[int]float64)
	for _, s := range summaries {
		if s.Revenue == nil {
			continue
		}
		if _, seen := filed[s.Year]; !seen {
			filed[s.Year] = *s.Revenue
		}
	}
	return windowSeries(filed, currentYear, func(offset int) float64 {
		return estimate.Round(current * math.Pow(1+growthPercent/100, float64(offset-(chartWindowYears-1))))
	})
}

// EmployeeSeries does the same for head count with a fixed five percent
// yearly growth assumption and a floor of one.
func EmployeeSeries(summaries []accounting.YearlyFinancialSummary, current int, currentYear int) []YearPoint {
	filed := make(map[int]float64)
	for _, s := range summaries {
		if s.Employees == nil {
			continue
		}
		if _, seen := filed[s.Year]; !seen {
			filed[s.Year] = float64(*s.Employees)
		}
	}
	return windowSeries(filed, currentYear, func(offset int) float64 {
		v := estimate.Round(float64(current) * math.Pow(1+employeeGrowthPerYear, float64(offset-(chartWindowYears-1))))
		return math.Max(1, v)
	})
}

// ProfitSeries only ever holds filed figures; it is empty when no summary
// carries a profit.
func ProfitSeries(summaries []accounting.YearlyFinancialSummary) []YearPoint {
	points := make([]YearPoint, 0, len(summaries))
	seen := make(map[int]struct{}, len(summaries))
	for _, s := range summaries {
		if s.Profit == nil {
			continue
		}
		if _, dup := seen[s.Year]; dup {
			continue
		}
		seen[s.Year] = struct{}{}
		points = append(points, YearPoint{Year: s.Year, Value: *s.Profit, IsReal: true})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points
}

// MarketShareSeries splits the market between the company and its competitors.
func MarketShareSeries(share float64) []CategoryPoint {
	return []CategoryPoint{
		{Category: marketShareCompanyLabel, Value: share},
		{Category: marketShareCompetitors, Value: estimate.Round1(100 - share)},
	}
}

// windowSeries covers exactly the trailing window; real points outside it are
// not plotted.
func windowSeries(filed map[int]float64, currentYear int, estimateAt func(offset int) float64) []YearPoint {
	points := make([]YearPoint, 0, chartWindowYears)
	first := currentYear - (chartWindowYears - 1)
	for offset := 0; offset < chartWindowYears; offset++ {
		year := first + offset
		if value, ok := filed[year]; ok {
			points = append(points, YearPoint{Year: year, Value: value, IsReal: true})
			continue
		}
		points = append(points, YearPoint{Year: year, Value: estimateAt(offset)})
	}
	return points
}
