package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/finreport/finreport/internal/report"
)

// WriteMetricsCSV serialises the headline metrics of a report.
func WriteMetricsCSV(w io.Writer, rep report.FinancialReport) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	m := rep.KeyMetrics
	records := [][]string{
		{"Company", rep.CompanyName},
		{"Organization Number", rep.OrganizationNumber},
		{"Data Source", string(rep.Meta.DataSource)},
		{"Revenue", formatFloat(m.Revenue)},
		{"Profit", formatOptional(m.Profit)},
		{"Operating Profit", formatOptional(m.OperatingProfit)},
		{"Total Assets", formatOptional(m.TotalAssets)},
		{"Equity", formatOptional(m.Equity)},
		{"Debt", formatOptional(m.Debt)},
		{"Employees", strconv.Itoa(m.Employees)},
		{"Founded", strconv.Itoa(m.FoundedYear)},
		{"Industry", m.Industry},
		{"Currency", m.Currency},
		{"Growth Rate", formatFloat(rep.TrendAnalysis.GrowthRate)},
		{"Market Share", formatFloat(rep.CompetitorAnalysis.MarketShare)},
		{"Rating", string(rep.InvestmentRecommendation.Rating)},
		{"Target Price", formatFloat(rep.InvestmentRecommendation.TargetPrice)},
		{"Risk Level", string(rep.InvestmentRecommendation.RiskLevel)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteSeriesCSV emits one yearly chart series, flagging filed values.
func WriteSeriesCSV(w io.Writer, name string, points []report.YearPoint) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Year", name, "Source"}); err != nil {
		return err
	}
	for _, point := range points {
		source := string(report.SourceEstimated)
		if point.IsReal {
			source = string(report.SourceReal)
		}
		if err := writer.Write([]string{
			strconv.Itoa(point.Year),
			formatFloat(point.Value),
			source,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteMarketShareCSV prints the market share split.
func WriteMarketShareCSV(w io.Writer, points []report.CategoryPoint) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Category", "Share"}); err != nil {
		return err
	}
	for _, point := range points {
		if err := writer.Write([]string{point.Category, formatFloat(point.Value)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
