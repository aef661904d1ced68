// Package enhance rewrites the narrative parts of a report with text from an
// external generation model. Every failure leaves the report as it was.
package enhance

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/finreport/finreport/internal/accounting"
	"github.com/finreport/finreport/internal/company"
	"github.com/finreport/finreport/internal/report"
)

const maxPromptYears = 3

var promptTemplate = template.Must(template.New("prompt").Parse(`Analyze this Norwegian company and provide specific business insights:

COMPANY INFORMATION:
- Name: {{.Name}}
- Organization Number: {{.OrgNumber}}
- Industry: {{.Industry}}
- Legal Form: {{.LegalForm}}
- Location: {{.Location}}
- Employees: {{.Employees}}
- VAT Registered: {{.VAT}}
- Founded: {{.Founded}}
- Status: {{.Status}}

FINANCIAL ANALYSIS:
{{- if .Years}}
Real Financial Data Available:
{{- range .Years}}
- Year {{.Year}}: Revenue: {{.Revenue}}, Profit: {{.Profit}}
{{- end}}
{{- else}}
Data Source: {{.DataSource}}
Estimated Revenue: {{.EstimatedRevenue}} NOK
Analysis based on industry benchmarks and company size
{{- end}}

MARKET CONTEXT:
- Norwegian {{.IndustryLower}} sector
- {{.Employees}} employees indicating {{.SizeLabel}} company size
- Located in {{.Location}}

Based on this comprehensive analysis, provide insights in this exact format:

MARKET_POSITION: [One sentence about the company's position in the Norwegian market]

FUTURE_OUTLOOK: [One sentence about future prospects considering Norwegian market conditions]

COMPETITIVE_ADVANTAGE: [One sentence about main competitive advantages]

INVESTMENT_REASONING: [One sentence about investment potential and rationale]

STRENGTHS:
- [Strength 1 - focus on Norwegian market advantages]
- [Strength 2 - operational or industry-specific strength]
- [Strength 3 - financial or strategic strength]

WEAKNESSES:
- [Weakness 1 - market or competitive challenge]
- [Weakness 2 - operational or financial limitation]
- [Weakness 3 - strategic or growth constraint]

OPPORTUNITIES:
- [Opportunity 1 - Norwegian market opportunity]
- [Opportunity 2 - industry or technology opportunity]
- [Opportunity 3 - expansion or strategic opportunity]

THREATS:
- [Threat 1 - market or competitive threat]
- [Threat 2 - economic or regulatory threat]
- [Threat 3 - industry or operational threat]`))

type promptYear struct {
	Year    int
	Revenue string
	Profit  string
}

type promptData struct {
	Name             string
	OrgNumber        string
	Industry         string
	IndustryLower    string
	LegalForm        string
	Location         string
	Employees        int
	SizeLabel        string
	VAT              string
	Founded          int
	Status           string
	Years            []promptYear
	DataSource       string
	EstimatedRevenue string
}

// BuildPrompt renders the analysis prompt for one company. At most the three
// most recent summaries are included.
func BuildPrompt(base report.FinancialReport, profile company.Profile, summaries []accounting.YearlyFinancialSummary) (string, error) {
	employees := base.KeyMetrics.Employees
	if profile.Employees != nil && *profile.Employees > 0 {
		employees = *profile.Employees
	}
	vat := "No"
	if profile.VATRegistered {
		vat = "Yes"
	}
	data := promptData{
		Name:             profile.Name,
		OrgNumber:        profile.OrganizationNumber,
		Industry:         base.KeyMetrics.Industry,
		IndustryLower:    strings.ToLower(base.KeyMetrics.Industry),
		LegalForm:        base.KeyMetrics.LegalForm,
		Location:         base.KeyMetrics.Location,
		Employees:        employees,
		SizeLabel:        sizeLabel(employees),
		VAT:              vat,
		Founded:          base.KeyMetrics.FoundedYear,
		Status:           profile.Status(),
		DataSource:       base.Meta.DataSourceMessage,
		EstimatedRevenue: report.FormatMillions(base.KeyMetrics.Revenue),
	}
	for i, s := range summaries {
		if i == maxPromptYears {
			break
		}
		data.Years = append(data.Years, promptYear{Year: s.Year, Revenue: millionsOrNA(s.Revenue), Profit: millionsOrNA(s.Profit)})
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("enhance: render prompt: %w", err)
	}
	return buf.String(), nil
}

func sizeLabel(employees int) string {
	switch {
	case employees > 100:
		return "large"
	case employees > 20:
		return "medium"
	default:
		return "small"
	}
}

func millionsOrNA(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return report.FormatMillions(*v) + " NOK"
}
