// Package export renders a generated report as CSV or, through Gotenberg, PDF.
package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/finreport/finreport/internal/report"
)

// ReportPayload aggregates a report and its pre-rendered charts for PDF output.
type ReportPayload struct {
	Report      report.FinancialReport
	RevenueSVG  template.HTML
	EmployeeSVG template.HTML
	ProfitSVG   template.HTML
}

// HTMLRenderer turns an HTML document into PDF bytes.
type HTMLRenderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// PDFExporter lays a report out as a printable HTML page and converts it.
type PDFExporter struct {
	renderer HTMLRenderer
}

// NewPDFExporter wires the exporter to a Gotenberg client.
func NewPDFExporter(renderer HTMLRenderer) *PDFExporter {
	return &PDFExporter{renderer: renderer}
}

// RenderReport builds the printable document and returns the PDF bytes.
func (p *PDFExporter) RenderReport(ctx context.Context, payload ReportPayload) ([]byte, error) {
	if p == nil || p.renderer == nil {
		return nil, ErrNotConfigured
	}
	html, err := BuildHTML(payload)
	if err != nil {
		return nil, err
	}
	return p.renderer.RenderHTML(ctx, html)
}

// BuildHTML renders the standalone document handed to Gotenberg.
func BuildHTML(payload ReportPayload) (string, error) {
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, payload); err != nil {
		return "", fmt.Errorf("render pdf document: %w", err)
	}
	return buf.String(), nil
}

var documentTemplate = template.Must(template.New("document").Funcs(template.FuncMap{
	"amount":   report.FormatAmount,
	"millions": report.FormatMillions,
	"percent":  report.FormatPercent,
	"optional": func(v *float64) string {
		if v == nil {
			return "N/A"
		}
		return report.FormatMillions(*v)
	},
}).Parse(`<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Report.CompanyName}}</title>
<style>
body{font-family:sans-serif;margin:24px;color:#0f172a;}
h1{font-size:22px;margin-bottom:4px;}h2{font-size:16px;margin-top:24px;}
table{width:100%;border-collapse:collapse;margin-bottom:16px;}
th,td{border:1px solid #ddd;padding:6px;text-align:right;}
th,.label{text-align:left;background:#f5f5f5;}
.muted{color:#64748b;font-size:12px;}
ul{margin:4px 0 12px 18px;padding:0;}
</style></head><body>
{{- with .Report}}
<h1>{{.CompanyName}}</h1>
<p class="muted">Org. nr. {{.OrganizationNumber}} &middot; {{.Meta.DataSourceMessage}} &middot; generated {{.Meta.GeneratedAt.Format "2006-01-02"}}</p>
<h2>Key metrics</h2>
<table><tbody>
<tr><td class="label">Revenue</td><td>{{amount .KeyMetrics.Revenue}} {{.KeyMetrics.Currency}}</td></tr>
<tr><td class="label">Profit</td><td>{{optional .KeyMetrics.Profit}}</td></tr>
<tr><td class="label">Total assets</td><td>{{optional .KeyMetrics.TotalAssets}}</td></tr>
<tr><td class="label">Equity</td><td>{{optional .KeyMetrics.Equity}}</td></tr>
<tr><td class="label">Employees</td><td>{{.KeyMetrics.Employees}}</td></tr>
<tr><td class="label">Founded</td><td>{{.KeyMetrics.FoundedYear}}</td></tr>
<tr><td class="label">Industry</td><td>{{.KeyMetrics.Industry}}</td></tr>
<tr><td class="label">Location</td><td>{{.KeyMetrics.Location}}</td></tr>
</tbody></table>
<h2>Trend</h2>
<p>Growth {{percent .TrendAnalysis.GrowthRate}}% &middot; {{.TrendAnalysis.MarketPosition}}</p>
<p>{{.TrendAnalysis.FutureOutlook}}</p>
<h2>Competition</h2>
<p>Market share {{percent .CompetitorAnalysis.MarketShare}}%. {{.CompetitorAnalysis.CompetitiveAdvantage}}</p>
<ul>{{range .CompetitorAnalysis.Threats}}<li>{{.}}</li>{{end}}</ul>
<h2>SWOT</h2>
<table><thead><tr><th>Strengths</th><th>Weaknesses</th><th>Opportunities</th><th>Threats</th></tr></thead><tbody><tr>
<td class="label"><ul>{{range .SwotAnalysis.Strengths}}<li>{{.}}</li>{{end}}</ul></td>
<td class="label"><ul>{{range .SwotAnalysis.Weaknesses}}<li>{{.}}</li>{{end}}</ul></td>
<td class="label"><ul>{{range .SwotAnalysis.Opportunities}}<li>{{.}}</li>{{end}}</ul></td>
<td class="label"><ul>{{range .SwotAnalysis.Threats}}<li>{{.}}</li>{{end}}</ul></td>
</tr></tbody></table>
<h2>Recommendation: {{.InvestmentRecommendation.Rating}}</h2>
<p>Target {{amount .InvestmentRecommendation.TargetPrice}} &middot; risk {{.InvestmentRecommendation.RiskLevel}}</p>
<p>{{.InvestmentRecommendation.Reasoning}}</p>
{{- end}}
{{if .RevenueSVG}}<h2>Revenue</h2>{{.RevenueSVG}}{{end}}
{{if .EmployeeSVG}}<h2>Employees</h2>{{.EmployeeSVG}}{{end}}
{{if .ProfitSVG}}<h2>Profit</h2>{{.ProfitSVG}}{{end}}
</body></html>`))
