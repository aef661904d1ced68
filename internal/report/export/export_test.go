package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finreport/finreport/internal/report"
)

func sampleReport() report.FinancialReport {
	profit := 1_500_000.0
	return report.FinancialReport{
		Meta: report.Meta{
			GeneratedAt:       time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC),
			DataSource:        report.SourceReal,
			DataSourceMessage: report.MessageOfficial,
		},
		CompanyName:        "Fjord <Tech> AS",
		OrganizationNumber: "923609016",
		KeyMetrics: report.KeyMetrics{
			Revenue:     12_000_000,
			Profit:      &profit,
			Employees:   12,
			FoundedYear: 2015,
			Currency:    "NOK",
		},
		InvestmentRecommendation: report.InvestmentRecommendation{Rating: "BUY", RiskLevel: "LOW"},
		ChartData: report.ChartData{
			Revenue: []report.YearPoint{
				{Year: 2025, Value: 11_000_000, IsReal: true},
				{Year: 2026, Value: 12_000_000},
			},
			MarketShare: []report.CategoryPoint{{Category: "Company", Value: 0.2}, {Category: "Competitors", Value: 99.8}},
		},
	}
}

func TestWriteMetricsCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteMetricsCSV(buf, sampleReport()))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Greater(t, len(records), 2)
	assert.Equal(t, []string{"Metric", "Value"}, records[0])

	values := map[string]string{}
	for _, record := range records[1:] {
		values[record[0]] = record[1]
	}
	assert.Equal(t, "12000000", values["Revenue"])
	assert.Equal(t, "1500000", values["Profit"])
	assert.Equal(t, "", values["Equity"])
	assert.Equal(t, "BUY", values["Rating"])
}

func TestWriteSeriesCSVFlagsSource(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteSeriesCSV(buf, "Revenue", sampleReport().ChartData.Revenue))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"2025", "11000000", "real"}, records[1])
	assert.Equal(t, []string{"2026", "12000000", "estimated"}, records[2])
}

func TestWriteMarketShareCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteMarketShareCSV(buf, sampleReport().ChartData.MarketShare))
	assert.Contains(t, buf.String(), "Competitors,99.8")
}

func TestBuildHTMLEscapesContent(t *testing.T) {
	html, err := BuildHTML(ReportPayload{Report: sampleReport(), RevenueSVG: "<svg></svg>"})
	require.NoError(t, err)
	assert.Contains(t, html, "Fjord &lt;Tech&gt; AS")
	assert.Contains(t, html, "12,000,000 NOK")
	assert.Contains(t, html, "<svg></svg>")
	assert.NotContains(t, html, "<h2>Profit</h2>")
}

func TestPDFExporterRender(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forms/chromium/convert/html" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("unexpected parse error: %v", err)
		}
		file, header, err := r.FormFile("files")
		if err != nil {
			t.Errorf("missing files part: %v", err)
		} else {
			_ = file.Close()
			if header.Filename != "index.html" {
				t.Errorf("unexpected filename %s", header.Filename)
			}
		}
		_, _ = w.Write([]byte("PDF"))
	}))
	defer srv.Close()

	exporter := NewPDFExporter(NewClient(srv.URL, time.Second))
	data, err := exporter.RenderReport(context.Background(), ReportPayload{Report: sampleReport()})
	require.NoError(t, err)
	assert.Equal(t, "PDF", string(data))
}

func TestPDFExporterSurfacesGotenbergFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "chromium crashed", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).RenderHTML(context.Background(), "<html></html>")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "503"))
}

func TestExporterWithoutEndpoint(t *testing.T) {
	var exporter *PDFExporter
	_, err := exporter.RenderReport(context.Background(), ReportPayload{})
	require.ErrorIs(t, err, ErrNotConfigured)

	require.ErrorIs(t, NewClient("", 0).Ping(context.Background()), ErrNotConfigured)
}

func TestClientPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	require.NoError(t, NewClient(srv.URL+"/", time.Second).Ping(context.Background()))
}
