package reporthttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/finreport/finreport/internal/accounting"
	"github.com/finreport/finreport/internal/company"
	"github.com/finreport/finreport/internal/platform/httpx"
	"github.com/finreport/finreport/internal/report"
	"github.com/finreport/finreport/internal/report/export"
	"github.com/finreport/finreport/internal/report/svg"
	"github.com/finreport/finreport/internal/report/ui"
	"github.com/finreport/finreport/internal/view"
)

const requestTimeout = 30 * time.Second

// ReportService runs the report pipeline.
type ReportService interface {
	Generate(ctx context.Context, query string) (report.FinancialReport, error)
	GenerateFromProfile(ctx context.Context, profile company.Profile) (report.FinancialReport, error)
	Summaries(ctx context.Context, orgNumber string) ([]accounting.YearlyFinancialSummary, error)
}

// CompanyDirectory resolves and searches registry records.
type CompanyDirectory interface {
	Lookup(ctx context.Context, query string) (company.Entity, error)
	Search(ctx context.Context, name string, size int) ([]company.Entity, error)
}

// PDFService renders report content to PDF bytes.
type PDFService interface {
	RenderReport(ctx context.Context, payload export.ReportPayload) ([]byte, error)
}

// Handler serves the report API, the dashboard and the exports.
type Handler struct {
	logger    *slog.Logger
	reports   ReportService
	companies CompanyDirectory
	templates *view.Engine
	line      ui.LineRenderer
	bar       ui.BarRenderer
	pdf       PDFService
	validate  *validator.Validate
	csvPool   sync.Pool
	now       func() time.Time
}

// NewHandler constructs the report HTTP handler. pdf may be nil, which
// disables the PDF export.
func NewHandler(logger *slog.Logger, reports ReportService, companies CompanyDirectory, templates *view.Engine, line ui.LineRenderer, bar ui.BarRenderer, pdf PDFService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		logger:    logger,
		reports:   reports,
		companies: companies,
		templates: templates,
		line:      line,
		bar:       bar,
		pdf:       pdf,
		validate:  validator.New(),
		now:       time.Now,
	}
	h.csvPool.New = func() interface{} { return new(bytes.Buffer) }
	return h
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

type queryParam struct {
	Query string `validate:"required,max=200"`
}

type orgNumberParam struct {
	OrgNumber string `validate:"required,len=9,numeric"`
}

type generateRequest struct {
	CompanyData *company.Entity `json:"companyData"`
}

// noDataResponse mirrors the accounting lookup's "nothing usable" envelope.
type noDataResponse struct {
	Error       string `json:"error"`
	HasRealData bool   `json:"hasRealData"`
	Message     string `json:"message"`
	Suggestion  string `json:"suggestion"`
}

func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	if err := h.templates.Render(w, "pages/home.html", view.TemplateData{Title: "Search", CurrentPath: r.URL.Path}); err != nil {
		h.logError("render home", err)
	}
}

func (h *Handler) handleCompany(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if err != nil {
		h.respondAPIError(w, "parse query", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if r.URL.Query().Get("suggestions") == "true" {
		entities, err := h.companies.Search(ctx, query, 0)
		if err != nil {
			h.respondAPIError(w, "search companies", err)
			return
		}
		httpx.JSON(w, http.StatusOK, entities)
		return
	}
	entity, err := h.companies.Lookup(ctx, query)
	if err != nil {
		h.respondAPIError(w, "lookup company", err)
		return
	}
	httpx.JSON(w, http.StatusOK, entity)
}

func (h *Handler) handleAccounting(w http.ResponseWriter, r *http.Request) {
	orgNumber, err := h.parseOrgNumber(r.URL.Query().Get("orgnr"), "orgnr")
	if err != nil {
		h.respondAPIError(w, "parse orgnr", err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	summaries, err := h.reports.Summaries(ctx, orgNumber)
	switch {
	case err == nil && len(summaries) > 0:
		httpx.JSON(w, http.StatusOK, summaries)
	case err == nil, errors.Is(err, accounting.ErrNoData):
		httpx.JSON(w, http.StatusNotFound, noDataResponse{
			Error:      "No accounting data available",
			Message:    "Company has not published financial statements or data is not publicly available",
			Suggestion: report.MessageEstimates,
		})
	case errors.Is(err, accounting.ErrUnauthorized):
		h.logWarn("accounting access denied", err)
		httpx.JSON(w, http.StatusForbidden, noDataResponse{
			Error:      "Unable to access accounting data",
			Message:    "Financial statements require authenticated access or are not publicly available",
			Suggestion: report.MessageEstimates,
		})
	case errors.Is(err, accounting.ErrUnrecognizedEnvelope):
		h.logWarn("accounting envelope unrecognized", err)
		httpx.JSON(w, http.StatusBadGateway, noDataResponse{
			Error:      "Unexpected response format",
			Message:    "Unable to parse accounting data from API response",
			Suggestion: report.MessageEstimates,
		})
	default:
		h.logWarn("accounting lookup failed", err)
		httpx.JSON(w, http.StatusBadGateway, noDataResponse{
			Error:      "Failed to fetch accounting data",
			Message:    "Unable to connect to accounting register",
			Suggestion: report.MessageEstimates,
		})
	}
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.respondAPIError(w, "decode generate request", validationError{field: "body"})
		return
	}
	if req.CompanyData == nil {
		h.respondAPIError(w, "decode generate request", validationError{field: "companyData"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	rep, err := h.reports.GenerateFromProfile(ctx, req.CompanyData.Profile())
	if err != nil {
		h.respondAPIError(w, "generate report", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

func (h *Handler) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	rep, err := h.generateForPath(r)
	if err != nil {
		h.respondAPIError(w, "generate report", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rep)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if err != nil {
		h.renderPageError(w, r, "", err)
		return
	}
	if company.IsOrganizationNumber(query) {
		http.Redirect(w, r, "/report/"+query, http.StatusSeeOther)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	entity, err := h.companies.Lookup(ctx, query)
	if err != nil {
		h.renderPageError(w, r, query, err)
		return
	}
	http.Redirect(w, r, "/report/"+url.PathEscape(entity.OrganizationNumber), http.StatusSeeOther)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	rep, err := h.generateForPath(r)
	if err != nil {
		h.renderPageError(w, r, chi.URLParam(r, "orgnr"), err)
		return
	}
	vm, err := h.buildViewModel(rep)
	if err != nil {
		h.handleServerError(w, "render charts", err)
		return
	}
	data := view.TemplateData{
		Title:       rep.CompanyName,
		CurrentPath: r.URL.Path,
		Query:       rep.OrganizationNumber,
		Data:        vm,
	}
	if err := h.templates.Render(w, "pages/report.html", data); err != nil {
		h.logError("render report", err)
	}
}

func (h *Handler) handlePDF(w http.ResponseWriter, r *http.Request) {
	if h.pdf == nil {
		httpx.RespondError(w, fmt.Errorf("%w: pdf export", httpx.ErrUnavailable))
		return
	}
	rep, err := h.generateForPath(r)
	if err != nil {
		h.respondAPIError(w, "generate report", err)
		return
	}
	vm, err := h.buildViewModel(rep)
	if err != nil {
		h.handleServerError(w, "render charts", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	pdfBytes, err := h.pdf.RenderReport(ctx, export.ReportPayload{
		Report:      rep,
		RevenueSVG:  vm.RevenueSVG,
		EmployeeSVG: vm.EmployeeSVG,
		ProfitSVG:   vm.ProfitSVG,
	})
	if err != nil {
		h.logError("render pdf", err)
		httpx.RespondError(w, fmt.Errorf("%w: pdf renderer", httpx.ErrUpstream))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", h.filename(rep, "pdf")))
	if _, err := w.Write(pdfBytes); err != nil {
		h.logError("stream pdf", err)
	}
}

func (h *Handler) handleCSV(w http.ResponseWriter, r *http.Request) {
	rep, err := h.generateForPath(r)
	if err != nil {
		h.respondAPIError(w, "generate report", err)
		return
	}

	buf := h.csvPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		buf.Reset()
		h.csvPool.Put(buf)
	}()

	if err := export.WriteMetricsCSV(buf, rep); err != nil {
		h.handleServerError(w, "write metrics csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteSeriesCSV(buf, "Revenue", rep.ChartData.Revenue); err != nil {
		h.handleServerError(w, "write revenue csv", err)
		return
	}
	buf.WriteString("\n")
	if err := export.WriteSeriesCSV(buf, "Employees", rep.ChartData.Employees); err != nil {
		h.handleServerError(w, "write employees csv", err)
		return
	}
	if len(rep.ChartData.Profit) > 0 {
		buf.WriteString("\n")
		if err := export.WriteSeriesCSV(buf, "Profit", rep.ChartData.Profit); err != nil {
			h.handleServerError(w, "write profit csv", err)
			return
		}
	}
	buf.WriteString("\n")
	if err := export.WriteMarketShareCSV(buf, rep.ChartData.MarketShare); err != nil {
		h.handleServerError(w, "write market share csv", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", h.filename(rep, "csv")))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logError("stream csv", err)
	}
}

func (h *Handler) generateForPath(r *http.Request) (report.FinancialReport, error) {
	orgNumber, err := h.parseOrgNumber(chi.URLParam(r, "orgnr"), "orgnr")
	if err != nil {
		return report.FinancialReport{}, err
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	return h.reports.Generate(ctx, orgNumber)
}

func (h *Handler) parseQuery(r *http.Request) (string, error) {
	param := queryParam{Query: strings.TrimSpace(r.URL.Query().Get("q"))}
	if err := h.validate.Struct(param); err != nil {
		return "", validationError{field: "q"}
	}
	return param.Query, nil
}

func (h *Handler) parseOrgNumber(raw, field string) (string, error) {
	param := orgNumberParam{OrgNumber: strings.TrimSpace(raw)}
	if err := h.validate.Struct(param); err != nil {
		return "", validationError{field: field}
	}
	return param.OrgNumber, nil
}

// buildViewModel renders the four charts concurrently.
func (h *Handler) buildViewModel(rep report.FinancialReport) (ui.DashboardViewModel, error) {
	if h.line == nil || h.bar == nil {
		return ui.DashboardViewModel{}, fmt.Errorf("svg renderer missing")
	}
	vm := ui.DashboardViewModel{
		Report:     rep,
		Cards:      ui.ToMetricCards(rep.KeyMetrics),
		PDFEnabled: h.pdf != nil,
	}

	var g errgroup.Group
	g.Go(func() error {
		values, labels, estimated := ui.YearSeries(rep.ChartData.Revenue)
		out, err := h.line.Line(svg.DefaultWidth, svg.DefaultHeight, values, labels, svg.LineOpts{
			Title:       "Revenue",
			Description: "Revenue per year, filed and estimated",
			Estimated:   estimated,
		})
		vm.RevenueSVG = out
		return err
	})
	g.Go(func() error {
		values, labels, estimated := ui.YearSeries(rep.ChartData.Employees)
		out, err := h.line.Line(svg.DefaultWidth, svg.DefaultHeight, values, labels, svg.LineOpts{
			Title:       "Employees",
			Description: "Headcount per year",
			StrokeColor: "#0d9488",
			FillColor:   "rgba(13,148,136,0.12)",
			Estimated:   estimated,
		})
		vm.EmployeeSVG = out
		return err
	})
	if len(rep.ChartData.Profit) > 0 {
		g.Go(func() error {
			values, labels, _ := ui.YearSeries(rep.ChartData.Profit)
			out, err := h.bar.Bars(svg.DefaultWidth, svg.DefaultHeight, values, labels, svg.BarOpts{
				Title:       "Profit",
				Description: "Filed annual result",
				ShowValues:  true,
			})
			vm.ProfitSVG = out
			return err
		})
	}
	g.Go(func() error {
		values, labels := ui.CategorySeries(rep.ChartData.MarketShare)
		out, err := h.bar.Bars(svg.DefaultWidth, svg.DefaultHeight, values, labels, svg.BarOpts{
			Title:       "Market share",
			Description: "Estimated share of the industry, percent",
			Color:       "#7c3aed",
			ShowValues:  true,
		})
		vm.MarketShareSVG = out
		return err
	})
	if err := g.Wait(); err != nil {
		return ui.DashboardViewModel{}, err
	}
	return vm, nil
}

func (h *Handler) filename(rep report.FinancialReport, ext string) string {
	return fmt.Sprintf("finreport-%s-%s.%s", rep.OrganizationNumber, h.now().UTC().Format("2006-01-02"), ext)
}

// apiError translates domain errors into the httpx sentinels. The boolean is
// false when err is not a known client-facing failure.
func apiError(err error) (error, bool) {
	var vErr validationError
	switch {
	case errors.As(err, &vErr):
		return fmt.Errorf("%w: %s", httpx.ErrValidation, vErr.Error()), true
	case errors.Is(err, company.ErrInvalidQuery):
		return fmt.Errorf("%w: query required", httpx.ErrValidation), true
	case errors.Is(err, report.ErrInvalidProfile):
		return fmt.Errorf("%w: %s", httpx.ErrValidation, err.Error()), true
	case errors.Is(err, company.ErrNotFound):
		return fmt.Errorf("%w: company not found", httpx.ErrNotFound), true
	case errors.Is(err, company.ErrUpstream):
		return fmt.Errorf("%w: company register", httpx.ErrUpstream), true
	}
	return err, false
}

func (h *Handler) respondAPIError(w http.ResponseWriter, context string, err error) {
	mapped, known := apiError(err)
	if !known {
		h.logError(context, err)
	}
	httpx.RespondError(w, mapped)
}

func (h *Handler) renderPageError(w http.ResponseWriter, r *http.Request, query string, err error) {
	status := http.StatusInternalServerError
	message := "Something went wrong while building the report."
	mapped, _ := apiError(err)
	switch {
	case errors.Is(mapped, httpx.ErrValidation):
		status = http.StatusBadRequest
		message = "Enter a company name or a 9-digit organization number."
	case errors.Is(mapped, httpx.ErrNotFound):
		status = http.StatusNotFound
		message = "No company matched your search."
	case errors.Is(mapped, httpx.ErrUpstream):
		status = http.StatusBadGateway
		message = "The company register is not responding. Try again shortly."
	default:
		h.logError("build report page", err)
	}
	data := view.TemplateData{Title: "Search", CurrentPath: r.URL.Path, Query: query, Error: message}
	if err := h.templates.RenderStatus(w, status, "pages/home.html", data); err != nil {
		h.logError("render error page", err)
	}
}

func (h *Handler) handleServerError(w http.ResponseWriter, context string, err error) {
	h.logError(context, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Handler) logError(context string, err error) {
	h.logger.Error(context, slog.Any("error", err))
}

func (h *Handler) logWarn(context string, err error) {
	h.logger.Warn(context, slog.Any("error", err))
}

type validationError struct {
	field string
}

func (v validationError) Error() string {
	return fmt.Sprintf("invalid %s", v.field)
}

// HandleDashboardForTest exposes the dashboard handler for tests.
func (h *Handler) HandleDashboardForTest(w http.ResponseWriter, r *http.Request) {
	h.handleDashboard(w, r)
}

// HandlePDFForTest exposes the PDF handler for tests.
func (h *Handler) HandlePDFForTest(w http.ResponseWriter, r *http.Request) { h.handlePDF(w, r) }

// HandleCSVForTest exposes the CSV handler for tests.
func (h *Handler) HandleCSVForTest(w http.ResponseWriter, r *http.Request) { h.handleCSV(w, r) }
