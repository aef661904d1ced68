package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/finreport/finreport/internal/accounting"
	"github.com/finreport/finreport/internal/company"
)

// ErrInvalidProfile is returned when the profile lacks a name or organization number.
var ErrInvalidProfile = errors.New("report: invalid company profile")

// Enhancement outcomes reported to the recorder.
const (
	EnhancementDisabled = "disabled"
	EnhancementApplied  = "applied"
	EnhancementFailed   = "failed"
)

// CompanyLookup resolves a query to a registry record.
type CompanyLookup interface {
	Lookup(ctx context.Context, query string) (company.Entity, error)
}

// AccountingSource returns normalized summaries, newest first.
type AccountingSource interface {
	Summaries(ctx context.Context, orgNumber string) ([]accounting.YearlyFinancialSummary, error)
}

// Enhancer rewrites narrative fields of a base report. Implementations must
// not modify base; an error means base is used as is.
type Enhancer interface {
	Enhance(ctx context.Context, base FinancialReport, profile company.Profile, summaries []accounting.YearlyFinancialSummary) (FinancialReport, error)
}

// Recorder receives one observation per generated report.
type Recorder interface {
	ObserveReport(source string, enhancement string)
}

// ServiceConfig wires the report pipeline.
type ServiceConfig struct {
	Companies   CompanyLookup
	Accounting  AccountingSource
	Synthesizer *Synthesizer
	Enhancer    Enhancer
	Recorder    Recorder
	Logger      *slog.Logger
}

// Service runs lookup, accounting fetch, synthesis and enhancement in sequence.
type Service struct {
	companies  CompanyLookup
	accounting AccountingSource
	synth      *Synthesizer
	enhancer   Enhancer
	recorder   Recorder
	logger     *slog.Logger
	validate   *validator.Validate
}

// NewService constructs the report service.
func NewService(cfg ServiceConfig) *Service {
	synth := cfg.Synthesizer
	if synth == nil {
		synth = NewSynthesizer(nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		companies:  cfg.Companies,
		accounting: cfg.Accounting,
		synth:      synth,
		enhancer:   cfg.Enhancer,
		recorder:   cfg.Recorder,
		logger:     logger,
		validate:   validator.New(),
	}
}

// Generate looks the company up and builds its report. Lookup failures are
// returned; everything after the lookup degrades instead of failing.
func (s *Service) Generate(ctx context.Context, query string) (FinancialReport, error) {
	if s.companies == nil {
		return FinancialReport{}, errors.New("report: company lookup not configured")
	}
	entity, err := s.companies.Lookup(ctx, query)
	if err != nil {
		return FinancialReport{}, err
	}
	return s.GenerateFromProfile(ctx, entity.Profile())
}

// GenerateFromProfile builds the report for an already resolved company.
func (s *Service) GenerateFromProfile(ctx context.Context, profile company.Profile) (FinancialReport, error) {
	if err := s.validate.Struct(profile); err != nil {
		return FinancialReport{}, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	logger := s.logger.With(slog.String("org_number", profile.OrganizationNumber))

	summaries, message := s.loadSummaries(ctx, logger, profile.OrganizationNumber)
	base := s.synth.Build(profile, summaries, message)
	logger.Info("base report built",
		slog.String("data_source", string(base.Meta.DataSource)),
		slog.Int("years", len(summaries)))

	final, outcome := s.enhance(ctx, logger, base, profile, summaries)
	if s.recorder != nil {
		s.recorder.ObserveReport(string(final.Meta.DataSource), outcome)
	}
	return final, nil
}

// Summaries exposes the accounting lookup on its own.
func (s *Service) Summaries(ctx context.Context, orgNumber string) ([]accounting.YearlyFinancialSummary, error) {
	if s.accounting == nil {
		return nil, accounting.ErrNoData
	}
	return s.accounting.Summaries(ctx, orgNumber)
}

func (s *Service) loadSummaries(ctx context.Context, logger *slog.Logger, orgNumber string) ([]accounting.YearlyFinancialSummary, string) {
	if s.accounting == nil {
		return nil, MessageEstimates
	}
	summaries, err := s.accounting.Summaries(ctx, orgNumber)
	switch {
	case err == nil && len(summaries) > 0:
		return summaries, MessageOfficial
	case err == nil, errors.Is(err, accounting.ErrNoData):
		logger.Info("no filed accounts, using estimates")
	default:
		logger.Warn("accounting lookup failed, using estimates", slog.Any("error", err))
	}
	return nil, MessageEstimates
}

func (s *Service) enhance(ctx context.Context, logger *slog.Logger, base FinancialReport, profile company.Profile, summaries []accounting.YearlyFinancialSummary) (FinancialReport, string) {
	if s.enhancer == nil {
		return base, EnhancementDisabled
	}
	enhanced, err := s.enhancer.Enhance(ctx, base, profile, summaries)
	if err != nil {
		logger.Warn("narrative enhancement failed, returning base report", slog.Any("error", err))
		return base, EnhancementFailed
	}
	enhanced.Meta.Enhanced = true
	return enhanced, EnhancementApplied
}
