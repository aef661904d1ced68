package enhance

import (
	"context"
	"errors"
	"log/slog"

	"github.com/finreport/finreport/internal/accounting"
	"github.com/finreport/finreport/internal/company"
	"github.com/finreport/finreport/internal/report"
)

// ErrNoOverrides means the response parsed but carried none of the sections.
var ErrNoOverrides = errors.New("enhance: response carried no recognizable sections")

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Enhancer runs the prompt, generation and parse steps.
type Enhancer struct {
	generator Generator
	parser    Parser
	logger    *slog.Logger
}

// NewEnhancer constructs an Enhancer. A nil parser uses LabelParser.
func NewEnhancer(generator Generator, parser Parser, logger *slog.Logger) *Enhancer {
	if parser == nil {
		parser = LabelParser{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enhancer{generator: generator, parser: parser, logger: logger}
}

// Enhance returns a rewritten copy of base. base itself is never modified.
func (e *Enhancer) Enhance(ctx context.Context, base report.FinancialReport, profile company.Profile, summaries []accounting.YearlyFinancialSummary) (report.FinancialReport, error) {
	if e == nil || e.generator == nil {
		return base, ErrNotConfigured
	}
	prompt, err := BuildPrompt(base, profile, summaries)
	if err != nil {
		return base, err
	}
	raw, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		return base, err
	}
	overrides := e.parser.Parse(raw)
	if overrides.Empty() {
		return base, ErrNoOverrides
	}
	e.logger.Debug("narrative overrides parsed", slog.String("org_number", profile.OrganizationNumber))
	return overrides.Apply(base), nil
}
