// Package cli implements the finreportctl commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finreport/finreport/internal/accounting"
	"github.com/finreport/finreport/internal/company"
	"github.com/finreport/finreport/internal/report"
	"github.com/finreport/finreport/internal/report/export"
)

// ErrCacheDisabled is returned by cache commands when Redis is not configured.
var ErrCacheDisabled = errors.New("cli: lookup cache not configured")

// ReportGenerator runs the full report pipeline.
type ReportGenerator interface {
	Generate(ctx context.Context, query string) (report.FinancialReport, error)
}

// CompanyFinder resolves and searches registry records.
type CompanyFinder interface {
	Lookup(ctx context.Context, query string) (company.Entity, error)
	Search(ctx context.Context, name string, size int) ([]company.Entity, error)
}

// SummarySource returns normalized accounting summaries.
type SummarySource interface {
	Summaries(ctx context.Context, orgNumber string) ([]accounting.YearlyFinancialSummary, error)
}

// CacheBumper invalidates the lookup cache.
type CacheBumper interface {
	Bump(ctx context.Context) (int64, error)
}

// Deps are the services behind the commands. Cache may be nil.
type Deps struct {
	Reports    ReportGenerator
	Companies  CompanyFinder
	Accounting SummarySource
	Cache      CacheBumper
}

// NewRootCommand assembles the command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "finreportctl",
		Short:         "Operate the company financial report service from the shell",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newReportCommand(deps),
		newCompanyCommand(deps),
		newAccountingCommand(deps),
		newCacheCommand(deps),
	)
	return root
}

func newReportCommand(deps Deps) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "report [name or organization number]",
		Short: "Generate the financial report for a company",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := deps.Reports.Generate(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch format {
			case "json":
				return writeJSON(out, rep)
			case "csv":
				if err := export.WriteMetricsCSV(out, rep); err != nil {
					return err
				}
				if _, err := io.WriteString(out, "\n"); err != nil {
					return err
				}
				return export.WriteSeriesCSV(out, "Revenue", rep.ChartData.Revenue)
			case "text":
				return writeSummary(out, rep)
			default:
				return fmt.Errorf("unknown format %q (want text, json or csv)", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or csv")
	return cmd
}

func newCompanyCommand(deps Deps) *cobra.Command {
	var suggestions bool
	var size int
	cmd := &cobra.Command{
		Use:   "company [name or organization number]",
		Short: "Look up a company in the business register",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if suggestions {
				units, err := deps.Companies.Search(cmd.Context(), query, size)
				if err != nil {
					return err
				}
				for _, unit := range units {
					if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", unit.OrganizationNumber, unit.Name); err != nil {
						return err
					}
				}
				return nil
			}
			entity, err := deps.Companies.Lookup(cmd.Context(), query)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), entity)
		},
	}
	cmd.Flags().BoolVarP(&suggestions, "suggestions", "s", false, "List matching companies instead of resolving one")
	cmd.Flags().IntVar(&size, "size", 0, "Maximum number of suggestions (0 uses the configured page size)")
	return cmd
}

func newAccountingCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "accounting [organization number]",
		Short: "Fetch and normalize the filed accounts of a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !company.IsOrganizationNumber(args[0]) {
				return fmt.Errorf("%q is not a 9-digit organization number", args[0])
			}
			summaries, err := deps.Accounting.Summaries(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), summaries)
		},
	}
}

func newCacheCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the registry lookup cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "bump",
		Short: "Invalidate every cached lookup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.Cache == nil {
				return ErrCacheDisabled
			}
			version, err := deps.Cache.Bump(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "cache version now %d\n", version)
			return err
		},
	})
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSummary(w io.Writer, rep report.FinancialReport) error {
	m := rep.KeyMetrics
	lines := []string{
		fmt.Sprintf("%s (%s)", rep.CompanyName, rep.OrganizationNumber),
		rep.Meta.DataSourceMessage,
		fmt.Sprintf("Revenue:      %s %s", report.FormatAmount(m.Revenue), m.Currency),
		fmt.Sprintf("Employees:    %d", m.Employees),
		fmt.Sprintf("Growth:       %s%%", report.FormatPercent(rep.TrendAnalysis.GrowthRate)),
		fmt.Sprintf("Market share: %s%%", report.FormatPercent(rep.CompetitorAnalysis.MarketShare)),
		fmt.Sprintf("Rating:       %s (risk %s)", rep.InvestmentRecommendation.Rating, rep.InvestmentRecommendation.RiskLevel),
		fmt.Sprintf("Target:       %s", report.FormatAmount(rep.InvestmentRecommendation.TargetPrice)),
	}
	if m.Profit != nil {
		lines = append(lines, fmt.Sprintf("Profit:       %s %s", report.FormatAmount(*m.Profit), m.Currency))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
