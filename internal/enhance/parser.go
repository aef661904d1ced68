package enhance

import (
	"regexp"
	"strings"

	"github.com/finreport/finreport/internal/report"
)

const maxListItems = 3

// Overrides are the report fields a generation response may replace. Nil or
// empty fields leave the report untouched.
type Overrides struct {
	MarketPosition       *string
	FutureOutlook        *string
	CompetitiveAdvantage *string
	InvestmentReasoning  *string
	Strengths            []string
	Weaknesses           []string
	Opportunities        []string
	Threats              []string
}

// Empty reports whether no field would change.
func (o Overrides) Empty() bool {
	return o.MarketPosition == nil && o.FutureOutlook == nil && o.CompetitiveAdvantage == nil &&
		o.InvestmentReasoning == nil && len(o.Strengths) == 0 && len(o.Weaknesses) == 0 &&
		len(o.Opportunities) == 0 && len(o.Threats) == 0
}

// Apply returns a copy of base with the overrides written in.
func (o Overrides) Apply(base report.FinancialReport) report.FinancialReport {
	out := base.Clone()
	setString(&out.TrendAnalysis.MarketPosition, o.MarketPosition)
	setString(&out.TrendAnalysis.FutureOutlook, o.FutureOutlook)
	setString(&out.CompetitorAnalysis.CompetitiveAdvantage, o.CompetitiveAdvantage)
	setString(&out.InvestmentRecommendation.Reasoning, o.InvestmentReasoning)
	setList(&out.SwotAnalysis.Strengths, o.Strengths)
	setList(&out.SwotAnalysis.Weaknesses, o.Weaknesses)
	setList(&out.SwotAnalysis.Opportunities, o.Opportunities)
	setList(&out.SwotAnalysis.Threats, o.Threats)
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setList(dst *[]string, v []string) {
	if len(v) > 0 {
		*dst = append([]string(nil), v...)
	}
}

// Parser extracts overrides from generated text.
type Parser interface {
	Parse(raw string) Overrides
}

// LabelParser finds each section by its label. Sections are independent; a
// missing or empty one is skipped.
type LabelParser struct{}

var (
	marketPositionPattern       = sentencePattern("MARKET_POSITION")
	futureOutlookPattern        = sentencePattern("FUTURE_OUTLOOK")
	competitiveAdvantagePattern = sentencePattern("COMPETITIVE_ADVANTAGE")
	investmentReasoningPattern  = sentencePattern("INVESTMENT_REASONING")
	strengthsPattern            = listPattern("STRENGTHS")
	weaknessesPattern           = listPattern("WEAKNESSES")
	opportunitiesPattern        = listPattern("OPPORTUNITIES")
	threatsPattern              = listPattern("THREATS")
	bulletPrefix                = regexp.MustCompile(`^\s*-\s*`)
)

func sentencePattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + label + `:\s*(.+?)(?:\n|$)`)
}

func listPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + label + `:\s*((?:\s*-\s*.+\n?)+)`)
}

// Parse implements Parser.
func (LabelParser) Parse(raw string) Overrides {
	return Overrides{
		MarketPosition:       sentence(marketPositionPattern, raw),
		FutureOutlook:        sentence(futureOutlookPattern, raw),
		CompetitiveAdvantage: sentence(competitiveAdvantagePattern, raw),
		InvestmentReasoning:  sentence(investmentReasoningPattern, raw),
		Strengths:            bullets(strengthsPattern, raw),
		Weaknesses:           bullets(weaknessesPattern, raw),
		Opportunities:        bullets(opportunitiesPattern, raw),
		Threats:              bullets(threatsPattern, raw),
	}
}

func sentence(pattern *regexp.Regexp, raw string) *string {
	match := pattern.FindStringSubmatch(raw)
	if match == nil {
		return nil
	}
	text := strings.TrimSpace(match[1])
	if text == "" {
		return nil
	}
	return &text
}

func bullets(pattern *regexp.Regexp, raw string) []string {
	match := pattern.FindStringSubmatch(raw)
	if match == nil {
		return nil
	}
	var items []string
	for _, line := range strings.Split(match[1], "\n") {
		item := strings.TrimSpace(bulletPrefix.ReplaceAllString(line, ""))
		if item == "" {
			continue
		}
		items = append(items, item)
		if len(items) == maxListItems {
			break
		}
	}
	return items
}
