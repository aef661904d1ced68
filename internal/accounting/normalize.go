package accounting

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	pathPeriodEnd       = "regnskapsperiode.tilDato"
	pathRevenue         = "resultatregnskapResultat.driftsresultat.driftsinntekter.sumDriftsinntekter"
	pathProfit          = "resultatregnskapResultat.aarsresultat"
	pathOperatingProfit = "resultatregnskapResultat.driftsresultat.driftsresultat"
	pathTotalAssets     = "eiendeler.sumEiendeler"
	pathEquity          = "egenkapitalGjeld.egenkapital.sumEgenkapital"
	pathDebt            = "egenkapitalGjeld.gjeldOversikt.sumGjeld"
	pathCurrentAssets   = "eiendeler.omloepsmidler.sumOmloepsmidler"
	pathFixedAssets     = "eiendeler.anleggsmidler.sumAnleggsmidler"
	pathFinancialIncome = "resultatregnskapResultat.finansresultat.finansinntekt.sumFinansinntekter"
	pathFinancialCosts  = "resultatregnskapResultat.finansresultat.finanskostnad.sumFinanskostnad"
	pathSmallEnterprise = "regnkapsprinsipper.smaaForetak"
	pathPresentation    = "oppstillingsplan"
	pathParentCompany   = "virksomhet.morselskap"
	pathCurrency        = "valuta"
	pathAccountingType  = "regnskapstype"

	largePresentationPlan = "store"
)

// Normalize converts raw records into summaries ordered newest year first.
// Records without revenue, profit or total assets are dropped. A missing or
// malformed field only nulls that field.
func Normalize(records []gjson.Result, now time.Time) []YearlyFinancialSummary {
	out := make([]YearlyFinancialSummary, 0, len(records))
	for _, record := range records {
		summary, ok := normalizeRecord(record, now)
		if !ok {
			continue
		}
		out = append(out, summary)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Year > out[j].Year
	})
	return out
}

// NormalizePayload classifies a raw response body and normalizes its records.
func NormalizePayload(payload []byte, now time.Time) ([]YearlyFinancialSummary, EnvelopeKind) {
	env := Classify(payload)
	if env.Kind == EnvelopeUnrecognized {
		return []YearlyFinancialSummary{}, env.Kind
	}
	return Normalize(env.Records, now), env.Kind
}

func normalizeRecord(record gjson.Result, now time.Time) (YearlyFinancialSummary, bool) {
	if !record.IsObject() {
		return YearlyFinancialSummary{}, false
	}
	summary := YearlyFinancialSummary{
		Year:            recordYear(record, now),
		Currency:        stringOr(record.Get(pathCurrency), DefaultCurrency),
		Revenue:         amount(record, pathRevenue),
		Profit:          amount(record, pathProfit),
		OperatingProfit: amount(record, pathOperatingProfit),
		TotalAssets:     amount(record, pathTotalAssets),
		Equity:          amount(record, pathEquity),
		Debt:            amount(record, pathDebt),
		CurrentAssets:   amount(record, pathCurrentAssets),
		FixedAssets:     amount(record, pathFixedAssets),
		FinancialIncome: amount(record, pathFinancialIncome),
		FinancialCosts:  amount(record, pathFinancialCosts),
		CompanySize:     companySize(record),
		IsParentCompany: record.Get(pathParentCompany).Type == gjson.True,
		AccountingType:  stringOr(record.Get(pathAccountingType), "unknown"),
	}
	summary.HasRealData = hasRealData(summary)
	if !summary.HasRealData {
		return YearlyFinancialSummary{}, false
	}
	return summary, true
}

func recordYear(record gjson.Result, now time.Time) int {
	raw := strings.TrimSpace(record.Get(pathPeriodEnd).String())
	if raw != "" {
		for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.Year()
			}
		}
	}
	return now.Year()
}

func amount(record gjson.Result, path string) *float64 {
	value := record.Get(path)
	switch value.Type {
	case gjson.Number:
		v := value.Float()
		return &v
	case gjson.String:
		v, err := strconv.ParseFloat(strings.TrimSpace(value.Str), 64)
		if err != nil {
			return nil
		}
		return &v
	default:
		return nil
	}
}

func companySize(record gjson.Result) CompanySize {
	if record.Get(pathSmallEnterprise).Type == gjson.True {
		return SizeSmall
	}
	if record.Get(pathPresentation).String() == largePresentationPlan {
		return SizeLarge
	}
	return SizeMedium
}

func stringOr(value gjson.Result, fallback string) string {
	if value.Type != gjson.String {
		return fallback
	}
	if s := strings.TrimSpace(value.Str); s != "" {
		return s
	}
	return fallback
}
