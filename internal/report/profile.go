package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/finreport/finreport/internal/company"
)

// Profile defaults used when the registry leaves a field empty.
const (
	DefaultIndustry         = "General Business"
	DefaultLegalForm        = "Limited Company"
	DefaultLocation         = "Norway"
	DefaultRegistrationDate = "Unknown"
	fallbackCompanyAge      = 10
)

func industryLabel(p company.Profile) string {
	return orDefault(p.IndustryLabel, DefaultIndustry)
}

func legalForm(p company.Profile) string {
	return orDefault(p.LegalForm, DefaultLegalForm)
}

func location(p company.Profile) string {
	return orDefault(strings.Trim(strings.TrimSpace(p.Location), ", "), DefaultLocation)
}

func registrationDate(p company.Profile) string {
	return orDefault(p.RegistrationDate, DefaultRegistrationDate)
}

// FoundedYear prefers the founding date, then the registration date, then
// assumes the company is ten years old.
func FoundedYear(p company.Profile, now time.Time) int {
	for _, raw := range []string{p.FoundedDate, p.RegistrationDate} {
		if year, ok := parseYear(raw); ok {
			return year
		}
	}
	return now.Year() - fallbackCompanyAge
}

func parseYear(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.Year(), true
		}
	}
	if len(raw) >= 4 {
		if year, err := strconv.Atoi(raw[:4]); err == nil && year > 0 {
			return year, true
		}
	}
	return 0, false
}

func orDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value == "" {
		return fallback
	}
	return value
}
