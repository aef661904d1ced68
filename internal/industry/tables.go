// Package industry holds the sector factor tables keyed by the two-digit prefix
// of an industry classification code.
package industry

import "strings"

// Defaults applied when a code or its prefix is not present in a table.
const (
	DefaultRevenueMultiplier   = 1.2
	DefaultGrowthRatePercent   = 6.5
	DefaultValuationMultiple   = 1.8
	DefaultConcentrationFactor = 1.0
)

var revenueMultipliers = map[string]float64{
	"62": 2.2, // information technology
	"63": 2.0, // information services
	"64": 2.5, // financial services
	"65": 2.3, // insurance
	"70": 1.8, // management consulting
	"71": 1.6, // architecture and engineering
	"72": 2.1, // scientific research
	"47": 1.1, // retail
	"46": 1.2, // wholesale
	"41": 1.4, // construction
	"42": 1.3, // civil engineering
	"86": 1.0, // healthcare
	"85": 0.9, // education
	"56": 1.1, // food service
	"68": 1.5, // real estate
	"35": 1.7, // electricity, gas, steam
	"49": 1.3, // land transport
	"52": 1.4, // warehousing
}

var growthRates = map[string]float64{
	"62": 15.2,
	"63": 12.8,
	"64": 7.5,
	"65": 6.2,
	"70": 9.8,
	"71": 6.5,
	"72": 11.2,
	"47": 4.2,
	"46": 5.1,
	"41": 6.8,
	"42": 5.9,
	"86": 3.8,
	"85": 2.9,
	"56": 4.5,
	"68": 7.2,
	"35": 8.5,
	"49": 5.2,
	"52": 6.1,
}

var valuationMultiples = map[string]float64{
	"62": 3.5,
	"63": 3.2,
	"64": 2.8,
	"65": 2.5,
	"70": 2.2,
	"71": 1.8,
	"72": 2.5,
	"47": 1.2,
	"46": 1.4,
	"41": 1.6,
	"42": 1.5,
	"86": 1.8,
	"85": 1.5,
	"56": 1.3,
	"68": 2.0,
	"35": 2.3,
	"49": 1.7,
	"52": 1.9,
}

// Values above 1 mark fragmented markets where share is easier to gain.
var concentrationFactors = map[string]float64{
	"62": 0.8,
	"63": 0.9,
	"64": 0.3,
	"65": 0.4,
	"70": 1.2,
	"71": 1.0,
	"72": 1.1,
	"47": 0.7,
	"46": 0.8,
	"41": 1.0,
	"42": 0.9,
	"86": 0.6,
	"85": 0.5,
	"56": 1.1,
	"68": 0.9,
	"35": 0.4,
	"49": 0.8,
	"52": 0.9,
}

// Prefix returns the two leading characters of a classification code, or an
// empty string when the code is shorter than that.
func Prefix(code string) string {
	code = strings.TrimSpace(code)
	if len(code) < 2 {
		return ""
	}
	return code[:2]
}

// RevenueMultiplier scales the per-employee revenue baseline.
func RevenueMultiplier(code string) float64 {
	return lookup(revenueMultipliers, code, DefaultRevenueMultiplier)
}

// GrowthRatePercent is the expected annual sector growth in percent.
func GrowthRatePercent(code string) float64 {
	return lookup(growthRates, code, DefaultGrowthRatePercent)
}

// ValuationMultiple converts revenue into a target valuation.
func ValuationMultiple(code string) float64 {
	return lookup(valuationMultiples, code, DefaultValuationMultiple)
}

// ConcentrationFactor scales the market share estimate.
func ConcentrationFactor(code string) float64 {
	return lookup(concentrationFactors, code, DefaultConcentrationFactor)
}

func lookup(table map[string]float64, code string, fallback float64) float64 {
	if value, ok := table[Prefix(code)]; ok {
		return value
	}
	return fallback
}
