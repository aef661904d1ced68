// Package estimate derives synthetic financial figures for companies that have
// no usable filed accounts.
package estimate

import (
	"math"

	"github.com/finreport/finreport/internal/industry"
)

// Rating is the investment recommendation.
type Rating string

// Supported ratings.
const (
	RatingBuy  Rating = "BUY"
	RatingHold Rating = "HOLD"
	RatingSell Rating = "SELL"
)

// RiskLevel classifies the investment risk.
type RiskLevel string

// Supported risk levels.
const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Params carries the heuristic constants. They are configuration, not domain
// truth, and can be replaced per deployment.
type Params struct {
	RevenuePerEmployee   float64
	VATRevenueMultiplier float64
	VATRatingBonus       int
	DefaultEmployees     int
}

// DefaultParams returns the baseline heuristic constants.
func DefaultParams() Params {
	return Params{
		RevenuePerEmployee:   850_000,
		VATRevenueMultiplier: 1.2,
		VATRatingBonus:       1,
		DefaultEmployees:     10,
	}
}

func (p Params) withDefaults() Params {
	def := DefaultParams()
	if p.RevenuePerEmployee <= 0 {
		p.RevenuePerEmployee = def.RevenuePerEmployee
	}
	if p.VATRevenueMultiplier <= 0 {
		p.VATRevenueMultiplier = def.VATRevenueMultiplier
	}
	if p.DefaultEmployees <= 0 {
		p.DefaultEmployees = def.DefaultEmployees
	}
	return p
}

// Input holds the company attributes the estimator works from.
type Input struct {
	Employees     *int
	IndustryCode  string
	VATRegistered bool
}

// Estimate is the full set of synthetic figures for one company.
type Estimate struct {
	Employees          int
	Revenue            float64
	MarketSharePercent float64
	GrowthRatePercent  float64
	ValuationTarget    float64
	Rating             Rating
	Risk               RiskLevel
}

// Estimator computes estimates using a fixed parameter set.
type Estimator struct {
	params Params
}

// New constructs an Estimator. Zero-valued params fall back to the defaults.
func New(params Params) *Estimator {
	return &Estimator{params: params.withDefaults()}
}

// Params exposes the effective parameters.
func (e *Estimator) Params() Params {
	return e.params
}

// Employees resolves the head count: unknown counts use the configured default,
// known counts are clamped to at least one.
func (e *Estimator) Employees(count *int) int {
	if count == nil {
		return e.params.DefaultEmployees
	}
	if *count < 1 {
		return 1
	}
	return *count
}

// Estimate runs every heuristic for a company without real accounts.
func (e *Estimator) Estimate(in Input) Estimate {
	employees := e.Employees(in.Employees)
	revenue := e.Revenue(employees, in.IndustryCode, in.VATRegistered)
	growth := industry.GrowthRatePercent(in.IndustryCode)
	return Estimate{
		Employees:          employees,
		Revenue:            revenue,
		MarketSharePercent: MarketShare(employees, in.IndustryCode),
		GrowthRatePercent:  growth,
		ValuationTarget:    Valuation(revenue, in.IndustryCode),
		Rating:             e.Rating(employees, growth, in.VATRegistered, false),
		Risk:               Risk(employees, growth, false),
	}
}

// Revenue estimates annual revenue from head count and sector.
func (e *Estimator) Revenue(employees int, industryCode string, vatRegistered bool) float64 {
	if employees < 1 {
		employees = 1
	}
	vat := 1.0
	if vatRegistered {
		vat = e.params.VATRevenueMultiplier
	}
	return Round(float64(employees) * e.params.RevenuePerEmployee * industry.RevenueMultiplier(industryCode) * vat)
}

// MarketShare estimates the market share in percent, one decimal.
func MarketShare(employees int, industryCode string) float64 {
	if employees < 1 {
		employees = 1
	}
	base := math.Min(15, math.Max(0.1, float64(employees)/500*5))
	return Round1(base * industry.ConcentrationFactor(industryCode))
}

// Valuation is the revenue-multiple target price.
func Valuation(revenue float64, industryCode string) float64 {
	return Round(revenue * industry.ValuationMultiple(industryCode))
}

// Rating scores size, growth, VAT status and data provenance.
func (e *Estimator) Rating(employees int, growth float64, vatRegistered, hasRealData bool) Rating {
	score := 0
	switch {
	case employees > 100:
		score += 2
	case employees > 50:
		score++
	case employees < 5:
		score--
	}
	switch {
	case growth > 10:
		score += 2
	case growth > 7:
		score++
	case growth < 3:
		score--
	}
	if vatRegistered {
		score += e.params.VATRatingBonus
	}
	if hasRealData {
		score++
	}
	switch {
	case score >= 4:
		return RatingBuy
	case score <= -1:
		return RatingSell
	default:
		return RatingHold
	}
}

// Risk classifies the investment risk.
func Risk(employees int, growth float64, hasRealData bool) RiskLevel {
	if employees > 100 && growth > 5 && hasRealData {
		return RiskLow
	}
	if employees < 10 || growth < 2 {
		return RiskHigh
	}
	return RiskMedium
}

// Round rounds half up to the nearest integer.
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Round1 rounds half up to one decimal.
func Round1(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
