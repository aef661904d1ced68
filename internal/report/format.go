package report

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders a whole amount with thousands separators.
func FormatAmount(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// FormatMillions renders an amount in millions with one decimal, e.g. "44.9M".
func FormatMillions(v float64) string {
	return printer.Sprintf("%.1fM", v/1_000_000)
}

// FormatPercent renders a percentage the way it appears in narratives.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
