package svg

import (
	"strings"
	"testing"
)

func TestBarsRenderNegativeValues(t *testing.T) {
	html, err := Bars(400, 200, []float64{-300_000, 1_200_000}, []string{"2024", "2025"}, BarOpts{
		Title:      "Profit",
		ShowValues: true,
	})
	if err != nil {
		t.Fatalf("bar renderer error: %v", err)
	}
	output := string(html)
	if got := strings.Count(output, "<rect"); got != 2 {
		t.Fatalf("expected 2 bars, got %d", got)
	}
	if !strings.Contains(output, "fill=\"#ef4444\"") {
		t.Fatalf("expected negative bar color")
	}
	if !strings.Contains(output, ">1.2M</text>") {
		t.Fatalf("expected value labels, got %s", output)
	}
}

func TestBarsValidateInput(t *testing.T) {
	if _, err := Bars(400, 200, nil, nil, BarOpts{}); err == nil {
		t.Fatalf("expected error for empty series")
	}
	if _, err := Bars(400, 200, []float64{1, 2}, []string{"a"}, BarOpts{}); err == nil {
		t.Fatalf("expected error for mismatched labels")
	}
}
