// Package svg renders the small, dependency free charts used on the report
// dashboard and in the PDF export.
package svg

// LineOpts customises the line chart renderer.
type LineOpts struct {
	Title          string
	Description    string
	StrokeColor    string
	FillColor      string
	EstimatedColor string
	AxisColor      string
	GridColor      string
	Padding        float64
	TickCount      int
	// Estimated flags points drawn as hollow markers. Nil means all filed.
	Estimated []bool
}

// BarOpts customises the bar chart renderer.
type BarOpts struct {
	Title         string
	Description   string
	Color         string
	NegativeColor string
	AxisColor     string
	GridColor     string
	Padding       float64
	TickCount     int
	ShowValues    bool
}

// Defaults for the report charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 240
	DefaultPadding = 32.0
	DefaultTicks   = 5
)
