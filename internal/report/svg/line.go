package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Line renders a line chart. Points flagged in opts.Estimated get a hollow
// marker and the segments leading into them are dashed.
func Line(width, height int, series []float64, labels []string, opts LineOpts) (template.HTML, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("svg: series required")
	}
	if len(series) != len(labels) {
		return "", fmt.Errorf("svg: labels length must match series")
	}
	if opts.Estimated != nil && len(opts.Estimated) != len(series) {
		return "", fmt.Errorf("svg: estimated flags length must match series")
	}
	frame, err := newFrame(width, height, opts.Padding, opts.TickCount, series)
	if err != nil {
		return "", err
	}
	strokeColor := fallback(opts.StrokeColor, "#2563eb")
	fillColor := fallback(opts.FillColor, "rgba(37,99,235,0.10)")
	estimatedColor := fallback(opts.EstimatedColor, "#94a3b8")
	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5f5")

	estimated := func(i int) bool { return opts.Estimated != nil && opts.Estimated[i] }

	xs := make([]float64, len(series))
	ys := make([]float64, len(series))
	for i, value := range series {
		xs[i] = frame.x(i, len(series))
		ys[i] = frame.y(value)
	}

	var b strings.Builder
	frame.open(&b, opts.Title, opts.Description, "line", "Line chart", "Yearly values")
	frame.grid(&b, axisColor, gridColor)

	var area strings.Builder
	area.WriteString(fmt.Sprintf("M%.2f %.2f", xs[0], frame.bottom()))
	for i := range series {
		area.WriteString(fmt.Sprintf(" L%.2f %.2f", xs[i], ys[i]))
	}
	area.WriteString(fmt.Sprintf(" L%.2f %.2f Z", xs[len(xs)-1], frame.bottom()))
	b.WriteString(fmt.Sprintf("<path d=\"%s\" fill=\"%s\" stroke=\"none\" aria-hidden=\"true\"></path>", area.String(), fillColor))

	for i := 1; i < len(series); i++ {
		dash := ""
		color := strokeColor
		if estimated(i) || estimated(i-1) {
			dash = " stroke-dasharray=\"6,4\""
			color = estimatedColor
		}
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"2\" stroke-linecap=\"round\"%s></line>", xs[i-1], ys[i-1], xs[i], ys[i], color, dash))
	}

	for i, value := range series {
		kind := "filed"
		marker := fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"4\" fill=\"%s\"", xs[i], ys[i], strokeColor)
		if estimated(i) {
			kind = "estimated"
			marker = fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"4\" fill=\"#ffffff\" stroke=\"%s\" stroke-width=\"2\"", xs[i], ys[i], estimatedColor)
		}
		b.WriteString(fmt.Sprintf("%s class=\"point-%s\"><title>%s: %s (%s)</title></circle>", marker, kind, template.HTMLEscapeString(labels[i]), template.HTMLEscapeString(formatTick(value)), kind))
	}

	for i, label := range labels {
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", xs[i], frame.bottom()+14, axisColor, template.HTMLEscapeString(label)))
	}

	if opts.Estimated != nil {
		legendY := math.Max(12, frame.padding-12)
		b.WriteString(fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"4\" fill=\"%s\"></circle>", frame.padding+4, legendY-4, strokeColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\">Filed</text>", frame.padding+12, legendY, axisColor))
		b.WriteString(fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"4\" fill=\"#ffffff\" stroke=\"%s\" stroke-width=\"2\"></circle>", frame.padding+60, legendY-4, estimatedColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\">Estimated</text>", frame.padding+68, legendY, axisColor))
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
