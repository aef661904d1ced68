package svg

import (
	"fmt"
	"html/template"
	"strings"
)

// Bars renders one bar per label. Negative values hang below the zero line
// in NegativeColor.
func Bars(width, height int, series []float64, labels []string, opts BarOpts) (template.HTML, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("svg: series required")
	}
	if len(series) != len(labels) {
		return "", fmt.Errorf("svg: labels length must match series")
	}
	frame, err := newFrame(width, height, opts.Padding, opts.TickCount, series)
	if err != nil {
		return "", err
	}
	color := fallback(opts.Color, "#0ea5e9")
	negative := fallback(opts.NegativeColor, "#ef4444")
	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5f5")

	var b strings.Builder
	frame.open(&b, opts.Title, opts.Description, "bar", "Bar chart", "Values per category")
	frame.grid(&b, axisColor, gridColor)

	zeroY := frame.y(0)
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"1\"></line>", frame.padding, zeroY, frame.padding+frame.width, zeroY, axisColor))

	slot := frame.width / float64(len(series))
	barWidth := slot * 0.6
	for i, value := range series {
		x := frame.padding + float64(i)*slot + (slot-barWidth)/2
		top := frame.y(value)
		fill := color
		y, h := top, zeroY-top
		if value < 0 {
			fill = negative
			y, h = zeroY, top-zeroY
		}
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s\"></rect>", x, y, barWidth, h, fill, template.HTMLEscapeString(labels[i])))
		if opts.ShowValues {
			labelY := top - 4
			if value < 0 {
				labelY = top + 12
			}
			b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", x+barWidth/2, labelY, axisColor, template.HTMLEscapeString(formatTick(value))))
		}
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", x+barWidth/2, frame.bottom()+14, axisColor, template.HTMLEscapeString(labels[i])))
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
