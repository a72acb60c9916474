package viz

import (
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Plot draws values as an ASCII line chart. Long series are thinned to
// width points.
func Plot(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	opts := []asciigraph.Option{asciigraph.Height(height), asciigraph.Caption(caption)}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	return asciigraph.Plot(values, opts...)
}

// PlotMany overlays several series, one color each. Legends are appended to
// the caption in series order.
func PlotMany(series [][]float64, legends []string, caption string, width, height int) string {
	if len(series) == 0 {
		return ""
	}
	colors := []asciigraph.AnsiColor{asciigraph.Green, asciigraph.Yellow, asciigraph.Cyan, asciigraph.Red, asciigraph.Blue}
	seriesColors := make([]asciigraph.AnsiColor, len(series))
	for i := range series {
		seriesColors[i] = colors[i%len(colors)]
	}

	if len(legends) > 0 {
		caption += " (" + strings.Join(legends, ", ") + ")"
	}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(seriesColors...),
	}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	return asciigraph.PlotMany(series, opts...)
}
