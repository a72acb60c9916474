package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles of one theme.
type Styles struct {
	Header    lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Graph     lipgloss.Style
	Help      lipgloss.Style
	Canvas    lipgloss.Style
	Panel     lipgloss.Style
	Running   lipgloss.Style
	Paused    lipgloss.Style
	Landed    lipgloss.Style
	SparkHigh lipgloss.Style
	SparkMid  lipgloss.Style
	SparkLow  lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(t.Primary).
			BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(t.Muted),
		Label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:   lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Graph:   lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 0),
		Help:    lipgloss.NewStyle().Foreground(t.Muted).Italic(true).MarginTop(1),
		Canvas:  lipgloss.NewStyle().Foreground(t.Text).Padding(1, 2),
		Panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder(), false, false, false, true).BorderForeground(t.Muted).Padding(1, 2).Width(48),
		Running: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		Paused:  lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		Landed:  lipgloss.NewStyle().Bold(true).Foreground(t.Accent),

		SparkHigh: lipgloss.NewStyle().Foreground(t.Success),
		SparkMid:  lipgloss.NewStyle().Foreground(t.Warning),
		SparkLow:  lipgloss.NewStyle().Foreground(t.Error),
	}
}

// ProgressBar renders a bar filled to fraction of width.
func (s Styles) ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(width, filled))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case fraction > 0.8:
		return s.SparkHigh.Render(bar)
	case fraction > 0.4:
		return s.SparkMid.Render(bar)
	}
	return s.SparkLow.Render(bar)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders the last width values as a one-line chart.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / span * float64(len(sparkChars)-1))
		b.WriteRune(sparkChars[max(0, min(len(sparkChars)-1, idx))])
	}
	return b.String()
}
