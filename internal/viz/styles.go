package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Title)
}

func accentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Accent)
}

func mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
}

func hintStyle() lipgloss.Style {
	return mutedStyle().Italic(true)
}

func panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(CurrentTheme.Border).
		Padding(0, 1)
}

// levelStyle colors a value by its fraction of the maximum.
func levelStyle(frac float64) lipgloss.Style {
	s := lipgloss.NewStyle()
	switch {
	case frac > 0.7:
		return s.Foreground(CurrentTheme.High)
	case frac > 0.3:
		return s.Foreground(CurrentTheme.Mid)
	}
	return s.Foreground(CurrentTheme.Low)
}

// ProbBar renders a probability in [0, 1] as a bar width cells wide.
func ProbBar(p float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(p*float64(width) + 0.5)
	filled = max(0, min(filled, width))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return levelStyle(p).Render(bar)
}

// Sparkline renders values as one line of block characters, resampled to
// width columns and scaled between their minimum and maximum.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	n := min(width, len(values))
	var sb strings.Builder
	for i := 0; i < n; i++ {
		v := values[i*len(values)/n]
		norm := (v - lo) / rng
		idx := int(norm * float64(len(sparkChars)-1))
		idx = max(0, min(idx, len(sparkChars)-1))
		sb.WriteString(levelStyle(norm).Render(string(sparkChars[idx])))
	}
	return sb.String()
}

// Separator is a muted horizontal rule.
func Separator(width int) string {
	if width < 8 {
		return mutedStyle().Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return mutedStyle().Render(strings.Repeat("─", mid-2) + " ◆ " + strings.Repeat("─", width-mid-1))
}
