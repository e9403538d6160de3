package viz

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/dunbrack"
)

const barWidth = 12

// RenderRotamers draws the result of one query as a table with the most
// probable rotamers first. top limits the rows; zero or less shows all.
func RenderRotamers(k dunbrack.Kind, phi, psi float64, set []dunbrack.Rotamer, top int) string {
	var sum float64
	for _, r := range set {
		sum += float64(r.Prob)
	}
	rots := slices.Clone(set)
	slices.SortStableFunc(rots, func(a, b dunbrack.Rotamer) int {
		return cmp.Compare(b.Prob, a.Prob)
	})
	if top > 0 && top < len(rots) {
		rots = rots[:top]
	}

	headers := []string{"#", "bins", "prob", ""}
	for c := 1; c <= k.NChi(); c++ {
		headers = append(headers, fmt.Sprintf("χ%d", c))
	}

	rows := make([][]string, len(rots))
	for i, r := range rots {
		row := []string{
			fmt.Sprint(i + 1),
			binString(r),
			fmt.Sprintf("%.4f", r.Prob),
			ProbBar(float64(r.Prob), barWidth),
		}
		for c := 0; c < int(r.NChi); c++ {
			mean, sigma := r.Chi(c)
			row = append(row, fmt.Sprintf("%7.1f ± %4.1f", mean, sigma))
		}
		rows[i] = row
	}

	header := titleStyle().Render(fmt.Sprintf("%s (%s)  φ=%.1f ψ=%.1f", k, k.Name(), phi, psi))
	cellStyle := lipgloss.NewStyle().Padding(0, 1).Foreground(CurrentTheme.Text)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(CurrentTheme.Border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true).Foreground(CurrentTheme.Title)
			}
			return cellStyle
		})

	summary := mutedStyle().Render(fmt.Sprintf("%d of %d rotamers, Σp=%.4f", len(rots), len(set), sum))
	return header + "\n" + t.Render() + "\n" + summary
}

func binString(r dunbrack.Rotamer) string {
	parts := make([]string, r.NChi)
	for i := range parts {
		parts[i] = fmt.Sprint(r.Bins[i])
	}
	return strings.Join(parts, " ")
}
