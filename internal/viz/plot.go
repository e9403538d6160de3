package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dunbrack"
	"github.com/san-kum/dunbrack/internal/analysis"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Green, asciigraph.Yellow, asciigraph.Cyan,
	asciigraph.Magenta, asciigraph.Red, asciigraph.Blue,
}

// PlotOptions sizes a terminal plot.
type PlotOptions struct {
	Width  int
	Height int
}

// PlotProfiles draws the probability of each rotamer index in rots along a
// sweep. Indices outside the result are skipped.
func PlotProfiles(k dunbrack.Kind, points []analysis.Point, rots []int, opts PlotOptions) string {
	if len(points) == 0 {
		return ""
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Height <= 0 {
		opts.Height = 10
	}

	var (
		series  [][]float64
		legends []string
		colors  []asciigraph.AnsiColor
	)
	n := points[0].Rotamers.Len()
	for _, rot := range rots {
		if rot < 0 || rot >= n {
			continue
		}
		r := points[0].Rotamers.At(rot)
		series = append(series, analysis.Profile(points, rot))
		legends = append(legends, "r="+binString(r))
		colors = append(colors, seriesColors[len(colors)%len(seriesColors)])
	}
	if len(series) == 0 {
		return ""
	}

	caption := fmt.Sprintf("%s  P vs φ  [%.0f, %.0f]  ψ=%.1f",
		k, points[0].Phi, points[len(points)-1].Phi, points[0].Psi)
	return asciigraph.PlotMany(series,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.LowerBound(0),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption(caption))
}

// PlotSeries draws one series, such as the entropy along a sweep.
func PlotSeries(values []float64, caption string, opts PlotOptions) string {
	if len(values) == 0 {
		return ""
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Height <= 0 {
		opts.Height = 10
	}
	return asciigraph.Plot(values,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption))
}
