// Package export writes sweeps and landscapes as image files.
package export

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/dunbrack"
	"github.com/san-kum/dunbrack/internal/analysis"
)

// ErrFormat reports an image format gonum/plot cannot write.
var ErrFormat = errors.New("export: unsupported image format")

const (
	width  = 8 * vg.Inch
	height = 5 * vg.Inch
)

var formats = map[string]bool{"png": true, "svg": true, "pdf": true, "eps": true, "jpg": true, "jpeg": true, "tif": true, "tiff": true}

// SweepPlot draws the probability of each rotamer index in rots against φ.
func SweepPlot(k dunbrack.Kind, points []analysis.Point, rots []int) (*plot.Plot, error) {
	if len(points) == 0 {
		return nil, errors.New("export: empty sweep")
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s rotamer probabilities at ψ=%.1f", k, points[0].Psi)
	p.X.Label.Text = "φ (degrees)"
	p.Y.Label.Text = "P(r | φ, ψ)"
	p.Y.Min = 0
	p.Add(plotter.NewGrid())

	n := points[0].Rotamers.Len()
	for i, rot := range rots {
		if rot < 0 || rot >= n {
			return nil, fmt.Errorf("export: rotamer index %d out of range [0, %d)", rot, n)
		}
		pts := make(plotter.XYs, len(points))
		for j := range points {
			pts[j] = plotter.XY{X: points[j].Phi, Y: float64(points[j].Rotamers.At(rot).Prob)}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("export: line for rotamer %d: %w", rot, err)
		}
		line.Width = vg.Points(1.5)
		line.Color = plotutil.Color(i)
		p.Add(line)

		r := points[0].Rotamers.At(rot)
		p.Legend.Add(fmt.Sprintf("r=%v", r.BinSlice()), line)
	}
	p.Legend.Top = true
	return p, nil
}

// landscapeXYZ adapts a landscape to plotter.GridXYZ, columns along φ.
type landscapeXYZ struct{ g *analysis.LandscapeGrid }

func (l landscapeXYZ) Dims() (c, r int)   { return len(l.g.Phi), len(l.g.Psi) }
func (l landscapeXYZ) Z(c, r int) float64 { return float64(l.g.P.Mat[c][r]) }
func (l landscapeXYZ) X(c int) float64    { return l.g.Phi[c] }
func (l landscapeXYZ) Y(r int) float64    { return l.g.Psi[r] }

// LandscapePlot draws one rotamer's probability over the φ/ψ plane as a
// heat map.
func LandscapePlot(g *analysis.LandscapeGrid) (*plot.Plot, error) {
	if g == nil || len(g.Phi) < 2 || len(g.Psi) < 2 {
		return nil, errors.New("export: landscape needs at least 2x2 points")
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s rotamer %d", g.Kind, g.Rotamer)
	p.X.Label.Text = "φ (degrees)"
	p.Y.Label.Text = "ψ (degrees)"
	p.Add(plotter.NewHeatMap(landscapeXYZ{g}, palette.Heat(16, 1)))
	return p, nil
}

// Save writes p to path in the format named by its extension.
func Save(p *plot.Plot, path string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !formats[ext] {
		return fmt.Errorf("%w: %q", ErrFormat, filepath.Ext(path))
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("export: save %s: %w", path, err)
	}
	return nil
}

// Write renders p to w in format, e.g. "svg" or "png".
func Write(p *plot.Plot, w io.Writer, format string) error {
	format = strings.ToLower(format)
	if !formats[format] {
		return fmt.Errorf("%w: %q", ErrFormat, format)
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
