package analysis

import (
	"strings"

	"github.com/andrew-torda/matrix"

	"github.com/san-kum/dunbrack"
)

// LandscapeGrid is a rotamer probability sampled over the φ/ψ plane.
// P.Mat[i][j] is the probability at (Phi[i], Psi[j]).
type LandscapeGrid struct {
	Kind    dunbrack.Kind
	Rotamer int
	Phi     []float64
	Psi     []float64
	P       *matrix.FMatrix2d
}

// Landscape samples rotamer rot of k every step degrees over
// [-180, 180]².
func Landscape(src Source, k dunbrack.Kind, rot int, step float64) *LandscapeGrid {
	axis := Steps(-180, 180, step)
	g := &LandscapeGrid{
		Kind:    k,
		Rotamer: rot,
		Phi:     axis,
		Psi:     axis,
		P:       matrix.NewFMatrix2d(len(axis), len(axis)),
	}
	for i, phi := range axis {
		row := g.P.Mat[i]
		for j, psi := range axis {
			set := src.Rotamers(k, phi, psi)
			row[j] = set.At(rot).Prob
		}
	}
	return g
}

// Max returns the largest probability and where it occurs. Ties go to the
// first in row-major order.
func (g *LandscapeGrid) Max() (phi, psi float64, p float32) {
	p = -1
	for i, row := range g.P.Mat {
		for j, v := range row {
			if v > p {
				phi, psi, p = g.Phi[i], g.Psi[j], v
			}
		}
	}
	return phi, psi, p
}

// Mean returns the average probability over the grid.
func (g *LandscapeGrid) Mean() float64 {
	sum, n := 0.0, 0
	for _, row := range g.P.Mat {
		for _, v := range row {
			sum += float64(v)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

const shades = " .:-=+*#%@"

// LandscapeToASCII draws the grid with ψ increasing upwards and φ to the
// right, darker characters for higher probability relative to the maximum.
func LandscapeToASCII(g *LandscapeGrid) string {
	if g == nil || len(g.Phi) == 0 {
		return ""
	}
	_, _, top := g.Max()
	if top <= 0 {
		top = 1
	}
	var sb strings.Builder
	for j := len(g.Psi) - 1; j >= 0; j-- {
		for i := range g.Phi {
			level := int(g.P.Mat[i][j] / top * float32(len(shades)-1))
			level = max(0, min(level, len(shades)-1))
			sb.WriteByte(shades[level])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
