// Package testutil builds synthetic rotamer tables for tests that cannot
// rely on the real library being present.
package testutil

import (
	"math"

	"github.com/san-kum/dunbrack/internal/grid"
	"github.com/san-kum/dunbrack/internal/rotamer"
	"github.com/san-kum/dunbrack/internal/table"
)

// Cells returns row-major cells of a smooth, periodic synthetic table.
// Every cell is normalised and sorted by bins. The χ1 mean of rotamer 0
// drifts across ±180° along φ, so the table exercises the circular mean.
func Cells(nChi, nRot int) []rotamer.Rotamer {
	cells := make([]rotamer.Rotamer, table.CellCount*nRot)
	bins := Bins(nChi, nRot)
	for i := 0; i < grid.Count; i++ {
		for j := 0; j < grid.Count; j++ {
			// indices 0 and Count-1 describe the same angle
			pi, pj := i%(grid.Count-1), j%(grid.Count-1)
			phi := grid.Angle(pi) * math.Pi / 180
			psi := grid.Angle(pj) * math.Pi / 180
			cell := cells[(i*grid.Count+j)*nRot : (i*grid.Count+j+1)*nRot]

			var sum float64
			raw := make([]float64, nRot)
			for k := range raw {
				raw[k] = 1.2 + math.Sin(phi+float64(k))*math.Cos(psi-0.5*float64(k))
				sum += raw[k]
			}
			for k := range cell {
				r := rotamer.Rotamer{Bins: bins[k], NChi: uint8(nChi), Prob: float32(raw[k] / sum)}
				for c := 0; c < nChi; c++ {
					mean := -60 + 120*float64(bins[k][c]-1) + 8*math.Sin(psi+float64(c))
					if k == 0 && c == 0 {
						mean = 150 + 5*float64(pi)
					}
					r.ChiMean[c] = float32(Wrap(mean))
					r.ChiSigma[c] = float32(6 + float64(k%5) + 2*math.Cos(phi))
				}
				cell[k] = r
			}
		}
	}
	return cells
}

// Table is Cells wrapped in a validated table.
func Table(nChi, nRot int) *table.Table {
	t, err := table.New(nChi, nRot, Cells(nChi, nRot))
	if err != nil {
		panic(err)
	}
	return t
}

// Bins returns the first nRot bin combinations of nChi angles with six
// bins each, in lexicographic order.
func Bins(nChi, nRot int) [][rotamer.MaxChi]uint8 {
	out := make([][rotamer.MaxChi]uint8, 0, nRot)
	var cur [rotamer.MaxChi]uint8
	for c := 0; c < nChi; c++ {
		cur[c] = 1
	}
	for len(out) < nRot {
		out = append(out, cur)
		if len(out) == nRot {
			break
		}
		for c := nChi - 1; c >= 0; c-- {
			cur[c]++
			if cur[c] <= 6 {
				break
			}
			cur[c] = 1
			if c == 0 {
				panic("testutil: too many rotamers for chi count")
			}
		}
	}
	return out
}

// Wrap maps an angle in degrees into (-180, 180].
func Wrap(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg <= -180 {
		deg += 360
	} else if deg > 180 {
		deg -= 360
	}
	return deg
}

// AngleDiff is the short-arc distance between two angles in degrees.
func AngleDiff(a, b float64) float64 {
	return math.Abs(Wrap(a - b))
}
