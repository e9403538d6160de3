// Package interp evaluates a residue table at an arbitrary (φ, ψ) by
// bilinear interpolation of the four surrounding grid cells.
//
// Probabilities and χ standard deviations are combined linearly. χ means
// are combined as a weighted circular mean so that angles on either side
// of ±180° average along the short arc. The result is renormalised to sum
// to one and fully materialised before it is returned.
package interp

import (
	"github.com/san-kum/dunbrack/internal/grid"
	"github.com/san-kum/dunbrack/internal/rotamer"
	"github.com/san-kum/dunbrack/internal/table"
	"github.com/san-kum/dunbrack/internal/trig"
)

const (
	degToRad = 3.14159265358979323846264338327950288 / 180
	radToDeg = 180 / 3.14159265358979323846264338327950288
)

// Weights returns the bilinear weights of the corners (lo,lo), (lo+1,lo),
// (lo,lo+1) and (lo+1,lo+1) for the fractions fPhi and fPsi.
func Weights(fPhi, fPsi float64) [4]float64 {
	return [4]float64{
		(1 - fPhi) * (1 - fPsi),
		fPhi * (1 - fPsi),
		(1 - fPhi) * fPsi,
		fPhi * fPsi,
	}
}

// Interpolate returns the rotamers of t at (phi, psi) in degrees.
func Interpolate(t *table.Table, phi, psi float64) rotamer.Set {
	var s rotamer.Set
	Into(&s, t, phi, psi)
	return s
}

// Into is Interpolate writing into dst, for callers that reuse a buffer.
func Into(dst *rotamer.Set, t *table.Table, phi, psi float64) {
	loPhi, fPhi := grid.AngleToGrid(phi)
	loPsi, fPsi := grid.AngleToGrid(psi)
	w := Weights(fPhi, fPsi)

	corners := [4][]rotamer.Rotamer{
		t.Cell(loPhi, loPsi),
		t.Cell(loPhi+1, loPsi),
		t.Cell(loPhi, loPsi+1),
		t.Cell(loPhi+1, loPsi+1),
	}

	nChi := t.NChi()
	out := dst.Resize(t.NRotamers())
	var probs [rotamer.MaxRotamers]float64
	sum := 0.0
	for k := range out {
		c0, c1, c2, c3 := corners[0][k], corners[1][k], corners[2][k], corners[3][k]
		if debug {
			assertSameBins(k, c0, c1, c2, c3)
		}

		r := rotamer.Rotamer{Bins: c0.Bins, NChi: c0.NChi}
		probs[k] = bilinear(w, c0.Prob, c1.Prob, c2.Prob, c3.Prob)
		sum += probs[k]
		for i := 0; i < nChi; i++ {
			r.ChiMean[i] = float32(circularMean(w, c0.ChiMean[i], c1.ChiMean[i], c2.ChiMean[i], c3.ChiMean[i]))
			r.ChiSigma[i] = float32(bilinear(w, c0.ChiSigma[i], c1.ChiSigma[i], c2.ChiSigma[i], c3.ChiSigma[i]))
		}
		out[k] = r
	}

	if debug {
		assertProbSum(sum)
	}
	inv := 1 / sum
	for k := range out {
		out[k].Prob = float32(probs[k] * inv)
	}
}

func bilinear(w [4]float64, v0, v1, v2, v3 float32) float64 {
	return w[0]*float64(v0) + w[1]*float64(v1) + w[2]*float64(v2) + w[3]*float64(v3)
}

// circularMean returns the weighted circular mean of four angles in
// degrees, in (-180, 180].
func circularMean(w [4]float64, a0, a1, a2, a3 float32) float64 {
	var sinSum, cosSum float64
	for i, a := range [4]float32{a0, a1, a2, a3} {
		s, c := trig.SinCos(float64(a) * degToRad)
		sinSum += w[i] * s
		cosSum += w[i] * c
	}
	m := trig.Atan2(sinSum, cosSum) * radToDeg
	if m <= -180 {
		m += 360
	}
	return m
}
