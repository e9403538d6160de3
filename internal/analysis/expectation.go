package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/dunbrack"
)

const (
	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// ChiExpectation returns, for each χ angle, the circular mean of the
// rotamer means weighted by rotamer probability, in degrees.
func ChiExpectation(set dunbrack.Rotamers) []float64 {
	if set.Len() == 0 {
		return nil
	}
	nChi := int(set.At(0).NChi)
	out := make([]float64, nChi)
	angles := make([]float64, set.Len())
	weights := Probs(set)
	for c := range out {
		for i, r := range set.All() {
			angles[i] = float64(r.ChiMean[c]) * degToRad
		}
		out[c] = stat.CircularMean(angles, weights) * radToDeg
	}
	return out
}

// ChiSpread returns, for each χ angle, the circular variance 1-R of the
// rotamer means weighted by probability. It is 0 when every rotamer agrees
// and approaches 1 when the means scatter around the circle.
func ChiSpread(set dunbrack.Rotamers) []float64 {
	if set.Len() == 0 {
		return nil
	}
	nChi := int(set.At(0).NChi)
	out := make([]float64, nChi)
	for c := range out {
		var s, co, w float64
		for _, r := range set.All() {
			sn, cs := math.Sincos(float64(r.ChiMean[c]) * degToRad)
			p := float64(r.Prob)
			s += p * sn
			co += p * cs
			w += p
		}
		if w > 0 {
			out[c] = 1 - math.Hypot(s, co)/w
		}
	}
	return out
}
