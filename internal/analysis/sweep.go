package analysis

import (
	"math"

	"github.com/san-kum/dunbrack"
)

// Point is one query of a sweep.
type Point struct {
	Phi, Psi float64
	Rotamers dunbrack.Rotamers
}

// Steps returns the angles from, from+step, ... up to and including to.
func Steps(from, to, step float64) []float64 {
	if step <= 0 || to < from {
		return nil
	}
	n := int(math.Floor((to-from)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)*step
	}
	return out
}

// Sweep queries k at every φ in Steps(from, to, step) with ψ fixed.
func Sweep(src Source, k dunbrack.Kind, psi, from, to, step float64) []Point {
	phis := Steps(from, to, step)
	out := make([]Point, len(phis))
	for i, phi := range phis {
		out[i] = Point{Phi: phi, Psi: psi, Rotamers: src.Rotamers(k, phi, psi)}
	}
	return out
}

// Profile returns the probability of rotamer rot at every point.
func Profile(points []Point, rot int) []float64 {
	out := make([]float64, len(points))
	for i := range points {
		out[i] = float64(points[i].Rotamers.At(rot).Prob)
	}
	return out
}

// EntropyProfile returns the entropy at every point.
func EntropyProfile(points []Point) []float64 {
	out := make([]float64, len(points))
	for i := range points {
		out[i] = Entropy(points[i].Rotamers)
	}
	return out
}
