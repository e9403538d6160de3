// Package grid maps backbone dihedral angles onto the 10° φ/ψ grid of the
// rotamer library.
package grid

const (
	// Min is the first grid angle in degrees.
	Min = -180.0
	// Max is the last grid angle in degrees. It carries the same data as Min.
	Max = 180.0
	// Step is the spacing between grid points in degrees.
	Step = 10.0
	// Count is the number of grid points along each axis.
	Count = 37
)

// Angle returns the angle in degrees of grid index i.
func Angle(i int) float64 {
	return Min + float64(i)*Step
}

// Index returns the grid index of an angle that lies exactly on the grid,
// and false otherwise.
func Index(deg float64) (int, bool) {
	shifted := (deg - Min) / Step
	i := int(shifted)
	if float64(i) != shifted || i < 0 || i >= Count {
		return 0, false
	}
	return i, true
}

// AngleToGrid maps deg to the low corner index lo in [0, Count-2] and the
// fraction frac in [0, 1] towards lo+1. The input is clamped to [Min, Max]
// first, so the function is total. NaN is treated as Min.
func AngleToGrid(deg float64) (lo int, frac float64) {
	shifted := (clamp(deg) - Min) * (1.0 / Step)
	// lo+1 must stay a valid index, so 180° lands on (35, 1.0).
	lo = min(int(shifted), Count-2)
	frac = shifted - float64(lo)
	return lo, frac
}

// clamp limits deg to [Min, Max]. The builtin min and max propagate NaN;
// here NaN fails the ordered comparison and yields Min.
func clamp(deg float64) float64 {
	c := Min
	if deg > Min {
		c = deg
	}
	return min(c, Max)
}
