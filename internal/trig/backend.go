package trig

// Backend is one implementation of the trigonometric primitives.
type Backend interface {
	Name() string
	Sin(x float64) float64
	Cos(x float64) float64
	// Atan2 is undefined for (0, 0).
	Atan2(y, x float64) float64
}

var (
	_ Backend = Platform{}
	_ Backend = Poly{}
)

// Active returns the backend selected for this build.
func Active() Backend {
	return active
}

// Sin returns the sine of x radians using the build's backend.
func Sin(x float64) float64 {
	return active.Sin(x)
}

// Cos returns the cosine of x radians using the build's backend.
func Cos(x float64) float64 {
	return active.Cos(x)
}

// SinCos returns Sin(x) and Cos(x).
func SinCos(x float64) (sin, cos float64) {
	return active.Sin(x), active.Cos(x)
}

// Atan2 returns the angle of (x, y) in (-π, π] using the build's backend.
func Atan2(y, x float64) float64 {
	return active.Atan2(y, x)
}
