package trig

const (
	pi        = 3.14159265358979323846264338327950288
	halfPi    = pi / 2
	quarterPi = pi / 4
	twoOverPi = 2 / pi

	// halfPi split for Cody-Waite reduction; halfPiHi has trailing zero bits.
	halfPiHi = 1.57079632673412561417e+00
	halfPiLo = 6.07710050650619224932e-11

	// tan(π/8)
	tanPi8 = 0.41421356237309504880
)

// Poly evaluates truncated Taylor polynomials after range reduction.
type Poly struct{}

func (Poly) Name() string { return "poly" }

func (Poly) Sin(x float64) float64 {
	q, r := reduce(x)
	switch q {
	case 0:
		return sinKernel(r)
	case 1:
		return cosKernel(r)
	case 2:
		return -sinKernel(r)
	default:
		return -cosKernel(r)
	}
}

func (Poly) Cos(x float64) float64 {
	q, r := reduce(x)
	switch q {
	case 0:
		return cosKernel(r)
	case 1:
		return -sinKernel(r)
	case 2:
		return -cosKernel(r)
	default:
		return sinKernel(r)
	}
}

// Atan2 reduces (x, y) to t = min/max in [0, 1], folds t above tan(π/8)
// with atan(t) = π/4 + atan((t-1)/(t+1)), evaluates the degree-7 odd
// polynomial, then undoes the octant folding. The truncation error is
// bounded by tan(π/8)^9/9 < 4e-5.
func (Poly) Atan2(y, x float64) float64 {
	ax, ay := abs(x), abs(y)
	swapped := ay > ax
	lo, hi := ay, ax
	if swapped {
		lo, hi = ax, ay
	}
	if hi == 0 {
		return 0
	}

	s := lo / hi
	offset := 0.0
	if s > tanPi8 {
		s = (s - 1) / (s + 1)
		offset = quarterPi
	}
	s2 := s * s
	r := offset + s*(1+s2*(-1.0/3+s2*(1.0/5+s2*(-1.0/7))))

	if swapped {
		r = halfPi - r
	}
	if x < 0 {
		r = pi - r
	}
	if y < 0 {
		r = -r
	}
	return r
}

// reduce writes x = k·π/2 + r with |r| <= π/4 and returns k mod 4 and r.
func reduce(x float64) (int, float64) {
	f := x * twoOverPi
	var k int64
	if f >= 0 {
		k = int64(f + 0.5)
	} else {
		k = int64(f - 0.5)
	}
	kf := float64(k)
	r := (x - kf*halfPiHi) - kf*halfPiLo
	return int(k & 3), r
}

func sinKernel(r float64) float64 {
	r2 := r * r
	return r + r*r2*(-1.0/6+r2*(1.0/120+r2*(-1.0/5040+r2*(1.0/362880+r2*(-1.0/39916800)))))
}

func cosKernel(r float64) float64 {
	r2 := r * r
	return 1 + r2*(-1.0/2+r2*(1.0/24+r2*(-1.0/720+r2*(1.0/40320+r2*(-1.0/3628800+r2*(1.0/479001600))))))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
