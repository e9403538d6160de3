package grid

import (
	"math"
	"testing"
)

func TestAngleToGrid(t *testing.T) {
	tests := []struct {
		name string
		deg  float64
		lo   int
		frac float64
	}{
		{"minus 180", -180, 0, 0},
		{"plus 180", 180, 35, 1},
		{"zero", 0, 18, 0},
		{"midpoint", -175, 0, 0.5},
		{"clamp below", -200, 0, 0},
		{"clamp above", 200, 35, 1},
		{"grid point", -60, 12, 0},
		{"just below max", 179.5, 35, 0.95},
		{"negative infinity", math.Inf(-1), 0, 0},
		{"positive infinity", math.Inf(1), 35, 1},
		{"nan", math.NaN(), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, frac := AngleToGrid(tt.deg)
			if lo != tt.lo {
				t.Errorf("lo = %d, want %d", lo, tt.lo)
			}
			if math.Abs(frac-tt.frac) > 1e-9 {
				t.Errorf("frac = %v, want %v", frac, tt.frac)
			}
		})
	}
}

func TestAngleToGridBounds(t *testing.T) {
	for deg := -250.0; deg <= 250.0; deg += 0.37 {
		lo, frac := AngleToGrid(deg)
		if lo < 0 || lo > Count-2 {
			t.Fatalf("deg %.2f: lo %d out of range", deg, lo)
		}
		if frac < 0 || frac > 1 {
			t.Fatalf("deg %.2f: frac %v out of range", deg, frac)
		}
	}
}

func TestAngleIndexRoundTrip(t *testing.T) {
	for i := 0; i < Count; i++ {
		j, ok := Index(Angle(i))
		if !ok || j != i {
			t.Errorf("Index(Angle(%d)) = %d, %v", i, j, ok)
		}
	}
	if _, ok := Index(-175); ok {
		t.Error("-175 is not a grid angle")
	}
	if _, ok := Index(190); ok {
		t.Error("190 is outside the grid")
	}
}

func BenchmarkAngleToGrid(b *testing.B) {
	var sink int
	for i := 0; i < b.N; i++ {
		lo, _ := AngleToGrid(float64(i%360) - 180.3)
		sink += lo
	}
	_ = sink
}
