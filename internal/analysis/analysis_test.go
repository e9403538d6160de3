package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/dunbrack"
	"github.com/san-kum/dunbrack/internal/rotamer"
	"github.com/san-kum/dunbrack/internal/testlib"
)

// twoState is a source with two rotamers, the first with probability p.
type twoState func(phi, psi float64) float64

func (f twoState) Rotamers(_ dunbrack.Kind, phi, psi float64) dunbrack.Rotamers {
	p := float32(f(phi, psi))
	return rotamer.NewSet([]rotamer.Rotamer{
		{Bins: [4]uint8{1}, NChi: 1, Prob: p, ChiMean: [4]float32{60}, ChiSigma: [4]float32{10}},
		{Bins: [4]uint8{2}, NChi: 1, Prob: 1 - p, ChiMean: [4]float32{180}, ChiSigma: [4]float32{10}},
	})
}

func set(probs []float32, means []float32) dunbrack.Rotamers {
	rs := make([]rotamer.Rotamer, len(probs))
	for i := range rs {
		rs[i] = rotamer.Rotamer{Bins: [4]uint8{uint8(i + 1)}, NChi: 1, Prob: probs[i], ChiMean: [4]float32{means[i]}, ChiSigma: [4]float32{9}}
	}
	return rotamer.NewSet(rs)
}

func TestEntropy(t *testing.T) {
	tests := []struct {
		name       string
		probs      []float32
		entropy    float64
		perplexity float64
	}{
		{"uniform3", []float32{1. / 3, 1. / 3, 1. / 3}, math.Log(3), 3},
		{"uniform4", []float32{0.25, 0.25, 0.25, 0.25}, math.Log(4), 4},
		{"certain", []float32{0, 1, 0}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := set(tt.probs, make([]float32, len(tt.probs)))
			if got := Entropy(s); math.Abs(got-tt.entropy) > 1e-6 {
				t.Errorf("entropy %v, want %v", got, tt.entropy)
			}
			if got := Perplexity(s); math.Abs(got-tt.perplexity) > 1e-5 {
				t.Errorf("perplexity %v, want %v", got, tt.perplexity)
			}
		})
	}
}

func TestChiExpectation(t *testing.T) {
	tests := []struct {
		name   string
		probs  []float32
		means  []float32
		want   float64
		spread float64
	}{
		{"across 180", []float32{0.5, 0.5}, []float32{170, -170}, 180, 1 - math.Cos(10*degToRad)},
		{"single", []float32{1, 0}, []float32{-75, 60}, -75, 0},
		{"agree", []float32{0.3, 0.7}, []float32{42, 42}, 42, 0},
		{"weighted", []float32{0.75, 0.25}, []float32{0, 90}, math.Atan2(0.25, 0.75) * radToDeg, 1 - math.Hypot(0.25, 0.75)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := set(tt.probs, tt.means)
			got := ChiExpectation(s)
			if len(got) != 1 {
				t.Fatalf("got %d angles, want 1", len(got))
			}
			d := math.Abs(math.Remainder(got[0]-tt.want, 360))
			if d > 1e-3 {
				t.Errorf("mean %v, want %v", got[0], tt.want)
			}
			if sp := ChiSpread(s)[0]; math.Abs(sp-tt.spread) > 1e-6 {
				t.Errorf("spread %v, want %v", sp, tt.spread)
			}
		})
	}
	if ChiExpectation(dunbrack.Rotamers{}) != nil || ChiSpread(dunbrack.Rotamers{}) != nil {
		t.Error("expected nil for an empty set")
	}
}

func TestSteps(t *testing.T) {
	if got := Steps(-180, 180, 10); len(got) != 37 || got[0] != -180 || got[36] != 180 {
		t.Errorf("unexpected grid axis %v", got)
	}
	got := Steps(0, 1, 0.1)
	if len(got) != 11 || math.Abs(got[10]-1) > 1e-12 {
		t.Errorf("unexpected steps %v", got)
	}
	if Steps(0, 1, 0) != nil || Steps(1, 0, 0.5) != nil {
		t.Error("expected nil for an empty range")
	}
}

func TestSweep(t *testing.T) {
	lib := testlib.Library()
	points := Sweep(lib, dunbrack.Leu, -40, -180, 180, 15)
	if len(points) != 25 {
		t.Fatalf("expected 25 points, got %d", len(points))
	}
	prof := Profile(points, 2)
	ent := EntropyProfile(points)
	for i, p := range points {
		want := lib.Rotamers(dunbrack.Leu, p.Phi, -40)
		if p.Psi != -40 || p.Rotamers != want {
			t.Fatalf("point %d differs from a direct query", i)
		}
		if prof[i] != float64(want.At(2).Prob) {
			t.Errorf("profile %d: %v", i, prof[i])
		}
		if ent[i] <= 0 || ent[i] > math.Log(9) {
			t.Errorf("entropy %d out of range: %v", i, ent[i])
		}
	}
}

func TestHarmonics(t *testing.T) {
	src := twoState(func(phi, _ float64) float64 {
		return 0.5 + 0.25*math.Cos(phi*degToRad) + 0.1*math.Sin(3*phi*degToRad)
	})
	got := Harmonics(src, dunbrack.Val, 0, 0, 4)
	want := []float64{0.5, 0.25, 0, 0.1, 0}
	if len(got) != len(want) {
		t.Fatalf("got %d harmonics, want %d", len(got), len(want))
	}
	for m := range want {
		if math.Abs(got[m]-want[m]) > 1e-6 {
			t.Errorf("harmonic %d: %v, want %v", m, got[m], want[m])
		}
	}
	if n := len(Harmonics(src, dunbrack.Val, 0, 0, 100)); n != HarmonicSamples/2+1 {
		t.Errorf("expected harmonics capped at %d, got %d", HarmonicSamples/2+1, n)
	}
}

func peak(phi0, psi0 float64) twoState {
	return func(phi, psi float64) float64 {
		d := (phi-phi0)*(phi-phi0) + (psi-psi0)*(psi-psi0)
		return 0.05 + 0.9*math.Exp(-d/2000)
	}
}

func TestLandscape(t *testing.T) {
	g := Landscape(peak(-60, 140), dunbrack.Val, 0, 10)
	if r, c := len(g.P.Mat), len(g.P.Mat[0]); r != 37 || c != 37 {
		t.Fatalf("expected 37x37, got %dx%d", r, c)
	}
	phi, psi, p := g.Max()
	if phi != -60 || psi != 140 || math.Abs(float64(p)-0.95) > 1e-6 {
		t.Errorf("max at (%g, %g) = %v", phi, psi, p)
	}
	if m := g.Mean(); m <= 0.05 || m >= 0.95 {
		t.Errorf("mean %v out of range", m)
	}

	art := LandscapeToASCII(g)
	lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n")
	if len(lines) != 37 {
		t.Fatalf("expected 37 lines, got %d", len(lines))
	}
	// ψ=140 is row 4 from the top, φ=-60 is column 12.
	if lines[4][12] != '@' {
		t.Errorf("expected peak at row 4 col 12:\n%s", art)
	}
	if LandscapeToASCII(nil) != "" {
		t.Error("expected empty drawing for nil grid")
	}
}

func TestOptimum(t *testing.T) {
	opt, err := Optimum(context.Background(), peak(-63.4, 141.7), dunbrack.Val, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(opt.Phi+63.4) > 0.5 || math.Abs(opt.Psi-141.7) > 0.5 {
		t.Errorf("optimum at (%g, %g)", opt.Phi, opt.Psi)
	}
	if opt.Prob < 0.949 {
		t.Errorf("optimum probability %v", opt.Prob)
	}
}

func TestOptimumLibrary(t *testing.T) {
	lib := testlib.Library()
	opt, err := Optimum(context.Background(), lib, dunbrack.Val, 1, 20)
	if err != nil {
		t.Fatal(err)
	}
	_, _, p := Landscape(lib, dunbrack.Val, 1, 20).Max()
	if opt.Prob < float64(p) {
		t.Errorf("refined optimum %v below coarse maximum %v", opt.Prob, p)
	}
}

func TestOptimumCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Optimum(ctx, peak(0, 0), dunbrack.Val, 0, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func BenchmarkLandscape(b *testing.B) {
	lib := testlib.Library()
	for b.Loop() {
		Landscape(lib, dunbrack.Arg, 0, 10)
	}
}
