package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/dunbrack"
)

// HarmonicSamples is the number of φ samples per period used by Harmonics.
const HarmonicSamples = 36

// Harmonics returns the amplitudes of harmonics 0..n of rotamer rot's
// probability as a function of φ at fixed ψ. Amplitude 0 is the mean over
// φ; amplitude m is the size of the cos(mφ+δ) component.
func Harmonics(src Source, k dunbrack.Kind, psi float64, rot, n int) []float64 {
	samples := make([]float64, HarmonicSamples)
	step := 360.0 / HarmonicSamples
	for i := range samples {
		set := src.Rotamers(k, -180+float64(i)*step, psi)
		samples[i] = float64(set.At(rot).Prob)
	}

	spectrum := fft.FFTReal(samples)
	n = min(n, HarmonicSamples/2)
	out := make([]float64, n+1)
	for m := range out {
		a := cmplx.Abs(spectrum[m]) / HarmonicSamples
		if m > 0 && m < HarmonicSamples/2 {
			a *= 2
		}
		out[m] = a
	}
	return out
}
