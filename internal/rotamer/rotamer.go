// Package rotamer defines the rotamer record shared by the library tables,
// the interpolation engine and callers.
package rotamer

import (
	"fmt"
	"strings"
)

const (
	// MaxChi is the largest number of χ angles of any residue kind.
	MaxChi = 4
	// MaxRotamers is the largest rotamer count of any residue kind (GLN).
	MaxRotamers = 108
)

// Rotamer is one discrete side-chain conformation of a residue with NChi χ
// angles. Only the first NChi entries of Bins, ChiMean and ChiSigma carry
// data; the rest are zero.
type Rotamer struct {
	// Bins are the 1-based rotamer bin indices, one per χ angle.
	Bins [MaxChi]uint8
	NChi uint8
	// Prob is P(bins | φ, ψ).
	Prob float32
	// ChiMean are the mean χ angles in degrees, in (-180, 180].
	ChiMean [MaxChi]float32
	// ChiSigma are the χ standard deviations in degrees, always > 0.
	ChiSigma [MaxChi]float32
}

// Chi returns the mean and standard deviation of χ angle i.
func (r Rotamer) Chi(i int) (mean, sigma float32) {
	return r.ChiMean[i], r.ChiSigma[i]
}

// BinSlice returns the first NChi bins.
func (r Rotamer) BinSlice() []uint8 {
	b := r.Bins
	return b[:r.NChi]
}

// Key packs the bins into one integer whose order is the lexicographic order
// of Bins.
func (r Rotamer) Key() uint32 {
	return uint32(r.Bins[0])<<24 | uint32(r.Bins[1])<<16 | uint32(r.Bins[2])<<8 | uint32(r.Bins[3])
}

// Compare orders rotamers by their bins.
func Compare(a, b Rotamer) int {
	ka, kb := a.Key(), b.Key()
	switch {
	case ka < kb:
		return -1
	case ka > kb:
		return 1
	}
	return 0
}

func (r Rotamer) String() string {
	var sb strings.Builder
	sb.WriteString("r=[")
	for i := 0; i < int(r.NChi); i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%d", r.Bins[i])
	}
	fmt.Fprintf(&sb, "] p=%.6f chi=[", r.Prob)
	for i := 0; i < int(r.NChi); i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.1f±%.1f", r.ChiMean[i], r.ChiSigma[i])
	}
	sb.WriteByte(']')
	return sb.String()
}
