package dunbrack

import (
	"fmt"
	"io"
	"math"

	"github.com/san-kum/dunbrack/internal/library"
)

// Tolerances used by Verify. Grid point queries reproduce probabilities
// and σ up to float32 rounding; χ means go through the circular mean.
const (
	VerifyProbTol  = 1e-5
	VerifyChiTol   = 0.05
	VerifySigmaTol = 1e-4

	maxMismatches = 20
)

// Mismatch is one source row the library does not reproduce.
type Mismatch struct {
	Line     int
	Kind     Kind
	Phi, Psi float64
	Bins     []uint8
	Reason   string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("line %d: %v φ=%g ψ=%g r=%v: %s", m.Line, m.Kind, m.Phi, m.Psi, m.Bins, m.Reason)
}

// VerifyReport summarises a comparison of a library with its source.
type VerifyReport struct {
	Rows   int
	Failed int
	// Mismatches holds the first failures, at most 20.
	Mismatches []Mismatch
}

// OK reports whether every row matched.
func (r VerifyReport) OK() bool { return r.Failed == 0 }

// Verify re-reads a text source, gzipped or not, and checks that querying
// l at every row's grid point returns that row.
func (l *Library) Verify(r io.Reader, format Format) (VerifyReport, error) {
	var rep VerifyReport
	err := library.Scan(r, format, func(row library.Row) error {
		k, err := ParseKind(row.Residue)
		if err != nil {
			return &LoadError{Line: row.Line, Residue: row.Residue, Err: library.ErrUnknownResidue}
		}
		rep.Rows++
		bins := row.Bins[:k.NChi()]
		if reason := l.check(k, row); reason != "" {
			rep.Failed++
			if len(rep.Mismatches) < maxMismatches {
				rep.Mismatches = append(rep.Mismatches, Mismatch{
					Line: row.Line, Kind: k, Phi: row.Phi, Psi: row.Psi,
					Bins: append([]uint8(nil), bins...), Reason: reason,
				})
			}
		}
		return nil
	})
	return rep, err
}

func (l *Library) check(k Kind, row library.Row) string {
	set := l.Rotamers(k, row.Phi, row.Psi)
	got, ok := set.Find(row.Bins[:k.NChi()]...)
	if !ok {
		return "rotamer missing"
	}
	if d := math.Abs(float64(got.Prob - row.Prob)); d > VerifyProbTol {
		return fmt.Sprintf("p=%v, want %v", got.Prob, row.Prob)
	}
	for c := 0; c < k.NChi(); c++ {
		if d := angleDiff(float64(got.ChiMean[c]), float64(row.ChiMean[c])); d > VerifyChiTol {
			return fmt.Sprintf("χ%d=%v, want %v", c+1, got.ChiMean[c], row.ChiMean[c])
		}
		if d := math.Abs(float64(got.ChiSigma[c] - row.ChiSigma[c])); d > VerifySigmaTol {
			return fmt.Sprintf("σ%d=%v, want %v", c+1, got.ChiSigma[c], row.ChiSigma[c])
		}
	}
	return ""
}

// angleDiff is the short-arc distance between two angles in degrees.
func angleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	return min(d, 360-d)
}
