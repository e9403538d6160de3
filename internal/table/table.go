// Package table holds the immutable per-residue probability grid.
//
// A Table is built once at load time and only read afterwards, so any
// number of goroutines may query it without synchronisation. New checks the
// invariants the interpolation engine relies on; once a Table exists they
// are trusted.
package table

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/dunbrack/internal/grid"
	"github.com/san-kum/dunbrack/internal/rotamer"
)

// ErrMalformed is wrapped by every validation failure.
var ErrMalformed = errors.New("table: malformed residue data")

// CellError describes the first invariant violation found in a table.
type CellError struct {
	Phi, Psi int // grid indices
	Rotamer  int // -1 when the whole cell is at fault
	Reason   string
}

func (e *CellError) Error() string {
	at := fmt.Sprintf("cell (φ=%g, ψ=%g)", grid.Angle(e.Phi), grid.Angle(e.Psi))
	if e.Rotamer >= 0 {
		at += fmt.Sprintf(" rotamer %d", e.Rotamer)
	}
	return fmt.Sprintf("%s: %s: %s", ErrMalformed, at, e.Reason)
}

func (e *CellError) Unwrap() error {
	return ErrMalformed
}

// Table is a Count×Count grid of cells, each holding NRotamers rotamers
// sorted identically by bins.
type Table struct {
	nChi  int
	nRot  int
	cells []rotamer.Rotamer
}

// CellCount is the number of grid cells of every table.
const CellCount = grid.Count * grid.Count

// New validates cells and wraps them in a Table. cells is laid out
// row-major as [φ index][ψ index][rotamer] and is owned by the Table
// afterwards.
func New(nChi, nRot int, cells []rotamer.Rotamer) (*Table, error) {
	if nChi < 1 || nChi > rotamer.MaxChi {
		return nil, fmt.Errorf("%w: %d chi angles", ErrMalformed, nChi)
	}
	if nRot < 1 || nRot > rotamer.MaxRotamers {
		return nil, fmt.Errorf("%w: %d rotamers per cell", ErrMalformed, nRot)
	}
	if len(cells) != CellCount*nRot {
		return nil, fmt.Errorf("%w: %d rotamers, want %d", ErrMalformed, len(cells), CellCount*nRot)
	}

	t := &Table{nChi: nChi, nRot: nRot, cells: cells}
	ref := t.Cell(0, 0)
	for k := 1; k < nRot; k++ {
		if rotamer.Compare(ref[k-1], ref[k]) >= 0 {
			return nil, &CellError{Rotamer: k, Reason: "bins not strictly increasing"}
		}
	}

	for i := 0; i < grid.Count; i++ {
		for j := 0; j < grid.Count; j++ {
			if err := t.checkCell(i, j, ref); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

func (t *Table) checkCell(i, j int, ref []rotamer.Rotamer) error {
	sum := 0.0
	for k, r := range t.Cell(i, j) {
		fail := func(reason string, args ...any) error {
			return &CellError{Phi: i, Psi: j, Rotamer: k, Reason: fmt.Sprintf(reason, args...)}
		}
		if int(r.NChi) != t.nChi {
			return fail("%d chi angles, want %d", r.NChi, t.nChi)
		}
		if r.Bins != ref[k].Bins {
			return fail("bins %v differ from %v in the first cell", r.BinSlice(), ref[k].BinSlice())
		}
		p := float64(r.Prob)
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fail("probability %v", r.Prob)
		}
		sum += p
		for c := 0; c < rotamer.MaxChi; c++ {
			if c >= t.nChi {
				if r.Bins[c] != 0 || r.ChiMean[c] != 0 || r.ChiSigma[c] != 0 {
					return fail("data beyond chi %d", t.nChi)
				}
				continue
			}
			if r.Bins[c] < 1 {
				return fail("bin %d of chi%d is not 1-based", r.Bins[c], c+1)
			}
			if m := float64(r.ChiMean[c]); math.IsNaN(m) || m <= -180 || m > 180 {
				return fail("chi%d mean %v", c+1, r.ChiMean[c])
			}
			if s := float64(r.ChiSigma[c]); !(s > 0) || math.IsInf(s, 0) {
				return fail("chi%d sigma %v", c+1, r.ChiSigma[c])
			}
		}
	}
	if !(sum > 0) {
		return &CellError{Phi: i, Psi: j, Rotamer: -1, Reason: fmt.Sprintf("probability sum %v", sum)}
	}
	return nil
}

// NChi returns the number of χ angles.
func (t *Table) NChi() int { return t.nChi }

// NRotamers returns the number of rotamers per cell.
func (t *Table) NRotamers() int { return t.nRot }

// Cell returns the rotamers at grid indices (i, j). The slice aliases the
// table and must not be modified.
func (t *Table) Cell(i, j int) []rotamer.Rotamer {
	off := (i*grid.Count + j) * t.nRot
	return t.cells[off : off+t.nRot : off+t.nRot]
}

// Each calls fn for every cell in row-major order.
func (t *Table) Each(fn func(i, j int, cell []rotamer.Rotamer)) {
	for i := 0; i < grid.Count; i++ {
		for j := 0; j < grid.Count; j++ {
			fn(i, j, t.Cell(i, j))
		}
	}
}
