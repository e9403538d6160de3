package library

import (
	"fmt"
	"slices"
	"strings"

	"github.com/san-kum/dunbrack/internal/grid"
	"github.com/san-kum/dunbrack/internal/rotamer"
	"github.com/san-kum/dunbrack/internal/table"
)

// Spec describes one residue table to build.
type Spec struct {
	Residue string
	NChi    int
	NRot    int
}

// Builder groups rows into residue tables.
type Builder struct {
	specs []Spec
	index map[string]int
	cells [][][]rotamer.Rotamer // [spec][cell][rotamer]
	rows  int
}

// NewBuilder returns a Builder expecting exactly the residues in specs.
func NewBuilder(specs []Spec) *Builder {
	b := &Builder{
		specs: specs,
		index: make(map[string]int, len(specs)),
		cells: make([][][]rotamer.Rotamer, len(specs)),
	}
	for i, s := range specs {
		b.index[strings.ToUpper(s.Residue)] = i
		b.cells[i] = make([][]rotamer.Rotamer, table.CellCount)
	}
	return b
}

// Rows returns the number of rows added so far.
func (b *Builder) Rows() int {
	return b.rows
}

// Add files one row under its residue and grid cell.
func (b *Builder) Add(r Row) error {
	si, ok := b.index[r.Residue]
	if !ok {
		return &LoadError{Line: r.Line, Residue: r.Residue, Err: ErrUnknownResidue}
	}
	s := b.specs[si]
	fail := func(err error) error {
		return &LoadError{Line: r.Line, Residue: s.Residue, Err: err}
	}

	i, ok := grid.Index(r.Phi)
	if !ok {
		return fail(fmt.Errorf("%w: φ=%g is not a grid angle", ErrBadRow, r.Phi))
	}
	j, ok := grid.Index(r.Psi)
	if !ok {
		return fail(fmt.Errorf("%w: ψ=%g is not a grid angle", ErrBadRow, r.Psi))
	}
	for c := 0; c < rotamer.MaxChi; c++ {
		if c < s.NChi && r.Bins[c] == 0 {
			return fail(fmt.Errorf("%w: r%d is zero", ErrBadRow, c+1))
		}
		if c >= s.NChi && r.Bins[c] != 0 {
			return fail(fmt.Errorf("%w: r%d=%d but %s has %d chi angles", ErrBadRow, c+1, r.Bins[c], s.Residue, s.NChi))
		}
	}

	cell := &b.cells[si][i*grid.Count+j]
	if len(*cell) == s.NRot {
		return fail(fmt.Errorf("%w: cell (φ=%g, ψ=%g) already holds %d rotamers", ErrDuplicate, r.Phi, r.Psi, s.NRot))
	}
	if *cell == nil {
		*cell = make([]rotamer.Rotamer, 0, s.NRot)
	}
	*cell = append(*cell, r.Rotamer(s.NChi))
	b.rows++
	return nil
}

// Build sorts every cell by bins and validates the result. Tables are
// returned in the order of the specs given to NewBuilder.
func (b *Builder) Build() ([]*table.Table, error) {
	out := make([]*table.Table, len(b.specs))
	for si, s := range b.specs {
		flat := make([]rotamer.Rotamer, 0, table.CellCount*s.NRot)
		for c, cell := range b.cells[si] {
			phi, psi := grid.Angle(c/grid.Count), grid.Angle(c%grid.Count)
			if len(cell) != s.NRot {
				return nil, &LoadError{Residue: s.Residue, Err: fmt.Errorf("%w: cell (φ=%g, ψ=%g) has %d of %d rotamers",
					ErrCoverage, phi, psi, len(cell), s.NRot)}
			}
			slices.SortFunc(cell, rotamer.Compare)
			for k := 1; k < len(cell); k++ {
				if rotamer.Compare(cell[k-1], cell[k]) == 0 {
					return nil, &LoadError{Residue: s.Residue, Err: fmt.Errorf("%w: cell (φ=%g, ψ=%g) bins %v",
						ErrDuplicate, phi, psi, cell[k].BinSlice())}
				}
			}
			flat = append(flat, cell...)
		}
		t, err := table.New(s.NChi, s.NRot, flat)
		if err != nil {
			return nil, &LoadError{Residue: s.Residue, Err: err}
		}
		out[si] = t
		b.cells[si] = nil
	}
	return out, nil
}
