package dunbrack

import (
	"fmt"
	"io"

	"github.com/san-kum/dunbrack/internal/grid"
	"github.com/san-kum/dunbrack/internal/interp"
	"github.com/san-kum/dunbrack/internal/library"
	"github.com/san-kum/dunbrack/internal/rotamer"
	"github.com/san-kum/dunbrack/internal/table"
)

type (
	// Rotamer is one side-chain conformation with its probability.
	Rotamer = rotamer.Rotamer
	// Rotamers is a query result: exactly Kind.NRotamers entries in bin
	// order, held in a fixed buffer and returned by value.
	Rotamers = rotamer.Set

	// Options controls how a library file is read.
	Options = library.Options
	// Format names a persisted table format.
	Format = library.Format
	// LoadError reports where a library file is malformed.
	LoadError = library.LoadError
)

const (
	MaxChi      = rotamer.MaxChi
	MaxRotamers = rotamer.MaxRotamers

	FormatAuto   = library.Auto
	FormatCSV    = library.CSV
	FormatLib    = library.Lib
	FormatBinary = library.Binary
)

// ErrMalformed is wrapped by every data integrity failure found at load.
var ErrMalformed = table.ErrMalformed

// Library holds one immutable table per residue kind.
type Library struct {
	tables [NumKinds]*table.Table
	source string
}

func specs() []library.Spec {
	out := make([]library.Spec, NumKinds)
	for k, info := range kindInfos {
		out[k] = library.Spec{Residue: info.tag, NChi: info.nChi, NRot: info.nRot}
	}
	return out
}

func newLibrary(tables []*table.Table, source string) *Library {
	l := &Library{source: source}
	copy(l.tables[:], tables)
	return l
}

// ParseFormat parses a format name: auto, csv, lib or binary.
func ParseFormat(s string) (Format, error) {
	return library.ParseFormat(s)
}

// FormatOf guesses the format of path from its extension.
func FormatOf(path string) Format {
	return library.FormatOf(path)
}

// Open reads a library file. Every kind must be present and complete.
func Open(path string, opts Options) (*Library, error) {
	tables, err := library.Load(path, specs(), opts)
	if err != nil {
		return nil, err
	}
	return newLibrary(tables, path), nil
}

// Read is Open for a stream.
func Read(r io.Reader, opts Options) (*Library, error) {
	tables, err := library.LoadReader(r, specs(), opts)
	if err != nil {
		return nil, err
	}
	return newLibrary(tables, ""), nil
}

// Source returns the path the library was opened from, if any.
func (l *Library) Source() string {
	return l.source
}

// Rotamers returns every rotamer of k at (phi, psi) degrees. It panics if
// k is not a valid kind.
func (l *Library) Rotamers(k Kind, phi, psi float64) Rotamers {
	return interp.Interpolate(l.tables[k], phi, psi)
}

// RotamersInto is Rotamers writing into dst, for callers that reuse one
// buffer across many queries.
func (l *Library) RotamersInto(dst *Rotamers, k Kind, phi, psi float64) {
	interp.Into(dst, l.tables[k], phi, psi)
}

// Cell returns the stored rotamers of k at grid indices (i, j), without
// interpolation.
func (l *Library) Cell(k Kind, i, j int) (Rotamers, error) {
	if i < 0 || i >= grid.Count || j < 0 || j >= grid.Count {
		return Rotamers{}, fmt.Errorf("dunbrack: grid index (%d, %d) out of range", i, j)
	}
	return rotamer.NewSet(l.tables[k].Cell(i, j)), nil
}

// WriteBinary writes the library in the compiled binary form that Open
// memory-maps.
func (l *Library) WriteBinary(w io.Writer) error {
	return library.WriteBinary(w, specs(), l.tables[:])
}
