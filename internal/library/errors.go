package library

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/san-kum/dunbrack/internal/table"
)

var (
	// ErrUnknownFormat is returned when the format cannot be determined.
	ErrUnknownFormat = errors.New("library: unknown table format")

	ErrBadRow         = fmt.Errorf("%w: bad row", table.ErrMalformed)
	ErrUnknownResidue = fmt.Errorf("%w: unknown residue", table.ErrMalformed)
	ErrDuplicate      = fmt.Errorf("%w: duplicate rotamer", table.ErrMalformed)
	ErrCoverage       = fmt.Errorf("%w: incomplete grid", table.ErrMalformed)
	ErrChecksum       = fmt.Errorf("%w: checksum mismatch", table.ErrMalformed)
)

// LoadError records where loading failed.
type LoadError struct {
	Path    string
	Line    int // 0 when the failure is not tied to a line
	Residue string
	Err     error
}

func (e *LoadError) Error() string {
	s := "library: "
	if e.Path != "" {
		s += e.Path
		if e.Line > 0 {
			s += ":" + strconv.Itoa(e.Line)
		}
		s += ": "
	} else if e.Line > 0 {
		s += "line " + strconv.Itoa(e.Line) + ": "
	}
	if e.Residue != "" {
		s += e.Residue + ": "
	}
	return s + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
