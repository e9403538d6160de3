package library

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCSV calls fn for every data row of the flat CSV export. A first
// record whose φ column is not a number is taken as the header.
func ReadCSV(r io.Reader, fn func(Row) error) error {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = rowFields
	cr.TrimLeadingSpace = true

	for first := true; ; first = false {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return &LoadError{Line: line, Err: fmt.Errorf("%w: %v", ErrBadRow, err)}
		}
		line, _ := cr.FieldPos(0)
		if first {
			if _, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64); err != nil {
				continue
			}
		}
		row, err := parseRow(rec, line)
		if err != nil {
			return &LoadError{Line: line, Residue: rec[0], Err: err}
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

// libFields is the column count of a .lib data line:
// T Phi Psi Count r1 r2 r3 r4 Probabil chi1Val..chi4Val chi1Sig..chi4Sig
const libFields = 17

// ReadLib calls fn for every data line of a Dunbrack .lib file. Everything
// after a '#' is ignored. The Count column is not used.
func ReadLib(r io.Reader, fn func(Row) error) error {
	s := newCmmtScanner(r, '#')
	f := make([]string, 0, libFields)
	for b := s.CBytes(); b != nil; b = s.CBytes() {
		f = f[:0]
		for _, w := range bytes.Fields(b) {
			f = append(f, string(w))
		}
		if len(f) != libFields {
			return &LoadError{Line: s.line, Err: fmt.Errorf("%w: %d fields, want %d", ErrBadRow, len(f), libFields)}
		}
		f = append(f[:3], f[4:]...)
		row, err := parseRow(f, s.line)
		if err != nil {
			return &LoadError{Line: s.line, Residue: f[0], Err: err}
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		return &LoadError{Line: s.line, Err: err}
	}
	return nil
}

// cmmtScanner skips blank lines and strips comments and surrounding space.
type cmmtScanner struct {
	*bufio.Scanner
	cmmt byte
	line int
}

func newCmmtScanner(r io.Reader, cmmt byte) *cmmtScanner {
	return &cmmtScanner{Scanner: bufio.NewScanner(r), cmmt: cmmt}
}

// CBytes returns the next non-empty line, or nil at the end of input. The
// slice is only valid until the next call.
func (s *cmmtScanner) CBytes() []byte {
	for s.Scan() {
		s.line++
		b := s.Bytes()
		if i := bytes.IndexByte(b, s.cmmt); i >= 0 {
			b = b[:i]
		}
		if b = bytes.TrimSpace(b); len(b) > 0 {
			return b
		}
	}
	return nil
}

// gzipMagic starts every gzip stream.
var gzipMagic = []byte{0x1f, 0x8b}

// maybeGunzip returns a reader of the decompressed stream when r starts
// with the gzip magic, and of r itself otherwise.
func maybeGunzip(r io.Reader) (io.Reader, func() error, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, err
	}
	if !bytes.Equal(head, gzipMagic) {
		return br, func() error { return nil }, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, nil, err
	}
	return zr, zr.Close, nil
}
