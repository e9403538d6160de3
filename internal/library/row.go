package library

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/dunbrack/internal/rotamer"
)

// Row is one line of the source dataset.
type Row struct {
	Residue  string
	Phi, Psi float64
	Bins     [rotamer.MaxChi]uint8
	Prob     float32
	ChiMean  [rotamer.MaxChi]float32
	ChiSigma [rotamer.MaxChi]float32
	Line     int
}

// NChi counts the non-zero bins.
func (r Row) NChi() int {
	n := 0
	for _, b := range r.Bins {
		if b > 0 {
			n++
		}
	}
	return n
}

// Rotamer converts the row to a record with nChi angles, dropping any
// values past nChi. A χ mean of -180 is stored as 180.
func (r Row) Rotamer(nChi int) rotamer.Rotamer {
	out := rotamer.Rotamer{NChi: uint8(nChi), Prob: r.Prob}
	for i := 0; i < nChi; i++ {
		out.Bins[i] = r.Bins[i]
		out.ChiMean[i] = r.ChiMean[i]
		if out.ChiMean[i] == -180 {
			out.ChiMean[i] = 180
		}
		out.ChiSigma[i] = r.ChiSigma[i]
	}
	return out
}

// rowFields is the CSV column order:
// res,phi,psi,r1,r2,r3,r4,prob,chi1..chi4,sig1..sig4
const rowFields = 16

func parseRow(f []string, line int) (Row, error) {
	if len(f) != rowFields {
		return Row{}, fmt.Errorf("%w: %d fields, want %d", ErrBadRow, len(f), rowFields)
	}
	r := Row{Residue: strings.ToUpper(strings.TrimSpace(f[0])), Line: line}

	var err error
	if r.Phi, err = parseFloat(f[1], 64); err != nil {
		return Row{}, err
	}
	if r.Psi, err = parseFloat(f[2], 64); err != nil {
		return Row{}, err
	}
	for i := 0; i < rotamer.MaxChi; i++ {
		b, err := strconv.ParseUint(strings.TrimSpace(f[3+i]), 10, 8)
		if err != nil {
			return Row{}, fmt.Errorf("%w: r%d: %v", ErrBadRow, i+1, err)
		}
		r.Bins[i] = uint8(b)
	}
	p, err := parseFloat(f[7], 32)
	if err != nil {
		return Row{}, err
	}
	r.Prob = float32(p)
	for i := 0; i < rotamer.MaxChi; i++ {
		m, err := parseFloat(f[8+i], 32)
		if err != nil {
			return Row{}, err
		}
		s, err := parseFloat(f[12+i], 32)
		if err != nil {
			return Row{}, err
		}
		r.ChiMean[i], r.ChiSigma[i] = float32(m), float32(s)
	}
	return r, nil
}

func parseFloat(s string, bits int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadRow, err)
	}
	return v, nil
}
