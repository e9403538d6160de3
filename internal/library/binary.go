package library

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"

	"github.com/san-kum/dunbrack/internal/rotamer"
	"github.com/san-kum/dunbrack/internal/table"
)

// Layout of the compiled form, all integers little endian:
//
//	magic   "DBRK"
//	version uint16
//	ntables uint16
//	ntables × { tag [4]byte, nchi uint8, 0, nrot uint16, CellCount×nrot records }
//	crc32   uint32 (IEEE, over everything before it)
//
// A record is bins [4]uint8, prob float32, mean [4]float32, sigma [4]float32.
const (
	binaryMagic   = "DBRK"
	binaryVersion = 1
	headerSize    = 8
	tableHeader   = 8
	recordSize    = 4 + 4 + 16 + 16
)

// WriteBinary writes tables, one per spec, in the compiled form.
func WriteBinary(w io.Writer, specs []Spec, tables []*table.Table) error {
	if len(specs) != len(tables) {
		return fmt.Errorf("library: %d specs for %d tables", len(specs), len(tables))
	}
	crc := crc32.NewIEEE()
	bw := bufio.NewWriter(io.MultiWriter(w, crc))

	var buf [recordSize]byte
	copy(buf[:], binaryMagic)
	binary.LittleEndian.PutUint16(buf[4:], binaryVersion)
	binary.LittleEndian.PutUint16(buf[6:], uint16(len(tables)))
	bw.Write(buf[:headerSize])

	for n, t := range tables {
		s := specs[n]
		if t.NChi() != s.NChi || t.NRotamers() != s.NRot {
			return fmt.Errorf("library: %s table is %d×%d, want %d×%d", s.Residue, t.NChi(), t.NRotamers(), s.NChi, s.NRot)
		}
		tag, err := packTag(s.Residue)
		if err != nil {
			return err
		}
		clear(buf[:tableHeader])
		copy(buf[:4], tag[:])
		buf[4] = uint8(s.NChi)
		binary.LittleEndian.PutUint16(buf[6:], uint16(s.NRot))
		bw.Write(buf[:tableHeader])

		t.Each(func(_, _ int, cell []rotamer.Rotamer) {
			for _, r := range cell {
				putRecord(buf[:], r)
				bw.Write(buf[:])
			}
		})
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	var sum [4]byte
	binary.LittleEndian.PutUint32(sum[:], crc.Sum32())
	_, err := w.Write(sum[:])
	return err
}

// ReadBinary decodes the compiled form. Every spec must be present with
// matching dimensions; extra tables are an error.
func ReadBinary(data []byte, specs []Spec) ([]*table.Table, error) {
	if len(data) < headerSize+4 || string(data[:4]) != binaryMagic {
		return nil, &LoadError{Err: fmt.Errorf("%w: missing %s header", ErrUnknownFormat, binaryMagic)}
	}
	body, trailer := data[:len(data)-4], data[len(data)-4:]
	if crc32.ChecksumIEEE(body) != binary.LittleEndian.Uint32(trailer) {
		return nil, &LoadError{Err: ErrChecksum}
	}
	if v := binary.LittleEndian.Uint16(body[4:]); v != binaryVersion {
		return nil, &LoadError{Err: fmt.Errorf("%w: version %d", ErrUnknownFormat, v)}
	}
	ntables := int(binary.LittleEndian.Uint16(body[6:]))

	index := make(map[string]int, len(specs))
	for i, s := range specs {
		index[strings.ToUpper(s.Residue)] = i
	}
	out := make([]*table.Table, len(specs))

	off := headerSize
	for range ntables {
		if off+tableHeader > len(body) {
			return nil, &LoadError{Err: fmt.Errorf("%w: truncated table header", table.ErrMalformed)}
		}
		tag := strings.TrimRight(string(body[off:off+4]), " ")
		nChi := int(body[off+4])
		nRot := int(binary.LittleEndian.Uint16(body[off+6:]))
		off += tableHeader

		si, ok := index[tag]
		if !ok {
			return nil, &LoadError{Residue: tag, Err: ErrUnknownResidue}
		}
		s := specs[si]
		if out[si] != nil {
			return nil, &LoadError{Residue: tag, Err: fmt.Errorf("%w: table repeated", ErrDuplicate)}
		}
		if nChi != s.NChi || nRot != s.NRot {
			return nil, &LoadError{Residue: tag, Err: fmt.Errorf("%w: %d×%d, want %d×%d",
				table.ErrMalformed, nChi, nRot, s.NChi, s.NRot)}
		}
		n := table.CellCount * nRot
		if off+n*recordSize > len(body) {
			return nil, &LoadError{Residue: tag, Err: fmt.Errorf("%w: truncated records", table.ErrMalformed)}
		}
		cells := make([]rotamer.Rotamer, n)
		for k := range cells {
			cells[k] = getRecord(body[off:off+recordSize], nChi)
			off += recordSize
		}
		t, err := table.New(nChi, nRot, cells)
		if err != nil {
			return nil, &LoadError{Residue: tag, Err: err}
		}
		out[si] = t
	}
	if off != len(body) {
		return nil, &LoadError{Err: fmt.Errorf("%w: %d trailing bytes", table.ErrMalformed, len(body)-off)}
	}
	for i, t := range out {
		if t == nil {
			return nil, &LoadError{Residue: specs[i].Residue, Err: fmt.Errorf("%w: table missing", ErrCoverage)}
		}
	}
	return out, nil
}

// openBinary memory-maps path and decodes it. The tables copy what they
// need, so the mapping is released before returning.
func openBinary(path string, specs []Spec) ([]*table.Table, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("library: mmap %s: %w", path, err)
	}
	defer mm.Unmap()
	return ReadBinary(mm, specs)
}

func packTag(s string) ([4]byte, error) {
	var tag [4]byte
	if len(s) == 0 || len(s) > len(tag) {
		return tag, fmt.Errorf("library: residue tag %q does not fit", s)
	}
	copy(tag[:], strings.ToUpper(s)+"    ")
	return tag, nil
}

func putRecord(b []byte, r rotamer.Rotamer) {
	copy(b[:4], r.Bins[:])
	le := binary.LittleEndian
	le.PutUint32(b[4:], math.Float32bits(r.Prob))
	for c := 0; c < rotamer.MaxChi; c++ {
		le.PutUint32(b[8+4*c:], math.Float32bits(r.ChiMean[c]))
		le.PutUint32(b[24+4*c:], math.Float32bits(r.ChiSigma[c]))
	}
}

func getRecord(b []byte, nChi int) rotamer.Rotamer {
	le := binary.LittleEndian
	r := rotamer.Rotamer{NChi: uint8(nChi), Prob: math.Float32frombits(le.Uint32(b[4:]))}
	copy(r.Bins[:], b[:4])
	for c := 0; c < rotamer.MaxChi; c++ {
		r.ChiMean[c] = math.Float32frombits(le.Uint32(b[8+4*c:]))
		r.ChiSigma[c] = math.Float32frombits(le.Uint32(b[24+4*c:]))
	}
	return r
}
