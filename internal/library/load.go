package library

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/san-kum/dunbrack/internal/table"
)

// Format names a persisted table format.
type Format int

const (
	// Auto picks the format from the file name, or from the content when
	// the name says nothing.
	Auto Format = iota
	CSV
	Lib
	Binary
)

var formatNames = map[Format]string{
	Auto:   "auto",
	CSV:    "csv",
	Lib:    "lib",
	Binary: "binary",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat is the inverse of Format.String.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}
	return Auto, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatOf guesses the format from a file name, looking through a
// trailing .gz.
func FormatOf(path string) Format {
	name := strings.ToLower(filepath.Base(path))
	name = strings.TrimSuffix(name, ".gz")
	switch filepath.Ext(name) {
	case ".csv":
		return CSV
	case ".lib":
		return Lib
	case ".dbrk", ".bin":
		return Binary
	}
	return Auto
}

// Options controls loading.
type Options struct {
	Format Format
	// Logger receives one record per load. Nil discards.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Load reads the tables named by specs from path.
func Load(path string, specs []Spec, opts Options) ([]*table.Table, error) {
	start := time.Now()
	format := opts.Format
	if format == Auto {
		format = FormatOf(path)
	}

	var tables []*table.Table
	var err error
	if format == Binary && !strings.HasSuffix(strings.ToLower(path), ".gz") {
		tables, err = openBinary(path, specs)
	} else {
		var fp *os.File
		if fp, err = os.Open(path); err != nil {
			return nil, err
		}
		defer fp.Close()
		tables, format, err = load(fp, format, specs)
	}
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.Path == "" {
			le.Path = path
		}
		return nil, err
	}
	opts.logger().Info("library loaded",
		"path", path,
		"format", format.String(),
		"residues", len(tables),
		"elapsed", time.Since(start))
	return tables, nil
}

// LoadReader is Load for an already open stream.
func LoadReader(r io.Reader, specs []Spec, opts Options) ([]*table.Table, error) {
	start := time.Now()
	tables, format, err := load(r, opts.Format, specs)
	if err != nil {
		return nil, err
	}
	opts.logger().Info("library loaded",
		"format", format.String(),
		"residues", len(tables),
		"elapsed", time.Since(start))
	return tables, nil
}

func load(r io.Reader, format Format, specs []Spec) ([]*table.Table, Format, error) {
	zr, closeZ, err := maybeGunzip(r)
	if err != nil {
		return nil, format, &LoadError{Err: fmt.Errorf("%w: %v", table.ErrMalformed, err)}
	}
	defer closeZ()

	br := bufio.NewReaderSize(zr, 1<<16)
	if format == Auto {
		if format, err = sniff(br); err != nil {
			return nil, format, &LoadError{Err: err}
		}
	}

	var read func(io.Reader, func(Row) error) error
	switch format {
	case CSV:
		read = ReadCSV
	case Lib:
		read = ReadLib
	case Binary:
		data, err := io.ReadAll(br)
		if err != nil {
			return nil, format, err
		}
		tables, err := ReadBinary(data, specs)
		return tables, format, err
	default:
		return nil, format, &LoadError{Err: fmt.Errorf("%w: %v", ErrUnknownFormat, format)}
	}

	b := NewBuilder(specs)
	if err := read(br, b.Add); err != nil {
		return nil, format, err
	}
	tables, err := b.Build()
	return tables, format, err
}

// Scan streams the rows of a text source, gzipped or not, to fn without
// building tables.
func Scan(r io.Reader, format Format, fn func(Row) error) error {
	zr, closeZ, err := maybeGunzip(r)
	if err != nil {
		return &LoadError{Err: fmt.Errorf("%w: %v", table.ErrMalformed, err)}
	}
	defer closeZ()

	br := bufio.NewReaderSize(zr, 1<<16)
	if format == Auto {
		if format, err = sniff(br); err != nil {
			return &LoadError{Err: err}
		}
	}
	switch format {
	case CSV:
		return ReadCSV(br, fn)
	case Lib:
		return ReadLib(br, fn)
	}
	return &LoadError{Err: fmt.Errorf("%w: %v has no rows", ErrUnknownFormat, format)}
}

// sniff looks at the first line of content: the binary magic, a comma
// separated record, or otherwise .lib text.
func sniff(br *bufio.Reader) (Format, error) {
	head, err := br.Peek(512)
	if len(head) == 0 {
		if err == nil || err == io.EOF {
			return Auto, fmt.Errorf("%w: empty input", ErrUnknownFormat)
		}
		return Auto, err
	}
	if bytes.HasPrefix(head, []byte(binaryMagic)) {
		return Binary, nil
	}
	for _, line := range bytes.Split(head, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.Count(line, []byte(",")) == rowFields-1 {
			return CSV, nil
		}
		return Lib, nil
	}
	return Lib, nil
}
