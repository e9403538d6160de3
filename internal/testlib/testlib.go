// Package testlib provides a complete synthetic library for tests of the
// packages built on top of dunbrack.
package testlib

import (
	"bytes"
	"sync"

	"github.com/san-kum/dunbrack"
	"github.com/san-kum/dunbrack/internal/library"
	"github.com/san-kum/dunbrack/internal/table"
	"github.com/san-kum/dunbrack/internal/testutil"
)

var (
	once sync.Once
	bin  []byte
	lib  *dunbrack.Library
)

func build() {
	kinds := dunbrack.Kinds()
	specs := make([]library.Spec, len(kinds))
	tables := make([]*table.Table, len(kinds))
	for i, k := range kinds {
		specs[i] = library.Spec{Residue: k.String(), NChi: k.NChi(), NRot: k.NRotamers()}
		tables[i] = testutil.Table(k.NChi(), k.NRotamers())
	}
	var buf bytes.Buffer
	if err := library.WriteBinary(&buf, specs, tables); err != nil {
		panic(err)
	}
	bin = buf.Bytes()

	var err error
	if lib, err = dunbrack.Read(bytes.NewReader(bin), dunbrack.Options{Format: dunbrack.FormatBinary}); err != nil {
		panic(err)
	}
}

// Library returns a library whose every table is testutil.Table of the
// kind's dimensions. It is built once per test binary.
func Library() *dunbrack.Library {
	once.Do(build)
	return lib
}

// Binary returns the compiled form of Library.
func Binary() []byte {
	once.Do(build)
	return bin
}
