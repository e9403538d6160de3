// Package library builds residue tables from the persisted forms of the
// Dunbrack 2010 backbone-dependent rotamer library:
//
//   - the flat CSV export, one row per (residue, φ, ψ, rotamer)
//   - the original whitespace-separated .lib text
//   - a compiled binary written by [WriteBinary]
//
// CSV and .lib input may be gzip-compressed. Rows are grouped by residue
// tag and grid cell, and every cell is sorted by bins, so that rotamer k
// names the same bin combination everywhere. Loading fails with an error
// wrapping [table.ErrMalformed] if a row is duplicated, a cell is missing
// or incomplete, or any table invariant does not hold. Callers learn about
// bad data here, once, and never at query time.
//
// Reading the text forms of the full library takes a few seconds; the
// binary form is memory-mapped and decoded in a fraction of that.
package library
