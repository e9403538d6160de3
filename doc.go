// Package dunbrack answers side-chain rotamer queries from the Dunbrack
// 2010 backbone-dependent rotamer library.
//
// Given a residue kind and backbone dihedrals (φ, ψ) in degrees, a query
// returns every rotamer of that kind with its interpolated probability and
// χ angle means and deviations:
//
//	if err := dunbrack.Load("dunbrack.dbrk", dunbrack.Options{}); err != nil {
//		log.Fatal(err)
//	}
//	set := dunbrack.Val.Rotamers(-60, -40)
//	best, _ := set.Best()
//
// Angles outside [-180, 180] are clamped, never rejected. Probabilities of a
// result sum to 1 and its rotamers keep the library's bin order, so entry k
// names the same conformation for every (φ, ψ).
//
// Tables are read-only once loaded; a *Library may be shared by any number
// of goroutines, and identical queries return bit-identical results.
package dunbrack
