// Package analysis derives summaries from rotamer queries.
//
// The package works on top of any [Source], normally a *dunbrack.Library:
//
//   - [Entropy] and [Perplexity]: how spread a rotamer distribution is
//   - [ChiExpectation]: probability-weighted circular mean of each χ
//   - [Sweep]: a φ scan at fixed ψ
//   - [Harmonics]: Fourier content of a rotamer's probability along φ
//   - [Landscape]: one rotamer's probability over the full φ/ψ plane
//   - [Optimum]: the backbone conformation that favours a rotamer most
//
// # Favoured backbones
//
// The φ/ψ that maximise a rotamer's probability come from a coarse grid
// search refined around its best point:
//
//	opt, err := analysis.Optimum(ctx, lib, dunbrack.Leu, 3, 10)
//	fmt.Printf("φ=%.1f ψ=%.1f p=%.3f\n", opt.Phi, opt.Psi, opt.Prob)
package analysis

import "github.com/san-kum/dunbrack"

// Source answers rotamer queries.
type Source interface {
	Rotamers(k dunbrack.Kind, phi, psi float64) dunbrack.Rotamers
}
