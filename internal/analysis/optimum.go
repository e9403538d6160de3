package analysis

import (
	"context"
	"math"

	"github.com/san-kum/dunbrack"
)

// GridSearch maximises an objective over every (φ, ψ) pair of its axes.
type GridSearch struct {
	phis []float64
	psis []float64
}

func NewGridSearch(phis, psis []float64) *GridSearch {
	return &GridSearch{phis: phis, psis: psis}
}

// Search returns the best pair. It stops early when ctx is done.
func (g *GridSearch) Search(ctx context.Context, objective func(phi, psi float64) float64) (phi, psi, best float64, err error) {
	best = math.Inf(-1)
	for _, p := range g.phis {
		if err := ctx.Err(); err != nil {
			return phi, psi, best, err
		}
		for _, s := range g.psis {
			if v := objective(p, s); v > best {
				phi, psi, best = p, s, v
			}
		}
	}
	return phi, psi, best, nil
}

// Favoured is the backbone conformation that maximises one rotamer.
type Favoured struct {
	Phi, Psi float64
	Prob     float64
}

// Optimum finds the (φ, ψ) maximising the probability of rotamer rot of k:
// a grid search every step degrees, then a search with step/10 spacing
// around the best point.
func Optimum(ctx context.Context, src Source, k dunbrack.Kind, rot int, step float64) (Favoured, error) {
	prob := func(phi, psi float64) float64 {
		set := src.Rotamers(k, phi, psi)
		return float64(set.At(rot).Prob)
	}

	axis := Steps(-180, 180, step)
	phi, psi, _, err := NewGridSearch(axis, axis).Search(ctx, prob)
	if err != nil {
		return Favoured{}, err
	}

	fine := step / 10
	phis := Steps(max(phi-step, -180), min(phi+step, 180), fine)
	psis := Steps(max(psi-step, -180), min(psi+step, 180), fine)
	phi, psi, best, err := NewGridSearch(phis, psis).Search(ctx, prob)
	if err != nil {
		return Favoured{}, err
	}
	return Favoured{Phi: phi, Psi: psi, Prob: best}, nil
}
