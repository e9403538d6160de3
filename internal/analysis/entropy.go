package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/dunbrack"
)

// Probs returns the rotamer probabilities in table order.
func Probs(set dunbrack.Rotamers) []float64 {
	p := make([]float64, set.Len())
	for i, r := range set.All() {
		p[i] = float64(r.Prob)
	}
	return p
}

// Entropy returns the Shannon entropy of the distribution in nats.
func Entropy(set dunbrack.Rotamers) float64 {
	return stat.Entropy(Probs(set))
}

// Perplexity returns exp(Entropy), the effective number of rotamers.
func Perplexity(set dunbrack.Rotamers) float64 {
	return math.Exp(Entropy(set))
}
