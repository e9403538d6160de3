// Package sample draws side-chain conformations from a rotamer
// distribution: a rotamer by its probability, then every χ angle from a
// normal distribution around the rotamer mean.
package sample

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/dunbrack"
)

// Source answers rotamer queries.
type Source interface {
	Rotamers(k dunbrack.Kind, phi, psi float64) dunbrack.Rotamers
}

// Config defines a sampling run.
type Config struct {
	Kind     dunbrack.Kind
	Phi, Psi float64
	Count    int
	// Seed fixes the draws. Zero seeds from the clock.
	Seed uint64
}

// Conformation is one draw.
type Conformation struct {
	Trial   int
	Rotamer int // index into the query result
	Bins    [dunbrack.MaxChi]uint8
	NChi    int
	Chi     [dunbrack.MaxChi]float64 // degrees in (-180, 180]
}

// Sampler draws conformations from a fixed rotamer distribution.
type Sampler struct {
	set  dunbrack.Rotamers
	cat  distuv.Categorical
	norm distuv.Normal
}

// NewSampler returns a sampler over set seeded with seed.
func NewSampler(set dunbrack.Rotamers, seed uint64) *Sampler {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Sampler{
		set:  set,
		cat:  distuv.NewCategorical(probs(set), src),
		norm: distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
}

func probs(set dunbrack.Rotamers) []float64 {
	p := make([]float64, set.Len())
	for i, r := range set.All() {
		p[i] = float64(r.Prob)
	}
	return p
}

// Draw returns the next conformation.
func (s *Sampler) Draw() Conformation {
	k := int(s.cat.Rand())
	r := s.set.At(k)
	c := Conformation{Rotamer: k, Bins: r.Bins, NChi: int(r.NChi)}
	for i := 0; i < c.NChi; i++ {
		chi := float64(r.ChiMean[i]) + float64(r.ChiSigma[i])*s.norm.Rand()
		c.Chi[i] = wrap(chi)
	}
	return c
}

// Run queries src once and draws cfg.Count conformations.
func Run(ctx context.Context, src Source, cfg Config) ([]Conformation, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s := NewSampler(src.Rotamers(cfg.Kind, cfg.Phi, cfg.Psi), seed)

	out := make([]Conformation, cfg.Count)
	for i := range out {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return out[:i], err
			}
		}
		out[i] = s.Draw()
		out[i].Trial = i
	}
	return out, nil
}

// Frequencies returns how often each of n rotamers was drawn, as a
// fraction of all draws.
func Frequencies(confs []Conformation, n int) []float64 {
	freq := make([]float64, n)
	if len(confs) == 0 {
		return freq
	}
	for _, c := range confs {
		freq[c.Rotamer]++
	}
	for i := range freq {
		freq[i] /= float64(len(confs))
	}
	return freq
}

func wrap(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg <= -180 {
		deg += 360
	} else if deg > 180 {
		deg -= 360
	}
	return deg
}
