package rotamer

import "iter"

// Set is a fixed-capacity buffer of rotamers produced by one query. It is a
// plain value: copying a Set copies its rotamers, and nothing in it is
// shared with the library tables.
type Set struct {
	n     int
	items [MaxRotamers]Rotamer
}

// NewSet copies rs into a Set. It panics if rs holds more than MaxRotamers.
func NewSet(rs []Rotamer) Set {
	var s Set
	copy(s.Resize(len(rs)), rs)
	return s
}

// Resize sets the length to n and returns the rotamers for the producer to
// fill in place. Entries past n are zeroed so that equal sets compare
// equal with ==.
func (s *Set) Resize(n int) []Rotamer {
	if n < 0 || n > MaxRotamers {
		panic("rotamer: set size out of range")
	}
	if n < s.n {
		clear(s.items[n:s.n])
	}
	s.n = n
	return s.items[:n]
}

// Len returns the number of rotamers.
func (s *Set) Len() int { return s.n }

// At returns rotamer i.
func (s *Set) At(i int) Rotamer {
	if i >= s.n {
		panic("rotamer: index out of range")
	}
	return s.items[i]
}

// All iterates the rotamers in table order.
func (s *Set) All() iter.Seq2[int, Rotamer] {
	return func(yield func(int, Rotamer) bool) {
		for i := 0; i < s.n; i++ {
			if !yield(i, s.items[i]) {
				return
			}
		}
	}
}

// Slice returns a copy of the rotamers.
func (s *Set) Slice() []Rotamer {
	out := make([]Rotamer, s.n)
	copy(out, s.items[:s.n])
	return out
}

// ProbSum returns the sum of the probabilities.
func (s *Set) ProbSum() float64 {
	sum := 0.0
	for i := 0; i < s.n; i++ {
		sum += float64(s.items[i].Prob)
	}
	return sum
}

// Best returns the most probable rotamer. Ties go to the lower index.
func (s *Set) Best() (Rotamer, bool) {
	if s.n == 0 {
		return Rotamer{}, false
	}
	best := 0
	for i := 1; i < s.n; i++ {
		if s.items[i].Prob > s.items[best].Prob {
			best = i
		}
	}
	return s.items[best], true
}

// Find returns the rotamer whose leading bins equal bins.
func (s *Set) Find(bins ...uint8) (Rotamer, bool) {
	for i := 0; i < s.n; i++ {
		if matches(s.items[i], bins) {
			return s.items[i], true
		}
	}
	return Rotamer{}, false
}

func matches(r Rotamer, bins []uint8) bool {
	if len(bins) != int(r.NChi) {
		return false
	}
	for i, b := range bins {
		if r.Bins[i] != b {
			return false
		}
	}
	return true
}
