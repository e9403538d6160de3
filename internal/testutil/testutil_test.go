package testutil

import (
	"slices"
	"testing"

	"github.com/san-kum/dunbrack/internal/rotamer"
)

func TestBins(t *testing.T) {
	tests := []struct {
		nChi, nRot int
	}{
		{1, 3},
		{1, 6},
		{2, 36},
		{3, 108},
		{4, 75},
	}
	for _, tt := range tests {
		got := Bins(tt.nChi, tt.nRot)
		if len(got) != tt.nRot {
			t.Fatalf("Bins(%d, %d) returned %d combinations", tt.nChi, tt.nRot, len(got))
		}
		sorted := slices.IsSortedFunc(got, func(a, b [rotamer.MaxChi]uint8) int {
			return slices.Compare(a[:], b[:])
		})
		if !sorted {
			t.Errorf("Bins(%d, %d) not in lexicographic order", tt.nChi, tt.nRot)
		}
		if len(slices.Compact(slices.Clone(got))) != tt.nRot {
			t.Errorf("Bins(%d, %d) repeats a combination", tt.nChi, tt.nRot)
		}
	}
}

func TestBinsTooMany(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic past the last combination")
		}
	}()
	Bins(1, 7)
}

func TestCellsFullCombination(t *testing.T) {
	// ASN, HIS and TRP use every 2-χ combination.
	if got := len(Cells(2, 36)); got != 37*37*36 {
		t.Errorf("expected %d cells, got %d", 37*37*36, got)
	}
}
