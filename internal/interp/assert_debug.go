//go:build dunbrackdebug

package interp

import (
	"fmt"
	"math"

	"github.com/san-kum/dunbrack/internal/rotamer"
)

const debug = true

func assertSameBins(k int, c0, c1, c2, c3 rotamer.Rotamer) {
	if c0.Bins != c1.Bins || c0.Bins != c2.Bins || c0.Bins != c3.Bins {
		panic(fmt.Sprintf("interp: rotamer %d bins differ across corners: %v %v %v %v",
			k, c0.BinSlice(), c1.BinSlice(), c2.BinSlice(), c3.BinSlice()))
	}
}

func assertProbSum(sum float64) {
	if !(sum > 0) || math.IsInf(sum, 0) {
		panic(fmt.Sprintf("interp: probability sum must be finite and positive, got %v", sum))
	}
}
