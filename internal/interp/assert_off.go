//go:build !dunbrackdebug

package interp

import "github.com/san-kum/dunbrack/internal/rotamer"

// debug enables the data-integrity assertions. Build with -tags
// dunbrackdebug to turn them on.
const debug = false

func assertSameBins(int, rotamer.Rotamer, rotamer.Rotamer, rotamer.Rotamer, rotamer.Rotamer) {}

func assertProbSum(float64) {}
