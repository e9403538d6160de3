// Package parallel splits index ranges across goroutines.
package parallel

import (
	"context"
	"runtime"
	"sync"
)

// For executes fn over [0, n) split into at most workers contiguous
// chunks of at least minChunk indices. workers <= 0 means GOMAXPROCS.
func For(n, minChunk, workers int, fn func(start, end int)) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	minChunk = max(minChunk, 1)
	if n <= minChunk || workers <= 1 {
		if n > 0 {
			fn(0, n)
		}
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}

// ForContext is For that skips chunks not yet started once ctx is done,
// and returns ctx.Err() in that case.
func ForContext(ctx context.Context, n, minChunk, workers int, fn func(start, end int)) error {
	For(n, minChunk, workers, func(start, end int) {
		if ctx.Err() != nil {
			return
		}
		fn(start, end)
	})
	return ctx.Err()
}
