// Package parallel fans contiguous index ranges out to worker goroutines.
package parallel

import (
	"runtime"

	"github.com/sourcegraph/conc"
)

// Workers returns the number of workers used for items, capped at the CPU count.
func Workers(items int) int {
	n := runtime.GOMAXPROCS(0)
	if n > items {
		n = items
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Parallelize splits [0, items) into one contiguous chunk per worker and calls fn
// for each chunk concurrently. Chunks never overlap, so fn may write to disjoint
// slots of a shared slice without locking. A panic in fn is re-raised in the
// caller after every worker has returned.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := Workers(items)
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg conc.WaitGroup
	for start := 0; start < items; start += chunkSize {
		end := start + chunkSize
		if end > items {
			end = items
		}
		s, e := start, end
		wg.Go(func() {
			fn(s, e)
		})
	}
	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) on the calling goroutine when items
// does not exceed threshold and falls back to Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}
