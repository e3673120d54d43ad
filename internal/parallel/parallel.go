// Package parallel provides a bounded fork-join map for data-parallel
// stencil sweeps. Each call partitions [0,n) into disjoint chunks, runs the
// workers, and returns only after every worker has finished, so a call acts
// as a barrier between solver sub-steps.
package parallel

import (
	"runtime"
	"sync"
)

var defaultWorkers = runtime.NumCPU()

// For executes fn over disjoint sub-ranges of [0,n). Ranges never overlap,
// so each index is written by exactly one worker. Work smaller than minChunk
// runs serially on the calling goroutine.
func For(n, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	workers := defaultWorkers
	if n <= minChunk || workers <= 1 {
		fn(0, n)
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
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		go func(s, e int) {
			defer wg.Done()
			if s < e {
				fn(s, e)
			}
		}(start, end)
	}
	wg.Wait()
}
