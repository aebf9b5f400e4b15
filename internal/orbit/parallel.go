package orbit

import (
	"runtime"
	"sync"
)

type span struct {
	start, end int
}

// chunks splits [0, n) into at most GOMAXPROCS contiguous spans of at least
// minChunk elements. Small inputs yield a single span.
func chunks(n, minChunk int) []span {
	if n == 0 {
		return nil
	}
	workers := runtime.GOMAXPROCS(0)
	if minChunk <= 0 || n <= minChunk || workers <= 1 {
		return []span{{0, n}}
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	size := (n + workers - 1) / workers
	out := make([]span, 0, workers)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, span{start, end})
	}
	return out
}

// parallelFor runs fn once per span. Each call receives its span index so
// results can be written without shared accumulators.
func parallelFor(spans []span, fn func(i int, s span)) {
	if len(spans) == 1 {
		fn(0, spans[0])
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(spans))
	for i, s := range spans {
		go func(i int, s span) {
			defer wg.Done()
			fn(i, s)
		}(i, s)
	}
	wg.Wait()
}
