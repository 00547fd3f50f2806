package layout

import "golang.org/x/sync/errgroup"

// chunksPerWorker oversplits the range so uneven traversal costs even out.
const chunksPerWorker = 4

// parallelFor runs fn over [0, n) split into contiguous chunks, with at most
// workers chunks in flight. Small ranges run inline.
func parallelFor(n, workers, minChunk int, fn func(start, end int)) {
	if workers <= 1 || n <= minChunk {
		fn(0, n)
		return
	}

	chunks := workers * chunksPerWorker
	if n/minChunk < chunks {
		chunks = n / minChunk
	}
	if chunks < 1 {
		chunks = 1
	}
	size := (n + chunks - 1) / chunks

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += size {
		start, end := start, min(start+size, n)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	_ = g.Wait()
}
