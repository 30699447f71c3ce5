package resample

import (
	"runtime"
	"sync"
)

// parallelRows splits [0, h) into contiguous row ranges and runs fn on
// each range from its own goroutine. Ranges are disjoint and every output
// row is written by exactly one worker, so the split cannot affect the
// result. Small images run inline: goroutine overhead dominates below a
// few thousand rows of work.
func parallelRows(h int, fn func(y0, y1 int)) {
	workers := runtime.NumCPU()
	if workers > h {
		workers = h
	}
	if workers <= 1 || h < 64 {
		fn(0, h)
		return
	}

	chunk := (h + workers - 1) / workers
	var wg sync.WaitGroup
	for y0 := 0; y0 < h; y0 += chunk {
		y1 := min(y0+chunk, h)
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}
