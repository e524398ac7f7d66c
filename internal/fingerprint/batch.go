package fingerprint

import (
	"context"
	"sync"
)

// Result pairs a path with its fingerprint or the error that prevented one.
type Result struct {
	Path        string
	Fingerprint Fingerprint
	Err         error
}

// ComputeAll fingerprints paths using up to workers goroutines. Results are
// returned in input order. Each worker opens its own file handles.
func ComputeAll(ctx context.Context, paths []string, workers int) []Result {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				fp, err := Compute(ctx, paths[idx])
				results[idx] = Result{Path: paths[idx], Fingerprint: fp, Err: err}
			}
		}()
	}
	for idx := range paths {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
	return results
}
