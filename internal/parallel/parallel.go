// Package parallel distributes index-space loops across worker
// goroutines. The convolution and pooling kernels of the CPU backend
// iterate large batch*channel grids; splitting those grids over the
// available cores keeps dry forward passes on big inputs tractable.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls loop distribution.
type Config struct {
	// Enabled switches between parallel and sequential execution.
	Enabled bool

	// Workers is the number of goroutines to spread the index space over.
	Workers int

	// MinSpan is the smallest index range worth a goroutine. Loops
	// shorter than this run sequentially.
	MinSpan int
}

// DefaultConfig returns a configuration sized to the machine.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled: n > 1,
		Workers: n,
		MinSpan: 64,
	}
}

// For executes f(i) for every i in [0, n). The iterations must be
// independent; f may run concurrently from multiple goroutines.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinSpan {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	span := max((n+cfg.Workers-1)/cfg.Workers, cfg.MinSpan)
	var wg sync.WaitGroup
	for start := 0; start < n; start += span {
		end := min(start+span, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForGrid executes f(r, c) over an rows x cols grid, flattening the
// grid into one index space so small outer dimensions still spread
// across all workers.
func ForGrid(rows, cols int, f func(r, c int), cfg Config) {
	For(rows*cols, func(k int) {
		f(k/cols, k%cols)
	}, cfg)
}
