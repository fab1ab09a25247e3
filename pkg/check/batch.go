package check

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/oisee/optcheck/pkg/isa"
)

// BatchResult is the outcome of verifying one file in a batch run.
type BatchResult struct {
	File   string
	Report *Report // nil when Err is set
	Err    error   // fatal input/decode error for this file
}

// Batch verifies many pre-captured disassembly files in parallel. Each file
// is one independent run with its own counters; only the progress tallies
// are shared.
type Batch struct {
	Generation isa.Generation
	NumWorkers int // 0 means NumCPU

	done   atomic.Int64
	failed atomic.Int64
}

// Progress returns how many files have been processed and how many of those
// did not verify (failed verdict or fatal error).
func (b *Batch) Progress() (done, failed int64) {
	return b.done.Load(), b.failed.Load()
}

// Run verifies every file and returns results in input order.
func (b *Batch) Run(files []string) []BatchResult {
	workers := b.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]BatchResult, len(files))
	ch := make(chan int, len(files))
	for i := range files {
		ch <- i
	}
	close(ch)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range ch {
				results[i] = b.runOne(files[i])
				b.done.Add(1)
				if results[i].Err != nil || !results[i].Report.OK {
					b.failed.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	return results
}

func (b *Batch) runOne(file string) BatchResult {
	text, err := os.ReadFile(file)
	if err != nil {
		return BatchResult{File: file, Err: err}
	}
	v := &Verifier{Generation: b.Generation, Out: io.Discard}
	rep, err := v.Run(string(text), filepath.Base(file))
	if err != nil {
		return BatchResult{File: file, Err: err}
	}
	return BatchResult{File: file, Report: rep}
}
