// Package check verifies that a compiled litmus test still contains the
// fence instructions its embedded specification demands: it matches each
// reconstructed chain against the real memory instructions in a bounded
// window and tallies the membar instructions found between them.
package check

// Fences lists the fence categories, as lowercase SASS substrings. Order is
// fixed so reports and target estimation are deterministic.
var Fences = []string{"membar.cta", "membar.gl", "membar.sys"}

// Counters tallies fence instructions per category. One observed and one
// target instance exist per run; neither is shared across runs.
type Counters map[string]int

// NewCounters returns a zeroed counter set over all fence categories.
func NewCounters() Counters {
	c := make(Counters, len(Fences))
	for _, f := range Fences {
		c[f] = 0
	}
	return c
}
