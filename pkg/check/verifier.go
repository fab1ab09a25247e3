package check

import (
	"fmt"
	"io"

	"github.com/oisee/optcheck/pkg/isa"
	"github.com/oisee/optcheck/pkg/sass"
	"github.com/oisee/optcheck/pkg/spec"
)

// Verifier runs the full pipeline over one disassembly blob.
type Verifier struct {
	Generation isa.Generation
	Out        io.Writer // per-chain diagnostics; io.Discard to silence
	Debug      bool      // dump the recovered specification
}

// Report is the outcome of one verification run.
type Report struct {
	Chains   []bool // per-chain match results, in cluster order
	OK       bool   // all chains matched and no fence deficit
	Observed Counters
	Target   Counters
}

// Run verifies that the disassembly in text preserves the fences its
// embedded specification requires. testname (normally the input filename)
// determines the expected fence counts. A non-nil error means the input was
// malformed and no verdict exists; a verdict of failure is reported through
// Report.OK, not the error.
func (v *Verifier) Run(text, testname string) (*Report, error) {
	out := v.Out
	if out == nil {
		out = io.Discard
	}
	mapping := isa.ForGeneration(v.Generation)

	stream, err := sass.Parse(text)
	if err != nil {
		return nil, err
	}
	items, err := spec.Scan(stream, mapping)
	if err != nil {
		return nil, err
	}
	chains, err := spec.Cluster(items)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "Specification clusters: %d\n", len(chains))
	if v.Debug {
		for i, ch := range chains {
			fmt.Fprintf(out, "  cluster %d: %v\n", i, ch)
		}
	}

	rep := &Report{
		OK:       true,
		Observed: NewCounters(),
		Target:   EstimateTargets(testname),
	}

	for i, ch := range chains {
		ok := MatchChain(ch, stream, mapping, rep.Observed)
		if ok {
			fmt.Fprintf(out, "Cluster %d: OK\n", i)
		} else {
			fmt.Fprintf(out, "Cluster %d: Failure\n", i)
		}
		rep.Chains = append(rep.Chains, ok)
		rep.OK = rep.OK && ok
	}

	for _, f := range Fences {
		if rep.Target[f] > rep.Observed[f] {
			rep.OK = false
			break
		}
	}
	return rep, nil
}
