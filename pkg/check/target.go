package check

import "strings"

// EstimateTargets derives the minimum expected fence count per category from
// the test identifier (typically the test's filename). A pluralized fence
// name in the identifier means the test issues that fence on two threads.
//
// The second pass subtracts half the already-accumulated target, which makes
// the arithmetic asymmetric between the plural and bare counts. That quirk is
// load-bearing: existing test suites were named against it, so it is
// reproduced as-is rather than cleaned up. target[f] is always even when
// halved (it is exactly twice the plural count), so integer division is
// exact.
func EstimateTargets(testname string) Counters {
	name := strings.ToLower(testname)
	target := NewCounters()
	for _, f := range Fences {
		target[f] += 2 * strings.Count(name, f+"s")
	}
	for _, f := range Fences {
		target[f] += strings.Count(name, f) - target[f]/2
	}
	return target
}
