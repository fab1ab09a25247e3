package spec

// Chain is one reconstructed per-thread access sequence: items with order
// 0, 1, 2, ... and no gaps.
type Chain []Item

// Cluster groups decoded items into chains by position proximity. Thread
// specs may interleave arbitrarily in program order, so the only grouping
// signal is nearness: each order-i item joins the chain of length exactly i
// whose last item is closest.
//
// The assignment is greedy and its tie-breaks are part of the contract:
// items are scanned in increasing position within each level, chains in
// creation order, and the first minimum wins. Existing specifications were
// authored against exactly this behavior. items must be in position order,
// as produced by Scan.
func Cluster(items []Item) ([]Chain, error) {
	var chains []Chain
	for _, it := range items {
		if it.Order == 0 {
			chains = append(chains, Chain{it})
		}
	}
	if len(chains) == 0 {
		return nil, ErrNoSpecification
	}

	level := 1
	for {
		found := false
		for _, it := range items {
			if it.Order != level {
				continue
			}
			found = true
			best := -1
			bestDist := int(^uint(0) >> 1)
			for k, ch := range chains {
				if len(ch) != level {
					continue
				}
				d := abs(ch[level-1].Pos - it.Pos)
				if d < bestDist {
					bestDist = d
					best = k
				}
			}
			if best == -1 {
				return nil, ErrMissingItem
			}
			chains[best] = append(chains[best], it)
		}
		level++
		if !found {
			break
		}
	}

	// Sanity: an item above the stopping level means the order sequence has
	// a hole in it somewhere.
	for _, it := range items {
		if it.Order >= level {
			return nil, ErrOrderGap
		}
	}
	return chains, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
