// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

// tag is the diagnostic state of one aired unit during a run.
type tag uint8

const (
	tagUnmatched tag = iota
	tagParseErrorBudget
	tagParseErrorInsertion
	tagMatched
)

// merge applies next on top of t. Matched is terminal; a parse error
// replaces Unmatched or an earlier parse error.
func (t tag) merge(next tag) tag {
	if t == tagMatched || next == tagUnmatched {
		return t
	}
	return next
}

// arena owns the per-run capacity counters and tags, addressed by the index
// of the record in the traversal-ordered plan and ingestion-ordered aired
// slices. It is discarded when the run ends.
type arena struct {
	planRemaining  []int
	airedRemaining []int
	tags           []tag
}

func newArena(plan []PlanLine, aired []AiredUnit) *arena {
	a := &arena{
		planRemaining:  make([]int, len(plan)),
		airedRemaining: make([]int, len(aired)),
		tags:           make([]tag, len(aired)),
	}
	for i, p := range plan {
		a.planRemaining[i] = max(p.OrderedQuantity, 0)
	}
	for i, u := range aired {
		a.airedRemaining[i] = max(u.Quantity, 0)
	}
	return a
}

// allocate moves min(remaining plan capacity, remaining aired quantity)
// from unit ui to line pi and returns the amount moved.
func (a *arena) allocate(pi, ui int) int {
	n := min(a.planRemaining[pi], a.airedRemaining[ui])
	if n <= 0 {
		return 0
	}
	a.planRemaining[pi] -= n
	a.airedRemaining[ui] -= n
	return n
}

func (a *arena) mark(ui int, t tag) {
	a.tags[ui] = a.tags[ui].merge(t)
}
