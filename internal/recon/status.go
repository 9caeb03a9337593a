// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

import "math"

// DeriveStatus classifies a plan line by what it received.
func DeriveStatus(ordered, allocated int) Status {
	diff := ordered - allocated
	switch {
	case allocated == 0:
		return StatusMissing
	case diff > 0:
		return StatusUnder
	case diff < 0:
		return StatusOver
	default:
		return StatusMatched
	}
}

// MeanConfidence is the rounded mean of the contributions, or 0 without any.
func MeanConfidence(sum float64, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(sum / float64(count)))
}

// lines builds the reconciled plan lines in traversal order.
func (r *run) lines() []ReconciledLine {
	out := make([]ReconciledLine, len(r.plan))
	for pi, p := range r.plan {
		t := &r.tallies[pi]
		out[pi] = ReconciledLine{
			PlanLine:        p,
			MatchedSlots:    t.slots.list(),
			MatchedTitles:   t.titles.list(),
			TotalAllocated:  t.allocated,
			Difference:      p.OrderedQuantity - t.allocated,
			MatchConfidence: MeanConfidence(t.confSum, t.confCount),
			Status:          DeriveStatus(p.OrderedQuantity, t.allocated),
		}
	}
	return out
}
