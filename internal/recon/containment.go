// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

type containment uint8

const (
	containMatch containment = iota
	containNoMatch
	containParseErrorBudget
	containParseErrorInsertion
)

type parsedRange struct {
	iv Interval
	ok bool
}

// windows holds every schedule and time range of a run parsed once.
type windows struct {
	plan  []parsedRange
	aired []parsedRange
}

func newWindows(plan []PlanLine, aired []AiredUnit) windows {
	w := windows{
		plan:  make([]parsedRange, len(plan)),
		aired: make([]parsedRange, len(aired)),
	}
	for i, p := range plan {
		iv, err := ParseTimeRange(p.Schedule)
		w.plan[i] = parsedRange{iv: iv, ok: err == nil}
	}
	for i, u := range aired {
		iv, err := ParseTimeRange(u.TimeRange)
		w.aired[i] = parsedRange{iv: iv, ok: err == nil}
	}
	return w
}

// check reports whether plan line pi's schedule fits inside aired unit ui's
// window. A plan parse failure is reported before an aired one.
func (w windows) check(pi, ui int) containment {
	p := w.plan[pi]
	if !p.ok {
		return containParseErrorBudget
	}
	u := w.aired[ui]
	if !u.ok {
		return containParseErrorInsertion
	}
	if p.iv.Within(u.iv) {
		return containMatch
	}
	return containNoMatch
}
