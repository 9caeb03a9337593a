// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

import "github.com/rs/zerolog"

// lineTally accumulates what one plan line received.
type lineTally struct {
	allocated int
	slots     orderedSet
	titles    orderedSet
	confSum   float64
	confCount int
}

// orderedSet keeps distinct non-empty values in first-seen order.
type orderedSet struct {
	seen   map[string]struct{}
	values []string
}

func (s *orderedSet) add(v string) {
	if v == "" {
		return
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}

func (s *orderedSet) list() []string {
	if len(s.values) == 0 {
		return []string{}
	}
	return append([]string(nil), s.values...)
}

// run is the private state of one reconciliation pass.
type run struct {
	plan     []PlanLine
	aired    []AiredUnit
	channels channelIndex
	windows  windows
	arena    *arena
	tallies  []lineTally
	byDate   map[Date][]int
	logger   zerolog.Logger
}

func newRun(plan []PlanLine, aired []AiredUnit, lookup ChannelLookup, logger zerolog.Logger) *run {
	r := &run{
		plan:     plan,
		aired:    aired,
		channels: newChannelIndex(plan, aired, lookup),
		windows:  newWindows(plan, aired),
		arena:    newArena(plan, aired),
		tallies:  make([]lineTally, len(plan)),
		byDate:   make(map[Date][]int),
		logger:   logger,
	}
	for i, u := range aired {
		r.byDate[u.Date] = append(r.byDate[u.Date], i)
	}
	return r
}

// match runs the greedy allocation pass over plan lines in slice order.
func (r *run) match() {
	for pi := range r.plan {
		for _, ui := range r.byDate[r.plan[pi].Date] {
			if r.arena.airedRemaining[ui] == 0 {
				continue
			}
			r.consider(pi, ui)
		}
	}
}

func (r *run) consider(pi, ui int) {
	if !r.channels.matches(pi, ui) {
		return
	}
	p, u := &r.plan[pi], &r.aired[ui]
	if p.DurationSeconds != u.DurationSeconds {
		return
	}

	switch r.windows.check(pi, ui) {
	case containNoMatch:
		return
	case containParseErrorBudget:
		r.arena.mark(ui, tagParseErrorBudget)
		return
	case containParseErrorInsertion:
		r.arena.mark(ui, tagParseErrorInsertion)
		return
	}

	r.arena.mark(ui, tagMatched)
	n := r.arena.allocate(pi, ui)
	if n == 0 {
		return
	}
	t := &r.tallies[pi]
	t.allocated += n
	t.slots.add(u.GenreSlot)
	t.titles.add(u.Title)
	t.confSum += u.SourceConfidence
	t.confCount++

	if e := r.logger.Trace(); e.Enabled() {
		e.Int("plan_index", pi).
			Int("aired_index", ui).
			Int("allocated", n).
			Int("plan_remaining", r.arena.planRemaining[pi]).
			Int("aired_remaining", r.arena.airedRemaining[ui]).
			Msg("allocated aired spots")
	}
}
