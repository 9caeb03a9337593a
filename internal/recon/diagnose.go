// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

// overflow lists every standard aired unit with quantity left after
// matching, in ingestion order, each with exactly one reason. The second
// slice names the plan-side channel each unit is reported under.
func (r *run) overflow() ([]OverflowUnit, []string) {
	planNames := make(map[string]string, len(r.plan))
	for pi, p := range r.plan {
		if _, ok := planNames[r.channels.plan[pi]]; !ok {
			planNames[r.channels.plan[pi]] = p.Channel
		}
	}

	out := make([]OverflowUnit, 0)
	channels := make([]string, 0)
	for ui, u := range r.aired {
		left := r.arena.airedRemaining[ui]
		if left == 0 {
			continue
		}
		out = append(out, OverflowUnit{
			Date:             u.Date,
			Channel:          u.Channel,
			Title:            u.Title,
			GenreSlot:        u.GenreSlot,
			TimeRange:        u.TimeRange,
			DurationSeconds:  u.DurationSeconds,
			LeftoverQuantity: left,
			Reason:           r.reason(ui),
		})
		name, ok := planNames[r.channels.resolved(ui)]
		if !ok {
			name = u.Channel
		}
		channels = append(channels, name)
	}
	return out, channels
}

func (r *run) reason(ui int) Reason {
	switch r.arena.tags[ui] {
	case tagMatched:
		return ReasonExceededOrderQuantity
	case tagParseErrorBudget:
		return ReasonParseErrorBudget
	case tagParseErrorInsertion:
		return ReasonParseErrorInsertion
	}
	return r.explain(ui)
}

// explain rescans every plan line for the first criterion unit ui fails.
func (r *run) explain(ui int) Reason {
	u := &r.aired[ui]
	var sameDate, sameChannel, sameDuration bool
	for pi := range r.plan {
		p := &r.plan[pi]
		if p.Date != u.Date {
			continue
		}
		sameDate = true
		if !r.channels.matches(pi, ui) {
			continue
		}
		sameChannel = true
		if p.DurationSeconds != u.DurationSeconds {
			continue
		}
		sameDuration = true
		if r.windows.check(pi, ui) == containMatch {
			return ReasonBudgetFull
		}
	}
	switch {
	case !sameDate:
		return ReasonNoBudgetForDate
	case !sameChannel:
		return ReasonNoBudgetForMedio
	case !sameDuration:
		return ReasonDurationMismatch
	default:
		return ReasonOutsideSchedule
	}
}
