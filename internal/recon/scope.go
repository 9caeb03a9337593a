// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

import (
	"time"

	"github.com/ManuGH/spotrecon/internal/normalize"
)

// Scope restricts both pools before matching. Zero bounds are open and an
// empty channel list selects every channel.
type Scope struct {
	From     Date     `json:"from,omitempty" yaml:"from,omitempty"`
	To       Date     `json:"to,omitempty" yaml:"to,omitempty"`
	Channels []string `json:"channels,omitempty" yaml:"channels,omitempty"`
}

// MonthScope selects every day of one calendar month.
func MonthScope(year int, month time.Month) Scope {
	first := NewDate(year, month, 1)
	last := DateOf(first.Time().AddDate(0, 1, -1))
	return Scope{From: first, To: last}
}

// Includes reports whether d lies within the scope's inclusive date bounds.
func (s Scope) Includes(d Date) bool {
	if !s.From.IsZero() && d.Before(s.From) {
		return false
	}
	if !s.To.IsZero() && d.After(s.To) {
		return false
	}
	return true
}

// FilterDates keeps the records inside the date bounds, preserving order.
func (s Scope) FilterDates(plan []PlanLine, aired []AiredUnit) ([]PlanLine, []AiredUnit) {
	outPlan := make([]PlanLine, 0, len(plan))
	for _, p := range plan {
		if s.Includes(p.Date) {
			outPlan = append(outPlan, p)
		}
	}
	outAired := make([]AiredUnit, 0, len(aired))
	for _, u := range aired {
		if s.Includes(u.Date) {
			outAired = append(outAired, u)
		}
	}
	return outPlan, outAired
}

// FilterChannels keeps the records on the selected channels. An aired unit
// is also kept when its alias resolves to a selected channel.
func (s Scope) FilterChannels(plan []PlanLine, aired []AiredUnit, lookup ChannelLookup) ([]PlanLine, []AiredUnit) {
	if len(s.Channels) == 0 {
		return plan, aired
	}
	if lookup == nil {
		lookup = noAliases{}
	}
	selected := make(map[string]struct{}, len(s.Channels))
	for _, ch := range s.Channels {
		selected[normalize.Token(ch)] = struct{}{}
	}
	has := func(name string) bool {
		_, ok := selected[normalize.Token(name)]
		return ok
	}

	outPlan := make([]PlanLine, 0, len(plan))
	for _, p := range plan {
		if has(p.Channel) {
			outPlan = append(outPlan, p)
		}
	}
	outAired := make([]AiredUnit, 0, len(aired))
	for _, u := range aired {
		if has(u.Channel) {
			outAired = append(outAired, u)
			continue
		}
		if target, ok := lookup.Lookup(u.Channel); ok && has(target) {
			outAired = append(outAired, u)
		}
	}
	return outPlan, outAired
}
