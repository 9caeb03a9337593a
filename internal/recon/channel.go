// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

import "github.com/ManuGH/spotrecon/internal/normalize"

// ChannelLookup maps an aired-side channel name to its plan-side name.
type ChannelLookup interface {
	Lookup(aired string) (plan string, ok bool)
}

type noAliases struct{}

func (noAliases) Lookup(string) (string, bool) { return "", false }

// channelIndex caches folded channel tokens for both pools so the matcher
// compares strings instead of re-folding on every candidate.
type channelIndex struct {
	plan       []string
	airedName  []string
	airedAlias []string
}

func newChannelIndex(plan []PlanLine, aired []AiredUnit, lookup ChannelLookup) channelIndex {
	if lookup == nil {
		lookup = noAliases{}
	}
	idx := channelIndex{
		plan:       make([]string, len(plan)),
		airedName:  make([]string, len(aired)),
		airedAlias: make([]string, len(aired)),
	}
	for i, p := range plan {
		idx.plan[i] = normalize.Token(p.Channel)
	}
	for i, u := range aired {
		idx.airedName[i] = normalize.Token(u.Channel)
		if target, ok := lookup.Lookup(u.Channel); ok {
			idx.airedAlias[i] = normalize.Token(target)
		}
	}
	return idx
}

// matches reports whether aired unit ui broadcasts on plan line pi's channel,
// directly or through the alias table.
func (c channelIndex) matches(pi, ui int) bool {
	p := c.plan[pi]
	if p == c.airedName[ui] {
		return true
	}
	alias := c.airedAlias[ui]
	return alias != "" && alias == p
}

// resolved returns the token an aired unit reports under: its alias target
// when one exists, else its own name.
func (c channelIndex) resolved(ui int) string {
	if c.airedAlias[ui] != "" {
		return c.airedAlias[ui]
	}
	return c.airedName[ui]
}
