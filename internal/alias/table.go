// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package alias maps execution-log channel names to buy-plan channel names.
package alias

import (
	"context"
	"errors"
	"slices"

	"github.com/ManuGH/spotrecon/internal/normalize"
)

// ErrUnavailable is returned when no alias source could answer.
var ErrUnavailable = errors.New("alias service unavailable")

// Request carries the distinct channel names observed in both pools.
type Request struct {
	PlanChannels  []string `json:"plan_channels"`
	AiredChannels []string `json:"aired_channels"`
}

// Resolver produces an alias table for a request.
type Resolver interface {
	Resolve(ctx context.Context, req Request) (Table, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, req Request) (Table, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(ctx context.Context, req Request) (Table, error) {
	return f(ctx, req)
}

type entry struct {
	aired string
	plan  string
}

// Table is an immutable aired -> plan channel mapping with case-insensitive keys.
type Table struct {
	entries map[string]entry
}

// NewTable builds a table. Blank names are dropped; for keys that fold to
// the same token the lexically first aired spelling wins.
func NewTable(m map[string]string) Table {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	t := Table{entries: make(map[string]entry, len(m))}
	for _, aired := range keys {
		plan := m[aired]
		tok := normalize.Token(aired)
		if tok == "" || normalize.Token(plan) == "" {
			continue
		}
		if _, ok := t.entries[tok]; ok {
			continue
		}
		t.entries[tok] = entry{aired: aired, plan: plan}
	}
	return t
}

// Lookup returns the plan-side channel for an aired-side name.
func (t Table) Lookup(aired string) (string, bool) {
	e, ok := t.entries[normalize.Token(aired)]
	if !ok {
		return "", false
	}
	return e.plan, true
}

// Len returns the number of entries.
func (t Table) Len() int { return len(t.entries) }

// Map returns a copy keyed by the aired spelling the entry was built from.
func (t Table) Map() map[string]string {
	out := make(map[string]string, len(t.entries))
	for _, e := range t.entries {
		out[e.aired] = e.plan
	}
	return out
}

// Merge returns t extended with the entries of other that t lacks.
func (t Table) Merge(other Table) Table {
	out := Table{entries: make(map[string]entry, len(t.entries)+len(other.entries))}
	for k, e := range t.entries {
		out.entries[k] = e
	}
	for k, e := range other.entries {
		if _, ok := out.entries[k]; !ok {
			out.entries[k] = e
		}
	}
	return out
}
