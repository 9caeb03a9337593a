// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDurationList parses a comma-separated list of spot lengths in seconds
// (e.g. "10,35"). Duplicates are dropped, order is kept.
func ParseDurationList(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var out []int
	seen := map[int]struct{}{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(p), "s"))
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", p, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("duration must be > 0 (got %d)", v)
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// ParseList splits a comma-separated list, trimming and lower-casing items.
func ParseList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
