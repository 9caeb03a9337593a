// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package alias

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/ManuGH/spotrecon/internal/normalize"
)

var (
	suffixRE = regexp.MustCompile(`\s+(hd|uhd|4k|sd)$`)
	punctRE  = regexp.MustCompile(`[\-_.,/]+`)
	spaceRE  = regexp.MustCompile(`\s+`)
)

// NameKey reduces a channel name to its comparison key: folded, with
// punctuation as spaces, quality suffixes stripped and spaces collapsed.
func NameKey(name string) string {
	k := normalize.Token(name)
	k = punctRE.ReplaceAllString(k, " ")
	k = spaceRE.ReplaceAllString(strings.TrimSpace(k), " ")
	k = suffixRE.ReplaceAllString(k, "")
	return strings.TrimSpace(k)
}

// Fuzzy maps each aired channel to the closest plan channel by edit
// distance between name keys.
type Fuzzy struct {
	MaxDistance int
}

// Resolve implements Resolver. Aired names that already equal a plan name
// are left to direct matching.
func (f Fuzzy) Resolve(ctx context.Context, req Request) (Table, error) {
	keyToPlan := make(map[string]string, len(req.PlanChannels))
	direct := make(map[string]struct{}, len(req.PlanChannels))
	for _, p := range req.PlanChannels {
		direct[normalize.Token(p)] = struct{}{}
		k := NameKey(p)
		if _, ok := keyToPlan[k]; !ok && k != "" {
			keyToPlan[k] = p
		}
	}

	m := make(map[string]string)
	for _, aired := range req.AiredChannels {
		if err := ctx.Err(); err != nil {
			return Table{}, err
		}
		if _, ok := direct[normalize.Token(aired)]; ok {
			continue
		}
		if plan, ok := FindBest(aired, keyToPlan, f.MaxDistance); ok {
			m[aired] = plan
		}
	}
	return NewTable(m), nil
}

// FindBest returns the value of the key in keyToValue closest to name's key,
// if that key is within maxDist edits. Ties go to the lexically first key.
func FindBest(name string, keyToValue map[string]string, maxDist int) (string, bool) {
	key := NameKey(name)
	if key == "" {
		return "", false
	}
	if v, ok := keyToValue[key]; ok {
		return v, true
	}

	keys := make([]string, 0, len(keyToValue))
	for k := range keyToValue {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	best := ""
	bestDist := maxDist + 1
	for _, k := range keys {
		if d := levenshtein(key, k); d < bestDist {
			bestDist = d
			best = keyToValue[k]
		}
	}
	if bestDist <= maxDist {
		return best, true
	}
	return "", false
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
