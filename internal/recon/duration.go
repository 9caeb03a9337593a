// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

import (
	"errors"
	"fmt"
	"slices"
)

// ErrEmptyAllowList is returned when no standard duration is configured.
var ErrEmptyAllowList = errors.New("standard duration allow-list is empty")

// DefaultStandardDurations are the biddable spot lengths in seconds.
var DefaultStandardDurations = []int{10, 35}

// DurationSet is the allow-list of standard spot lengths.
type DurationSet struct {
	allowed map[int]struct{}
}

// NewDurationSet builds an allow-list. Values must be positive.
func NewDurationSet(seconds []int) (DurationSet, error) {
	if len(seconds) == 0 {
		return DurationSet{}, ErrEmptyAllowList
	}
	allowed := make(map[int]struct{}, len(seconds))
	for _, s := range seconds {
		if s <= 0 {
			return DurationSet{}, fmt.Errorf("standard duration %d must be positive", s)
		}
		allowed[s] = struct{}{}
	}
	return DurationSet{allowed: allowed}, nil
}

// Contains reports whether seconds is a standard duration.
func (d DurationSet) Contains(seconds int) bool {
	_, ok := d.allowed[seconds]
	return ok
}

// Values returns the allow-list in ascending order.
func (d DurationSet) Values() []int {
	out := make([]int, 0, len(d.allowed))
	for s := range d.allowed {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Classify splits aired units into standard and non-standard pools.
// Both keep the input order.
func Classify(units []AiredUnit, set DurationSet) (standard []AiredUnit, nonStandard []NonStandardUnit) {
	standard = make([]AiredUnit, 0, len(units))
	nonStandard = make([]NonStandardUnit, 0)
	for _, u := range units {
		if set.Contains(u.DurationSeconds) {
			standard = append(standard, u)
			continue
		}
		nonStandard = append(nonStandard, NonStandardUnit{AiredUnit: u, Reason: ReasonNonStandardDuration})
	}
	return standard, nonStandard
}
