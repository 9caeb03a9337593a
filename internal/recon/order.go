// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/ManuGH/spotrecon/internal/normalize"
)

// Order selects the traversal order of plan lines. Earlier lines get the
// first claim on scarce aired capacity.
type Order string

const (
	// OrderCanonical sorts by date, then channel, then program (stable).
	OrderCanonical Order = "canonical"
	// OrderAsGiven keeps the caller's order.
	OrderAsGiven Order = "as_given"
)

// ParseOrder maps user input to an Order. Empty selects OrderCanonical.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderCanonical:
		return OrderCanonical, nil
	case OrderAsGiven:
		return OrderAsGiven, nil
	default:
		return "", fmt.Errorf("unknown plan order %q", s)
	}
}

// Arrange returns plan in the traversal order; the input slice is not modified.
func (o Order) Arrange(plan []PlanLine) []PlanLine {
	out := slices.Clone(plan)
	if o == OrderAsGiven {
		return out
	}
	slices.SortStableFunc(out, func(a, b PlanLine) int {
		if a.Date != b.Date {
			if a.Date.Before(b.Date) {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(normalize.Token(a.Channel), normalize.Token(b.Channel)); c != 0 {
			return c
		}
		return cmp.Compare(normalize.Token(a.Program), normalize.Token(b.Program))
	})
	return out
}
