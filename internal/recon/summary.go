// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

import (
	"math"
	"slices"

	"github.com/ManuGH/spotrecon/internal/normalize"
)

// ConfidenceBucket groups plan lines by match confidence.
type ConfidenceBucket string

const (
	ConfidenceExcellent ConfidenceBucket = "excellent"
	ConfidenceGood      ConfidenceBucket = "good"
	ConfidenceWarning   ConfidenceBucket = "warning"
	ConfidenceCritical  ConfidenceBucket = "critical"
	ConfidenceNone      ConfidenceBucket = "none"
)

// BucketFor places a reconciled line in its confidence bucket.
func BucketFor(l ReconciledLine) ConfidenceBucket {
	switch {
	case l.TotalAllocated == 0:
		return ConfidenceNone
	case l.MatchConfidence >= 95:
		return ConfidenceExcellent
	case l.MatchConfidence >= 85:
		return ConfidenceGood
	case l.MatchConfidence >= 70:
		return ConfidenceWarning
	default:
		return ConfidenceCritical
	}
}

// ChannelBreakdown aggregates one plan-side channel.
type ChannelBreakdown struct {
	Channel       string `json:"channel"`
	Lines         int    `json:"lines"`
	Ordered       int    `json:"ordered"`
	Allocated     int    `json:"allocated"`
	Difference    int    `json:"difference"`
	OverflowSpots int    `json:"overflow_spots"`
}

// Summary is the roll-up of one result.
type Summary struct {
	PlanLines        int                      `json:"plan_lines"`
	AiredUnits       int                      `json:"aired_units"`
	TotalOrdered     int                      `json:"total_ordered"`
	TotalAllocated   int                      `json:"total_allocated"`
	TotalDifference  int                      `json:"total_difference"`
	DeliveryRate     float64                  `json:"delivery_rate"`
	ByStatus         map[Status]int           `json:"by_status"`
	ByConfidence     map[ConfidenceBucket]int `json:"by_confidence"`
	Channels         []ChannelBreakdown       `json:"channels"`
	OverflowSpots    int                      `json:"overflow_spots"`
	OverflowByReason map[Reason]int           `json:"overflow_by_reason"`
	NonStandardSpots int                      `json:"non_standard_spots"`
}

// DeliveryRate is allocated/ordered as a percentage with two decimals,
// or 100 when nothing was ordered.
func DeliveryRate(ordered, allocated int) float64 {
	if ordered <= 0 {
		return 100
	}
	return math.Round(float64(allocated)/float64(ordered)*10000) / 100
}

// Summarize reduces the three collections. overflowChannels, when non-nil,
// runs parallel to overflow and names the plan-side channel each unit is
// reported under.
func Summarize(lines []ReconciledLine, overflow []OverflowUnit, nonStandard []NonStandardUnit, overflowChannels []string) Summary {
	s := Summary{
		PlanLines:        len(lines),
		ByStatus:         make(map[Status]int, len(Statuses)),
		ByConfidence:     make(map[ConfidenceBucket]int),
		OverflowByReason: make(map[Reason]int),
		Channels:         make([]ChannelBreakdown, 0),
	}
	for _, st := range Statuses {
		s.ByStatus[st] = 0
	}

	byToken := make(map[string]int)
	channel := func(name string) *ChannelBreakdown {
		tok := normalize.Token(name)
		i, ok := byToken[tok]
		if !ok {
			i = len(s.Channels)
			byToken[tok] = i
			s.Channels = append(s.Channels, ChannelBreakdown{Channel: name})
		}
		return &s.Channels[i]
	}

	for _, l := range lines {
		s.TotalOrdered += l.OrderedQuantity
		s.TotalAllocated += l.TotalAllocated
		s.ByStatus[l.Status]++
		s.ByConfidence[BucketFor(l)]++

		c := channel(l.Channel)
		c.Lines++
		c.Ordered += l.OrderedQuantity
		c.Allocated += l.TotalAllocated
		c.Difference += l.Difference
	}
	for i, o := range overflow {
		s.OverflowSpots += o.LeftoverQuantity
		s.OverflowByReason[o.Reason] += o.LeftoverQuantity
		name := o.Channel
		if i < len(overflowChannels) && overflowChannels[i] != "" {
			name = overflowChannels[i]
		}
		channel(name).OverflowSpots += o.LeftoverQuantity
	}
	for _, n := range nonStandard {
		s.NonStandardSpots += n.Quantity
	}

	s.TotalDifference = s.TotalOrdered - s.TotalAllocated
	s.DeliveryRate = DeliveryRate(s.TotalOrdered, s.TotalAllocated)
	slices.SortStableFunc(s.Channels, func(a, b ChannelBreakdown) int {
		ta, tb := normalize.Token(a.Channel), normalize.Token(b.Channel)
		switch {
		case ta < tb:
			return -1
		case ta > tb:
			return 1
		}
		return 0
	})
	return s
}
