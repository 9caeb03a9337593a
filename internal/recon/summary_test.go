// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, StatusMissing, DeriveStatus(5, 0))
	assert.Equal(t, StatusUnder, DeriveStatus(5, 3))
	assert.Equal(t, StatusOver, DeriveStatus(2, 3))
	assert.Equal(t, StatusMatched, DeriveStatus(5, 5))
	assert.Equal(t, StatusMissing, DeriveStatus(0, 0))
}

func TestMeanConfidence(t *testing.T) {
	assert.Equal(t, 0, MeanConfidence(0, 0))
	assert.Equal(t, 88, MeanConfidence(175, 2))
	assert.Equal(t, 87, MeanConfidence(174.8, 2))
}

func TestDeliveryRate(t *testing.T) {
	assert.Equal(t, 100.0, DeliveryRate(0, 0))
	assert.Equal(t, 66.67, DeliveryRate(3, 2))
	assert.Equal(t, 100.0, DeliveryRate(4, 4))
}

func TestBucketFor(t *testing.T) {
	assert.Equal(t, ConfidenceNone, BucketFor(ReconciledLine{MatchConfidence: 99}))
	assert.Equal(t, ConfidenceExcellent, BucketFor(ReconciledLine{TotalAllocated: 1, MatchConfidence: 95}))
	assert.Equal(t, ConfidenceGood, BucketFor(ReconciledLine{TotalAllocated: 1, MatchConfidence: 85}))
	assert.Equal(t, ConfidenceWarning, BucketFor(ReconciledLine{TotalAllocated: 1, MatchConfidence: 70}))
	assert.Equal(t, ConfidenceCritical, BucketFor(ReconciledLine{TotalAllocated: 1, MatchConfidence: 69}))
}

func TestSummarize(t *testing.T) {
	lines := []ReconciledLine{
		{PlanLine: PlanLine{Channel: "TVN", OrderedQuantity: 5}, TotalAllocated: 5, MatchConfidence: 97, Status: StatusMatched},
		{PlanLine: PlanLine{Channel: "tvn", OrderedQuantity: 4}, TotalAllocated: 1, Difference: 3, MatchConfidence: 80, Status: StatusUnder},
		{PlanLine: PlanLine{Channel: "RPC", OrderedQuantity: 2}, Difference: 2, Status: StatusMissing},
	}
	overflow := []OverflowUnit{
		{Channel: "Tvn-2", LeftoverQuantity: 2, Reason: ReasonExceededOrderQuantity},
		{Channel: "Canal 13", LeftoverQuantity: 1, Reason: ReasonNoBudgetForMedio},
	}
	nonStandard := []NonStandardUnit{{AiredUnit: AiredUnit{Quantity: 3}, Reason: ReasonNonStandardDuration}}

	s := Summarize(lines, overflow, nonStandard, []string{"TVN", ""})

	assert.Equal(t, 3, s.PlanLines)
	assert.Equal(t, 11, s.TotalOrdered)
	assert.Equal(t, 6, s.TotalAllocated)
	assert.Equal(t, 5, s.TotalDifference)
	assert.Equal(t, 54.55, s.DeliveryRate)
	assert.Equal(t, map[Status]int{StatusMatched: 1, StatusUnder: 1, StatusOver: 0, StatusMissing: 1}, s.ByStatus)
	assert.Equal(t, map[ConfidenceBucket]int{ConfidenceExcellent: 1, ConfidenceWarning: 1, ConfidenceNone: 1}, s.ByConfidence)
	assert.Equal(t, 3, s.OverflowSpots)
	assert.Equal(t, 3, s.NonStandardSpots)

	assert.Equal(t, []ChannelBreakdown{
		{Channel: "Canal 13", OverflowSpots: 1},
		{Channel: "RPC", Lines: 1, Ordered: 2, Difference: 2},
		{Channel: "TVN", Lines: 2, Ordered: 9, Allocated: 6, Difference: 3, OverflowSpots: 2},
	}, s.Channels)
}
