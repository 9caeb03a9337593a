// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package recon reconciles a television buy plan against the execution log
// of aired spots. Allocation is greedy and order dependent: plan lines are
// visited in an explicit order and each one claims capacity from the aired
// units of its date before the next line is considered.
package recon

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks records that violate the input contract.
var ErrInvalidInput = errors.New("invalid input")

// PlanLine is one ordered line item of the buy plan.
type PlanLine struct {
	Date             Date    `json:"date" yaml:"date"`
	Channel          string  `json:"channel" yaml:"channel"`
	Program          string  `json:"program" yaml:"program"`
	OrderedQuantity  int     `json:"ordered_quantity" yaml:"ordered_quantity"`
	DurationSeconds  int     `json:"duration_seconds" yaml:"duration_seconds"`
	Schedule         string  `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	SourceConfidence float64 `json:"source_confidence" yaml:"source_confidence"`
}

// AiredUnit is one execution log row standing for Quantity identical spots.
type AiredUnit struct {
	Date             Date    `json:"date" yaml:"date"`
	Channel          string  `json:"channel" yaml:"channel"`
	Title            string  `json:"title" yaml:"title"`
	GenreSlot        string  `json:"genre_slot" yaml:"genre_slot"`
	TimeRange        string  `json:"time_range" yaml:"time_range"`
	DurationSeconds  int     `json:"duration_seconds" yaml:"duration_seconds"`
	Quantity         int     `json:"quantity" yaml:"quantity"`
	SourceConfidence float64 `json:"source_confidence" yaml:"source_confidence"`
}

// Status is the delivery status of a reconciled plan line.
type Status string

const (
	StatusMatched Status = "matched"
	StatusUnder   Status = "under"
	StatusOver    Status = "over"
	StatusMissing Status = "missing"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusMatched, StatusUnder, StatusOver, StatusMissing}

// Reason explains why aired quantity was left unallocated.
type Reason string

const (
	ReasonExceededOrderQuantity Reason = "ExceededOrderQuantity"
	ReasonParseErrorBudget      Reason = "ParseErrorBudget"
	ReasonParseErrorInsertion   Reason = "ParseErrorInsertion"
	ReasonNoBudgetForDate       Reason = "NoBudgetForDate"
	ReasonNoBudgetForMedio      Reason = "NoBudgetForMedio"
	ReasonDurationMismatch      Reason = "DurationMismatch"
	ReasonOutsideSchedule       Reason = "OutsideSchedule"
	ReasonBudgetFull            Reason = "BudgetFull"
	ReasonNonStandardDuration   Reason = "NonStandardDuration"
)

// Reasons lists every reason code in diagnostic order.
var Reasons = []Reason{
	ReasonExceededOrderQuantity,
	ReasonParseErrorBudget,
	ReasonParseErrorInsertion,
	ReasonNoBudgetForDate,
	ReasonNoBudgetForMedio,
	ReasonDurationMismatch,
	ReasonOutsideSchedule,
	ReasonBudgetFull,
	ReasonNonStandardDuration,
}

// ReconciledLine is a plan line together with what was allocated to it.
type ReconciledLine struct {
	PlanLine
	MatchedSlots    []string `json:"matched_slots"`
	MatchedTitles   []string `json:"matched_titles"`
	TotalAllocated  int      `json:"total_allocated"`
	Difference      int      `json:"difference"`
	MatchConfidence int      `json:"match_confidence"`
	Status          Status   `json:"status"`
}

// OverflowUnit is the unallocated remainder of one standard aired unit.
type OverflowUnit struct {
	Date             Date   `json:"date"`
	Channel          string `json:"channel"`
	Title            string `json:"title"`
	GenreSlot        string `json:"genre_slot"`
	TimeRange        string `json:"time_range"`
	DurationSeconds  int    `json:"duration_seconds"`
	LeftoverQuantity int    `json:"leftover_quantity"`
	Reason           Reason `json:"reason"`
}

// NonStandardUnit is an aired unit whose duration is outside the allow-list.
type NonStandardUnit struct {
	AiredUnit
	Reason Reason `json:"reason"`
}

// Warning is a non-fatal condition attached to a result.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WarningAliasUnavailable is raised when channel aliases could not be resolved.
const WarningAliasUnavailable = "alias_unavailable"

// Result holds the three output collections and their summary.
type Result struct {
	Lines       []ReconciledLine  `json:"lines"`
	Overflow    []OverflowUnit    `json:"overflow"`
	NonStandard []NonStandardUnit `json:"non_standard"`
	Summary     Summary           `json:"summary"`
	Warnings    []Warning         `json:"warnings,omitempty"`
}

// Validate checks the quantity and confidence ranges of both pools.
func Validate(plan []PlanLine, aired []AiredUnit) error {
	var errs []error
	for i, p := range plan {
		if p.OrderedQuantity < 0 {
			errs = append(errs, fmt.Errorf("plan[%d]: ordered_quantity %d < 0", i, p.OrderedQuantity))
		}
		if p.SourceConfidence < 0 || p.SourceConfidence > 100 {
			errs = append(errs, fmt.Errorf("plan[%d]: source_confidence %v outside 0..100", i, p.SourceConfidence))
		}
	}
	for i, u := range aired {
		if u.Quantity < 1 {
			errs = append(errs, fmt.Errorf("aired[%d]: quantity %d < 1", i, u.Quantity))
		}
		if u.SourceConfidence < 0 || u.SourceConfidence > 100 {
			errs = append(errs, fmt.Errorf("aired[%d]: source_confidence %v outside 0..100", i, u.SourceConfidence))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
