// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Input is one reconciliation request.
type Input struct {
	Plan  []PlanLine  `json:"plan"`
	Aired []AiredUnit `json:"aired"`
	Scope Scope       `json:"scope"`
	// PlanOrder defaults to OrderCanonical. Aired units always keep
	// ingestion order.
	PlanOrder Order `json:"plan_order,omitempty"`
	// StandardDurations overrides the engine's allow-list when non-empty.
	StandardDurations []int `json:"standard_durations,omitempty"`
}

// Reconcile runs scope filtering, duration classification, matching,
// diagnostics and assembly with a fixed alias table. lookup may be nil,
// in which case channels only match directly.
func Reconcile(in Input, lookup ChannelLookup) (Result, error) {
	if err := Validate(in.Plan, in.Aired); err != nil {
		return Result{}, err
	}
	durations := in.StandardDurations
	if len(durations) == 0 {
		durations = DefaultStandardDurations
	}
	set, err := NewDurationSet(durations)
	if err != nil {
		return Result{}, err
	}
	if _, err := ParseOrder(string(in.PlanOrder)); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	plan, aired := in.Scope.FilterDates(in.Plan, in.Aired)
	return reconcileScoped(in, plan, aired, set, lookup, zerolog.Nop()), nil
}

// reconcileScoped continues from date-scoped pools.
func reconcileScoped(in Input, plan []PlanLine, aired []AiredUnit, set DurationSet, lookup ChannelLookup, logger zerolog.Logger) Result {
	if lookup == nil {
		lookup = noAliases{}
	}
	plan, aired = in.Scope.FilterChannels(plan, aired, lookup)
	standard, nonStandard := Classify(aired, set)
	plan = in.PlanOrder.Arrange(plan)

	r := newRun(plan, standard, lookup, logger)
	r.match()

	lines := r.lines()
	overflow, overflowChannels := r.overflow()
	summary := Summarize(lines, overflow, nonStandard, overflowChannels)
	summary.AiredUnits = len(aired)

	return Result{
		Lines:       lines,
		Overflow:    overflow,
		NonStandard: nonStandard,
		Summary:     summary,
	}
}
