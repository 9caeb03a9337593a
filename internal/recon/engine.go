// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

import (
	"context"
	"fmt"
	"slices"

	"github.com/ManuGH/spotrecon/internal/alias"
	xglog "github.com/ManuGH/spotrecon/internal/log"
	"github.com/ManuGH/spotrecon/internal/metrics"
	"github.com/ManuGH/spotrecon/internal/normalize"
	"github.com/ManuGH/spotrecon/internal/telemetry"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Engine runs reconciliations. It holds no state between runs.
type Engine struct {
	aliases   alias.Resolver
	durations DurationSet
	tracer    trace.Tracer
}

// EngineOption configures an Engine.
type EngineOption func(*Engine) error

// WithStandardDurations replaces DefaultStandardDurations.
func WithStandardDurations(seconds []int) EngineOption {
	return func(e *Engine) error {
		set, err := NewDurationSet(seconds)
		if err != nil {
			return err
		}
		e.durations = set
		return nil
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) EngineOption {
	return func(e *Engine) error {
		e.tracer = t
		return nil
	}
}

// NewEngine returns an engine. resolver may be nil, in which case channels
// only match directly.
func NewEngine(resolver alias.Resolver, opts ...EngineOption) (*Engine, error) {
	set, err := NewDurationSet(DefaultStandardDurations)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		aliases:   resolver,
		durations: set,
		tracer:    telemetry.Tracer("spotrecon/recon"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// StandardDurations returns the engine's allow-list.
func (e *Engine) StandardDurations() []int { return e.durations.Values() }

// Run reconciles in. The only suspension point is the alias resolution,
// which degrades to direct matching with a warning on failure. Run returns
// an error only for invalid input or a cancelled context.
func (e *Engine) Run(ctx context.Context, in Input) (Result, error) {
	logger := xglog.WithComponentFromContext(ctx, "recon")

	ctx, span := e.tracer.Start(ctx, "recon.run",
		trace.WithAttributes(telemetry.RunAttributes(xglog.RunIDFromContext(ctx), len(in.Plan), len(in.Aired), string(in.PlanOrder))...))
	defer span.End()

	fail := func(err error, kind string) (Result, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(telemetry.ErrorAttributes(err, kind)...)
		return Result{}, err
	}

	if err := ctx.Err(); err != nil {
		return fail(err, "cancelled")
	}
	if err := Validate(in.Plan, in.Aired); err != nil {
		return fail(err, "invalid_input")
	}
	set := e.durations
	if len(in.StandardDurations) > 0 {
		s, err := NewDurationSet(in.StandardDurations)
		if err != nil {
			return fail(fmt.Errorf("%w: %w", ErrInvalidInput, err), "invalid_input")
		}
		set = s
	}
	if _, err := ParseOrder(string(in.PlanOrder)); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrInvalidInput, err), "invalid_input")
	}

	plan, aired := in.Scope.FilterDates(in.Plan, in.Aired)

	table, warnings := e.resolveAliases(ctx, plan, aired)
	if err := ctx.Err(); err != nil {
		return fail(err, "cancelled")
	}

	_, matchSpan := e.tracer.Start(ctx, "recon.match")
	res := reconcileScoped(in, plan, aired, set, table, logger)
	matchSpan.End()
	res.Warnings = warnings

	span.SetAttributes(telemetry.OutcomeAttributes(
		res.Summary.TotalOrdered, res.Summary.TotalAllocated,
		res.Summary.OverflowSpots, res.Summary.NonStandardSpots)...)

	logger.Info().
		Str(xglog.FieldEvent, "recon.completed").
		Int(xglog.FieldPlanLines, len(res.Lines)).
		Int(xglog.FieldAiredUnits, res.Summary.AiredUnits).
		Int(xglog.FieldNonStandard, len(res.NonStandard)).
		Int(xglog.FieldOverflowUnits, len(res.Overflow)).
		Int(xglog.FieldOrdered, res.Summary.TotalOrdered).
		Int(xglog.FieldAllocated, res.Summary.TotalAllocated).
		Int(xglog.FieldAliasCount, table.Len()).
		Msg("reconciliation completed")

	return res, nil
}

// resolveAliases asks the resolver once with the distinct channel names of
// the date-scoped pools.
func (e *Engine) resolveAliases(ctx context.Context, plan []PlanLine, aired []AiredUnit) (alias.Table, []Warning) {
	if e.aliases == nil {
		return alias.NewTable(nil), nil
	}
	ctx, span := e.tracer.Start(ctx, "recon.alias")
	defer span.End()
	logger := xglog.WithComponentFromContext(ctx, "recon")

	req := alias.Request{
		PlanChannels:  distinct(len(plan), func(i int) string { return plan[i].Channel }),
		AiredChannels: distinct(len(aired), func(i int) string { return aired[i].Channel }),
	}
	table, err := e.aliases.Resolve(ctx, req)
	if err != nil {
		metrics.IncAliasResolution("engine", "fallback")
		span.RecordError(err)
		span.SetAttributes(telemetry.AliasAttributes("engine", 0, true)...)
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "recon.alias_fallback").
			Msg("alias service unavailable, results computed with direct matching only")
		return alias.NewTable(nil), []Warning{{
			Code:    WarningAliasUnavailable,
			Message: "alias service unavailable, results computed with direct matching only",
		}}
	}
	metrics.RecordAliasEntries(table.Len())
	span.SetAttributes(telemetry.AliasAttributes("engine", table.Len(), false)...)
	return table, nil
}

// distinct returns the distinct names (after normalisation) in first-seen
// spelling, sorted for a stable request.
func distinct(n int, at func(int) string) []string {
	seen := make(map[string]struct{}, n)
	out := make([]string, 0)
	for i := 0; i < n; i++ {
		name := at(i)
		tok := normalize.Token(name)
		if tok == "" {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
