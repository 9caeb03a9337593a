// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ManuGH/spotrecon/internal/alias"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineUsesResolvedAliases(t *testing.T) {
	var got alias.Request
	resolver := alias.ResolverFunc(func(_ context.Context, req alias.Request) (alias.Table, error) {
		got = req
		return alias.NewTable(map[string]string{"TVN-2": "TVN"}), nil
	})
	engine, err := NewEngine(resolver, WithStandardDurations([]int{30}))
	require.NoError(t, err)

	aired := scenarioAired(3)
	aired.Channel = "TVN-2"
	late := scenarioAired(1)
	late.Date = NewDate(2025, time.March, 1)
	late.Channel = "Outside Scope"

	res, err := engine.Run(context.Background(), Input{
		Plan:  []PlanLine{scenarioPlan(), scenarioPlan()},
		Aired: []AiredUnit{aired, late},
		Scope: Scope{To: NewDate(2025, time.January, 31)},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"TVN"}, got.PlanChannels)
	assert.Equal(t, []string{"TVN-2"}, got.AiredChannels, "only date-scoped names are sent")
	assert.Equal(t, 3, res.Summary.TotalAllocated)
	assert.Empty(t, res.Warnings)
}

func TestEngineFallsBackWhenAliasesFail(t *testing.T) {
	resolver := alias.ResolverFunc(func(context.Context, alias.Request) (alias.Table, error) {
		return alias.Table{}, alias.ErrUnavailable
	})
	engine, err := NewEngine(resolver, WithStandardDurations([]int{30}))
	require.NoError(t, err)

	direct := scenarioAired(2)
	variant := scenarioAired(1)
	variant.Channel = "Tvn-2"

	res, err := engine.Run(context.Background(), Input{
		Plan:  []PlanLine{scenarioPlan()},
		Aired: []AiredUnit{direct, variant},
	})
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarningAliasUnavailable, res.Warnings[0].Code)
	assert.Equal(t, 2, res.Lines[0].TotalAllocated)
	require.Len(t, res.Overflow, 1)
	assert.Equal(t, ReasonNoBudgetForMedio, res.Overflow[0].Reason)
}

func TestEngineWithoutResolverMatchesDirectly(t *testing.T) {
	engine, err := NewEngine(nil)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 35}, engine.StandardDurations())

	plan := scenarioPlan()
	plan.DurationSeconds = 35
	aired := scenarioAired(5)
	aired.DurationSeconds = 35
	aired.Channel = "tvn"

	res, err := engine.Run(context.Background(), Input{Plan: []PlanLine{plan}, Aired: []AiredUnit{aired}})
	require.NoError(t, err)
	assert.Equal(t, StatusMatched, res.Lines[0].Status)
	assert.Empty(t, res.Warnings)
}

func TestEngineMatchesPureReconcile(t *testing.T) {
	engine, err := NewEngine(alias.ResolverFunc(func(context.Context, alias.Request) (alias.Table, error) {
		return alias.NewTable(map[string]string{"Tvn-2": "TVN"}), nil
	}))
	require.NoError(t, err)

	in := randomInput(newTestRand(3))
	fromEngine, err := engine.Run(context.Background(), in)
	require.NoError(t, err)
	pure, err := Reconcile(in, alias.NewTable(map[string]string{"Tvn-2": "TVN"}))
	require.NoError(t, err)

	assert.Equal(t, pure, fromEngine)
}

func TestEngineRejectsBadOptionsAndInput(t *testing.T) {
	_, err := NewEngine(nil, WithStandardDurations(nil))
	assert.ErrorIs(t, err, ErrEmptyAllowList)

	engine, err := NewEngine(nil)
	require.NoError(t, err)

	_, err = engine.Run(context.Background(), Input{Aired: []AiredUnit{{Quantity: 0}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.Run(context.Background(), Input{StandardDurations: []int{0}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Run(ctx, Input{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunnerPublishesLatest(t *testing.T) {
	engine, err := NewEngine(nil, WithStandardDurations([]int{30}))
	require.NoError(t, err)
	runner := NewRunner(engine)
	assert.Nil(t, runner.Latest())

	run, err := runner.Submit(context.Background(), Input{
		Plan:  []PlanLine{scenarioPlan()},
		Aired: []AiredUnit{scenarioAired(3)},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))
	assert.Equal(t, 3, run.Result.Summary.TotalAllocated)
	assert.Same(t, run, runner.Latest())

	again, err := runner.Submit(context.Background(), Input{})
	require.NoError(t, err)
	assert.NotEqual(t, run.ID, again.ID)
	assert.Same(t, again, runner.Latest())
}

func TestRunnerNewerRunSupersedesOlder(t *testing.T) {
	var calls atomic.Int32
	firstStarted := make(chan struct{})
	resolver := alias.ResolverFunc(func(ctx context.Context, _ alias.Request) (alias.Table, error) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			<-ctx.Done()
			return alias.Table{}, ctx.Err()
		}
		return alias.NewTable(nil), nil
	})
	engine, err := NewEngine(resolver, WithStandardDurations([]int{30}))
	require.NoError(t, err)
	runner := NewRunner(engine)

	in := Input{Plan: []PlanLine{scenarioPlan()}, Aired: []AiredUnit{scenarioAired(1)}}

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = runner.Submit(context.Background(), in)
	}()

	select {
	case <-firstStarted:
	case <-time.After(5 * time.Second):
		t.Fatal("first run never reached alias resolution")
	}

	second, err := runner.Submit(context.Background(), in)
	require.NoError(t, err)
	wg.Wait()

	assert.True(t, errors.Is(firstErr, ErrSuperseded), "got %v", firstErr)
	assert.Same(t, second, runner.Latest())
}

func TestRunnerReportsFailure(t *testing.T) {
	engine, err := NewEngine(nil)
	require.NoError(t, err)
	runner := NewRunner(engine)

	_, err = runner.Submit(context.Background(), Input{Plan: []PlanLine{{OrderedQuantity: -1}}})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, runner.Latest())
}
