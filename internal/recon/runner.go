// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package recon

import (
	"context"
	"errors"
	"sync"
	"time"

	xglog "github.com/ManuGH/spotrecon/internal/log"
	"github.com/ManuGH/spotrecon/internal/metrics"
	"github.com/google/uuid"
)

// ErrSuperseded is returned to a run that was overtaken by a newer one.
var ErrSuperseded = errors.New("run superseded by a newer run")

// Run is a completed reconciliation.
type Run struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Result     Result    `json:"result"`
}

// Runner serialises publication of runs: submitting a run cancels the one
// in flight and only the newest submission may publish its result.
type Runner struct {
	engine *Engine
	now    func() time.Time

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	latest *Run
}

// NewRunner wraps engine.
func NewRunner(engine *Engine) *Runner {
	return &Runner{engine: engine, now: time.Now}
}

// Submit runs in and publishes the result unless a newer submission
// arrived meanwhile, in which case it returns ErrSuperseded.
func (r *Runner) Submit(ctx context.Context, in Input) (*Run, error) {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	if r.cancel != nil {
		r.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.mu.Unlock()
	defer cancel()

	id := uuid.NewString()
	runCtx = xglog.ContextWithRunID(runCtx, id)
	logger := xglog.WithComponentFromContext(runCtx, "runner")

	started := r.now()
	res, err := r.engine.Run(runCtx, in)
	finished := r.now()
	metrics.ObserveRunDuration(finished.Sub(started))

	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.seq {
		metrics.IncRun("superseded")
		logger.Info().Str(xglog.FieldEvent, "recon.superseded").Msg("run superseded by a newer run")
		return nil, ErrSuperseded
	}
	r.cancel = nil

	if err != nil {
		outcome := "failed"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = "cancelled"
		}
		metrics.IncRun(outcome)
		logger.Warn().Err(err).Str(xglog.FieldEvent, "recon.failed").Msg("run did not complete")
		return nil, err
	}

	run := &Run{ID: id, StartedAt: started, FinishedAt: finished, Result: res}
	r.latest = run
	metrics.IncRun("completed")
	publish(res.Summary)
	return run, nil
}

// Latest returns the newest published run, or nil.
func (r *Runner) Latest() *Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest
}

func publish(s Summary) {
	byStatus := make(map[string]int, len(s.ByStatus))
	for st, n := range s.ByStatus {
		byStatus[string(st)] = n
	}
	byReason := make(map[string]int, len(s.OverflowByReason))
	for reason, n := range s.OverflowByReason {
		byReason[string(reason)] = n
	}
	metrics.RecordPlanStatus(byStatus)
	metrics.RecordSpots(s.TotalOrdered, s.TotalAllocated, s.NonStandardSpots)
	metrics.RecordOverflow(byReason)
}
