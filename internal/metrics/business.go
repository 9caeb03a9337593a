// SPDX-License-Identifier: MIT
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Run metrics
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spotrecon_runs_total",
		Help: "Reconciliation runs by outcome",
	}, []string{"outcome"}) // outcome=completed|superseded|cancelled|failed

	runDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "spotrecon_run_duration_seconds",
		Help:    "Wall time of a reconciliation run including alias resolution",
		Buckets: prometheus.DefBuckets,
	})

	// Last completed run
	planLinesByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "spotrecon_plan_lines",
		Help: "Plan lines per delivery status in the last completed run",
	}, []string{"status"}) // status=matched|under|over|missing

	spotsOrdered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spotrecon_spots_ordered",
		Help: "Ordered spot quantity in the last completed run",
	})

	spotsAllocated = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spotrecon_spots_allocated",
		Help: "Aired spot quantity attributed to plan lines in the last completed run",
	})

	spotsNonStandard = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spotrecon_spots_non_standard",
		Help: "Aired spot quantity excluded for non-standard duration in the last completed run",
	})

	overflowSpots = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "spotrecon_overflow_spots",
		Help: "Unattributed aired spot quantity by reason in the last completed run",
	}, []string{"reason"})

	// Alias metrics
	aliasResolutionTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spotrecon_alias_resolution_total",
		Help: "Channel alias resolution attempts by source and outcome",
	}, []string{"source", "outcome"}) // outcome=success|failure|fallback

	aliasEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "spotrecon_alias_entries",
		Help: "Number of alias entries used by the last run",
	})

	aliasReloadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spotrecon_alias_file_reload_total",
		Help: "Static alias file reloads by outcome",
	}, []string{"outcome"})
)

// IncRun records the outcome of a run.
func IncRun(outcome string) { runsTotal.WithLabelValues(outcome).Inc() }

// ObserveRunDuration records the wall time of a run.
func ObserveRunDuration(d time.Duration) { runDurationSeconds.Observe(d.Seconds()) }

// RecordPlanStatus sets the plan line gauges for the last completed run.
func RecordPlanStatus(byStatus map[string]int) {
	for _, s := range []string{"matched", "under", "over", "missing"} {
		planLinesByStatus.WithLabelValues(s).Set(float64(byStatus[s]))
	}
}

// RecordSpots sets the spot quantity gauges for the last completed run.
func RecordSpots(ordered, allocated, nonStandard int) {
	spotsOrdered.Set(float64(ordered))
	spotsAllocated.Set(float64(allocated))
	spotsNonStandard.Set(float64(nonStandard))
}

// RecordOverflow replaces the overflow gauges with the given per-reason quantities.
func RecordOverflow(byReason map[string]int) {
	overflowSpots.Reset()
	for reason, qty := range byReason {
		overflowSpots.WithLabelValues(reason).Set(float64(qty))
	}
}

// IncAliasResolution records one resolution attempt.
func IncAliasResolution(source, outcome string) {
	aliasResolutionTotal.WithLabelValues(source, outcome).Inc()
}

// RecordAliasEntries sets the alias table size of the last run.
func RecordAliasEntries(n int) { aliasEntries.Set(float64(n)) }

// IncAliasReload records a static alias file reload.
func IncAliasReload(outcome string) { aliasReloadTotal.WithLabelValues(outcome).Inc() }
