// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by spans across the service.
const (
	// Run attributes
	RunIDKey         = "recon.run_id"
	RunPlanLinesKey  = "recon.plan_lines"
	RunAiredUnitsKey = "recon.aired_units"
	RunPlanOrderKey  = "recon.plan_order"

	// Outcome attributes
	OutcomeAllocatedKey   = "recon.allocated"
	OutcomeOrderedKey     = "recon.ordered"
	OutcomeOverflowKey    = "recon.overflow_spots"
	OutcomeNonStandardKey = "recon.non_standard_spots"

	// Alias attributes
	AliasSourceKey   = "alias.source"
	AliasEntriesKey  = "alias.entries"
	AliasFallbackKey = "alias.fallback"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// RunAttributes describes the inputs of a reconciliation run.
func RunAttributes(runID string, planLines, airedUnits int, order string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 4)
	if runID != "" {
		attrs = append(attrs, attribute.String(RunIDKey, runID))
	}
	attrs = append(attrs,
		attribute.Int(RunPlanLinesKey, planLines),
		attribute.Int(RunAiredUnitsKey, airedUnits),
	)
	if order != "" {
		attrs = append(attrs, attribute.String(RunPlanOrderKey, order))
	}
	return attrs
}

// OutcomeAttributes describes the totals of a finished run.
func OutcomeAttributes(ordered, allocated, overflow, nonStandard int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(OutcomeOrderedKey, ordered),
		attribute.Int(OutcomeAllocatedKey, allocated),
		attribute.Int(OutcomeOverflowKey, overflow),
		attribute.Int(OutcomeNonStandardKey, nonStandard),
	}
}

// AliasAttributes describes an alias resolution.
func AliasAttributes(source string, entries int, fallback bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(AliasSourceKey, source),
		attribute.Int(AliasEntriesKey, entries),
		attribute.Bool(AliasFallbackKey, fallback),
	}
}

// ErrorAttributes marks a span as failed with a coarse error type.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
