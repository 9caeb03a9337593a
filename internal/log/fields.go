// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService   = "service"
	FieldVersion   = "version"
	FieldComponent = "component"
	FieldEvent     = "event"
	FieldRequestID = "request_id"
	FieldRunID     = "run_id"

	// Reconciliation fields
	FieldPlanLines     = "plan_lines"
	FieldAiredUnits    = "aired_units"
	FieldNonStandard   = "non_standard_units"
	FieldOverflowUnits = "overflow_units"
	FieldAllocated     = "allocated"
	FieldOrdered       = "ordered"
	FieldChannel       = "channel"
	FieldAliasSource   = "alias_source"
	FieldAliasCount    = "alias_count"

	// HTTP fields
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldDurationMS = "duration_ms"
	FieldRemoteAddr = "remote_addr"
)
