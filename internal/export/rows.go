// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package export shapes reconciliation results into tables and writes them
// as an XLSX workbook or a JSON report.
package export

import (
	"fmt"
	"strings"

	"github.com/ManuGH/spotrecon/internal/recon"
)

// Column headers, in output order.
var (
	ReconciledHeader = []string{
		"Date", "Channel", "Program", "Schedule", "Matched Title(s)",
		"Duration", "Ordered Quantity", "Allocated Quantity", "Confidence", "Status",
	}
	UnitHeader = []string{
		"Date", "Channel", "Title", "Genre-Slot", "Time Range",
		"Duration", "Leftover Quantity", "Reason",
	}
)

const titleSeparator = ", "

func reconciledCells(l recon.ReconciledLine) []any {
	return []any{
		l.Date.String(),
		l.Channel,
		l.Program,
		l.Schedule,
		strings.Join(l.MatchedTitles, titleSeparator),
		l.DurationSeconds,
		l.OrderedQuantity,
		l.TotalAllocated,
		l.MatchConfidence,
		string(l.Status),
	}
}

func overflowCells(o recon.OverflowUnit) []any {
	return []any{
		o.Date.String(),
		o.Channel,
		o.Title,
		o.GenreSlot,
		o.TimeRange,
		o.DurationSeconds,
		o.LeftoverQuantity,
		string(o.Reason),
	}
}

// Non-standard units are never allocated, so the whole quantity is leftover.
func nonStandardCells(n recon.NonStandardUnit) []any {
	return []any{
		n.Date.String(),
		n.Channel,
		n.Title,
		n.GenreSlot,
		n.TimeRange,
		n.DurationSeconds,
		n.Quantity,
		string(n.Reason),
	}
}

// RowsReconciled renders reconciled lines in ReconciledHeader order.
func RowsReconciled(lines []recon.ReconciledLine) [][]string {
	return rows(lines, reconciledCells)
}

// RowsOverflow renders overflow units in UnitHeader order.
func RowsOverflow(units []recon.OverflowUnit) [][]string {
	return rows(units, overflowCells)
}

// RowsNonStandard renders non-standard units in UnitHeader order.
func RowsNonStandard(units []recon.NonStandardUnit) [][]string {
	return rows(units, nonStandardCells)
}

func rows[T any](items []T, cells func(T) []any) [][]string {
	out := make([][]string, len(items))
	for i, it := range items {
		c := cells(it)
		row := make([]string, len(c))
		for j, v := range c {
			row[j] = fmt.Sprint(v)
		}
		out[i] = row
	}
	return out
}
