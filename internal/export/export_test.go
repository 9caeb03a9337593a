// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ManuGH/spotrecon/internal/recon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleResult() recon.Result {
	day := recon.NewDate(2024, 3, 1)
	return recon.Result{
		Lines: []recon.ReconciledLine{
			{
				PlanLine: recon.PlanLine{
					Date: day, Channel: "TVN", Program: "Noticiero",
					OrderedQuantity: 4, DurationSeconds: 30, Schedule: "6:00am-7:00am",
				},
				MatchedSlots:    []string{"News"},
				MatchedTitles:   []string{"Noticiero AM", "Noticiero Ed. 2"},
				TotalAllocated:  3,
				Difference:      1,
				MatchConfidence: 88,
				Status:          recon.StatusUnder,
			},
			{
				PlanLine: recon.PlanLine{
					Date: day, Channel: "Telemetro", Program: "Deportes",
					OrderedQuantity: 2, DurationSeconds: 10,
				},
				MatchedSlots:  []string{},
				MatchedTitles: []string{},
				Difference:    2,
				Status:        recon.StatusMissing,
			},
		},
		Overflow: []recon.OverflowUnit{{
			Date: day, Channel: "TVN-2", Title: "Noticiero AM", GenreSlot: "News",
			TimeRange: "6:15am-6:45am", DurationSeconds: 30, LeftoverQuantity: 2,
			Reason: recon.ReasonExceededOrderQuantity,
		}},
		NonStandard: []recon.NonStandardUnit{{
			AiredUnit: recon.AiredUnit{
				Date: day, Channel: "TVN", Title: "Promo", GenreSlot: "Filler",
				TimeRange: "8:00pm-8:05pm", DurationSeconds: 45, Quantity: 3,
			},
			Reason: recon.ReasonNonStandardDuration,
		}},
	}
}

func TestRowsColumnOrder(t *testing.T) {
	res := sampleResult()

	rec := RowsReconciled(res.Lines)
	require.Len(t, rec, 2)
	assert.Equal(t, []string{
		"2024-03-01", "TVN", "Noticiero", "6:00am-7:00am", "Noticiero AM, Noticiero Ed. 2",
		"30", "4", "3", "88", "under",
	}, rec[0])
	assert.Equal(t, []string{
		"2024-03-01", "Telemetro", "Deportes", "", "", "10", "2", "0", "0", "missing",
	}, rec[1])
	assert.Len(t, rec[0], len(ReconciledHeader))

	assert.Equal(t, [][]string{{
		"2024-03-01", "TVN-2", "Noticiero AM", "News", "6:15am-6:45am", "30", "2", "ExceededOrderQuantity",
	}}, RowsOverflow(res.Overflow))

	assert.Equal(t, [][]string{{
		"2024-03-01", "TVN", "Promo", "Filler", "8:00pm-8:05pm", "45", "3", "NonStandardDuration",
	}}, RowsNonStandard(res.NonStandard))
}

func TestRowsEmpty(t *testing.T) {
	assert.Empty(t, RowsReconciled(nil))
	assert.NotNil(t, RowsOverflow(nil))
}

func TestEncodeWorkbook(t *testing.T) {
	res := sampleResult()

	var buf bytes.Buffer
	require.NoError(t, EncodeWorkbook(&buf, res))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, []string{SheetReconciled, SheetOverflow, SheetNonStandard}, f.GetSheetList())

	got, err := f.GetRows(SheetReconciled)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, ReconciledHeader, got[0])
	assert.Equal(t, RowsReconciled(res.Lines)[0], got[1])

	got, err = f.GetRows(SheetOverflow)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, UnitHeader, got[0])
	assert.Equal(t, RowsOverflow(res.Overflow)[0], got[1])

	got, err = f.GetRows(SheetNonStandard)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, RowsNonStandard(res.NonStandard)[0], got[1])
}

func TestWriteWorkbookEmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(context.Background(), path, recon.Result{}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	for _, sheet := range []string{SheetReconciled, SheetOverflow, SheetNonStandard} {
		rows, err := f.GetRows(sheet)
		require.NoError(t, err)
		assert.Len(t, rows, 1, sheet)
	}
}

func TestWriteJSONReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o600))

	run := recon.Run{
		ID:         "run-1",
		StartedAt:  time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2024, 3, 31, 12, 0, 1, 0, time.UTC),
		Result:     sampleResult(),
	}
	require.NoError(t, WriteJSON(context.Background(), path, run))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded recon.Run
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded.ID)
	assert.Equal(t, run.Result.Lines, decoded.Result.Lines)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no pending files left behind")
}

func TestWriteJSONMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.json")
	err := WriteJSON(context.Background(), path, recon.Run{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create pending json report file")
}
