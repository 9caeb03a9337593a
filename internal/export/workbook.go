// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package export

import (
	"context"
	"fmt"
	"io"

	"github.com/ManuGH/spotrecon/internal/recon"
	"github.com/xuri/excelize/v2"
)

// Worksheet names.
const (
	SheetReconciled  = "Reconciled"
	SheetOverflow    = "Overflow"
	SheetNonStandard = "NonStandard"
)

// WorkbookContentType is the MIME type of EncodeWorkbook output.
const WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteWorkbook atomically writes res to path as an XLSX workbook with one
// worksheet per collection.
func WriteWorkbook(ctx context.Context, path string, res recon.Result) error {
	return writeAtomic(ctx, path, "workbook", func(w io.Writer) error {
		return EncodeWorkbook(w, res)
	})
}

// EncodeWorkbook streams res as an XLSX workbook.
func EncodeWorkbook(w io.Writer, res recon.Result) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	// NewFile starts with a default sheet; rename it instead of leaving it empty.
	if err := f.SetSheetName(f.GetSheetName(0), SheetReconciled); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	if err := fillSheet(f, SheetReconciled, ReconciledHeader, res.Lines, reconciledCells); err != nil {
		return err
	}
	if err := addSheet(f, SheetOverflow, UnitHeader, res.Overflow, overflowCells); err != nil {
		return err
	}
	if err := addSheet(f, SheetNonStandard, UnitHeader, res.NonStandard, nonStandardCells); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	return nil
}

func addSheet[T any](f *excelize.File, sheet string, header []string, items []T, cells func(T) []any) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	return fillSheet(f, sheet, header, items, cells)
}

func fillSheet[T any](f *excelize.File, sheet string, header []string, items []T, cells func(T) []any) error {
	head := make([]any, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	for i, it := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := cells(it)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("%s freeze header: %w", sheet, err)
	}
	return nil
}
