package exporter

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SheetName is the only sheet of an export workbook.
const SheetName = "Prediccion"

// EncodeWorkbook serialises rec as a single-sheet XLSX document.
func EncodeWorkbook(rec Record) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for i, row := range rec {
		if row.IsBlank() {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, cell, &[]any{row[0], row[1]}); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(SheetName, "A", "A", 32); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SheetName, "B", "B", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeWorkbook reads the rows of an export back. Short rows are padded to
// two cells.
func DecodeWorkbook(data []byte) (Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", SheetName, err)
	}
	rec := make(Record, 0, len(rows))
	for _, cols := range rows {
		var r Row
		copy(r[:], cols)
		rec = append(rec, r)
	}
	return rec, nil
}
