package workbook

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet flattened to header-keyed rows. Headers preserves the
// original column order (row 1); Rows holds one map per data row, with absent
// cells simply missing from the map.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []map[string]string
}

// WriteSheet is the export-side counterpart. Cell values go through
// excelize.SetCellValue, so numbers stay numeric cells.
type WriteSheet struct {
	Name    string
	Headers []string
	Rows    []map[string]any
}

// Read decodes workbook bytes into header-keyed sheets.
func Read(r io.Reader) ([]Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		sheets = append(sheets, flatten(name, rows))
	}
	return sheets, nil
}

func flatten(name string, rows [][]string) Sheet {
	sheet := Sheet{Name: name}
	if len(rows) == 0 {
		return sheet
	}

	for _, header := range rows[0] {
		sheet.Headers = append(sheet.Headers, strings.TrimSpace(header))
	}

	for _, raw := range rows[1:] {
		row := make(map[string]string, len(sheet.Headers))
		for col, header := range sheet.Headers {
			if header == "" || col >= len(raw) {
				continue
			}
			if value := strings.TrimSpace(raw[col]); value != "" {
				row[header] = value
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet
}

// Write renders one worksheet per sheet, headers in row 1, data from row 2.
func Write(sheets []WriteSheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		name := sanitizeSheetName(sheet.Name)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return nil, fmt.Errorf("rename sheet %q: %w", name, err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("create sheet %q: %w", name, err)
			}
		}

		for col, header := range sheet.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(name, cell, header); err != nil {
				return nil, err
			}
		}

		for rowIdx, row := range sheet.Rows {
			for col, header := range sheet.Headers {
				value, ok := row[header]
				if !ok || value == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
				if err != nil {
					return nil, err
				}
				if err := f.SetCellValue(name, cell, value); err != nil {
					return nil, err
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Worksheet names cap at 31 chars and reject a handful of runes.
func sanitizeSheetName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Sheet"
	}
	replacer := strings.NewReplacer("[", "-", "]", "-", ":", "-", "*", "-", "?", "-", "/", "-", "\\", "-")
	name = replacer.Replace(name)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
