// internal/spreadsheet/codec.go

// Package spreadsheet converts between xlsx workbooks and ordered rows of
// string or numeric cells. Only the first worksheet is read; the first row
// is the header.
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the workbooks produced by Encode.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Row maps a header label to a cell value. Values are string or float64.
type Row map[string]any

// Table is an ordered set of rows sharing one header.
type Table struct {
	Columns []string
	Rows    []Row
}

// DecodeError reports bytes that are not a readable workbook.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("spreadsheet: decode: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err is, or wraps, a DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

// Decode reads the first worksheet of an xlsx workbook.
func Decode(data []byte) (*Table, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Err: errors.New("empty input")}
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &DecodeError{Err: errors.New("workbook has no sheets")}
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	table := &Table{}
	if len(rows) == 0 {
		return table, nil
	}

	headers := headerNames(rows[0])
	for _, h := range headers {
		if h != "" {
			table.Columns = append(table.Columns, h)
		}
	}

	for i := 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		row := make(Row, len(table.Columns))
		for j, h := range headers {
			if h == "" {
				continue
			}
			raw := ""
			if j < len(rows[i]) {
				raw = rows[i][j]
			}
			row[h] = cellValue(f, sheet, j+1, i+1, raw)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// Encode writes the table as a single-sheet workbook named sheet.
func Encode(table *Table, sheet string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("spreadsheet: rename sheet: %w", err)
	}

	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("spreadsheet: write header: %w", err)
	}

	for i, row := range table.Rows {
		values := make([]interface{}, len(table.Columns))
		for j, c := range table.Columns {
			v, ok := row[c]
			if !ok || v == nil {
				v = ""
			}
			values[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("spreadsheet: write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("spreadsheet: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Text renders a decoded cell value as a string.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// headerNames trims header labels and suffixes repeats with _1, _2, ...
// A suffix never reuses a label that appears literally in the header.
func headerNames(cells []string) []string {
	literal := make(map[string]bool, len(cells))
	for _, c := range cells {
		if name := strings.TrimSpace(c); name != "" {
			literal[name] = true
		}
	}

	used := make(map[string]bool, len(cells))
	out := make([]string, len(cells))
	for i, c := range cells {
		name := strings.TrimSpace(c)
		if name == "" {
			continue
		}
		if used[name] {
			for n := 1; ; n++ {
				candidate := fmt.Sprintf("%s_%d", name, n)
				if !used[candidate] && !literal[candidate] {
					name = candidate
					break
				}
			}
		}
		used[name] = true
		out[i] = name
	}
	return out
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cellValue(f *excelize.File, sheet string, col, row int, raw string) any {
	if raw == "" {
		return ""
	}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return raw
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return raw
	}
	// Numeric cells are stored without a type attribute or with "n".
	if typ == excelize.CellTypeNumber || typ == excelize.CellTypeUnset {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
	}
	return raw
}
