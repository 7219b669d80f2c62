// Package xlsx decodes uploaded Excel workbooks into the tabular form
// the import pipeline works on: a column list plus ordered rows of
// string-or-null cells. All typing happens later, in the validator.
package xlsx

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/catalogo/catalog-service/internal/types"
)

var (
	// ErrEmptyFile indicates the upload had no content or no sheets
	ErrEmptyFile = errors.New("spreadsheet file is empty")
	// ErrNoData indicates the first sheet has a header row but no data rows
	ErrNoData = errors.New("spreadsheet contains no data rows")
)

// DecodeError wraps a failure to read the workbook format
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode spreadsheet: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Parse reads the first sheet of an XLSX workbook. The first row
// supplies column names verbatim (trimmed); duplicate names get a
// numeric suffix so every column is addressable. Cells come back as
// string or null, never as native date or number types.
func Parse(content []byte) (*types.ParsedSheet, error) {
	if len(content) == 0 {
		return nil, ErrEmptyFile
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	columns := headerColumns(rows[0])
	if len(columns) == 0 {
		return nil, ErrEmptyFile
	}

	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.name
	}

	parsed := &types.ParsedSheet{
		Columns: names,
		Rows:    make([]types.RawRow, 0, len(rows)-1),
	}

	for _, raw := range rows[1:] {
		if isEmptyRow(raw) {
			continue
		}
		parsed.Rows = append(parsed.Rows, cellsToRow(columns, raw))
	}

	if len(parsed.Rows) == 0 {
		return nil, ErrNoData
	}

	parsed.TotalRows = len(parsed.Rows)
	return parsed, nil
}

// headerColumn pairs a kept column name with its position in the
// sheet's header row. Blank headers are dropped from the column list
// but data cells must still be read at their original position.
type headerColumn struct {
	name string
	idx  int
}

// headerColumns trims header cells and disambiguates duplicates by
// appending _1, _2, ... to repeats, keeping names unique and stable.
func headerColumns(header []string) []headerColumn {
	columns := make([]headerColumn, 0, len(header))
	seen := make(map[string]int, len(header))

	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name == "" {
			continue
		}
		base := name
		for n := 1; ; n++ {
			if _, taken := seen[name]; !taken {
				break
			}
			name = fmt.Sprintf("%s_%d", base, n)
		}
		seen[name] = 1
		columns = append(columns, headerColumn{name: name, idx: i})
	}
	return columns
}

func cellsToRow(columns []headerColumn, raw []string) types.RawRow {
	row := make(types.RawRow, len(columns))
	for _, col := range columns {
		if col.idx >= len(raw) {
			row[col.name] = types.NullCell()
			continue
		}
		row[col.name] = classifyCell(raw[col.idx])
	}
	return row
}

// classifyCell tags a cell as null, number or string. Numeric cells
// keep their original text; the validator owns numeric parsing.
func classifyCell(value string) types.Cell {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return types.NullCell()
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return types.NumberCell(trimmed)
	}
	return types.StringCell(trimmed)
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
