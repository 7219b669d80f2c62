// Package csv decodes uploaded CSV files into the same tabular form the
// xlsx reader produces, with encoding and delimiter autodetection.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/catalogo/catalog-service/internal/parsers/charset"
	"github.com/catalogo/catalog-service/internal/types"
)

var (
	// ErrEmptyFile indicates the upload had no content
	ErrEmptyFile = errors.New("csv file is empty")
	// ErrNoData indicates a header row with no data rows beneath it
	ErrNoData = errors.New("csv contains no data rows")
)

// DecodeError wraps a failure to read the CSV format
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode csv: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Parse reads a CSV file: first row supplies column names, every cell
// surfaces as string or null. Encoding and delimiter are detected from
// the content.
func Parse(content []byte) (*types.ParsedSheet, error) {
	if len(content) == 0 {
		return nil, ErrEmptyFile
	}

	decoded, err := charset.Decode(content, charset.DetectEncoding(content))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if strings.TrimSpace(decoded) == "" {
		return nil, ErrEmptyFile
	}

	reader := csv.NewReader(strings.NewReader(decoded))
	reader.Comma = DetectDelimiter(decoded)
	reader.FieldsPerRecord = -1 // ragged rows are handled per cell
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	columns := headerColumns(records[0])
	if len(columns) == 0 {
		return nil, ErrEmptyFile
	}

	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.name
	}

	parsed := &types.ParsedSheet{
		Columns: names,
		Rows:    make([]types.RawRow, 0, len(records)-1),
	}

	for _, record := range records[1:] {
		if isEmptyRecord(record) {
			continue
		}
		row := make(types.RawRow, len(columns))
		for _, col := range columns {
			if col.idx >= len(record) {
				row[col.name] = types.NullCell()
				continue
			}
			row[col.name] = classifyCell(record[col.idx])
		}
		parsed.Rows = append(parsed.Rows, row)
	}

	if len(parsed.Rows) == 0 {
		return nil, ErrNoData
	}

	parsed.TotalRows = len(parsed.Rows)
	return parsed, nil
}

// headerColumn pairs a kept column name with its position in the
// header record. Blank headers are dropped from the column list but
// data cells must still be read at their original position.
type headerColumn struct {
	name string
	idx  int
}

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

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
