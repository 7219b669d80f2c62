package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/catalogo/catalog-service/internal/types"
)

var reportHeader = []string{"Fila", "Columna", "Campo", "Error", "Valor", "Severidad"}

// ValidationReportCSV renders validation findings as a UTF-8 CSV, one
// line per finding, in the order they were reported.
func ValidationReportCSV(errs []types.ValidationError) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(reportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, e := range errs {
		value := ""
		if e.Value != nil {
			value = *e.Value
		}
		record := []string{
			strconv.Itoa(e.Row),
			e.Column,
			e.Field,
			e.Message,
			value,
			string(e.Severity),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
