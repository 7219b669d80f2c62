// Package validation type-checks mapped rows before transformation.
// Findings never abort the pipeline: errors block the import until the
// operator resolves them, warnings are advisory only.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/catalogo/catalog-service/internal/fields"
	"github.com/catalogo/catalog-service/internal/normalize"
	"github.com/catalogo/catalog-service/internal/types"
)

// headerOffset converts a 0-indexed data row to its physical
// spreadsheet row number (header occupies row 1).
const headerOffset = 2

const truncateLen = 50

// Validate checks every mapped row against the system field catalog.
// Row numbers in the result are physical spreadsheet rows. The error
// list is sorted by row number, stable within a row.
func Validate(rows []types.RawRow, mappings []types.ColumnMapping, systemFields []types.SystemField) *types.ValidationResult {
	var errs []types.ValidationError
	codeRows := make(map[string][]int)
	codeOrder := make([]string, 0)
	validRows := 0

	fieldToColumn := make(map[string]string, len(mappings))
	for _, m := range mappings {
		if m.SheetColumn != nil {
			fieldToColumn[m.SystemField] = *m.SheetColumn
		}
	}
	codeColumn, hasCodeColumn := fieldToColumn[fields.KeyCode]

	for i, row := range rows {
		rowNumber := i + headerOffset
		rowHasError := false

		for _, field := range systemFields {
			column, mapped := fieldToColumn[field.Key]

			if !mapped {
				if field.Required {
					errs = append(errs, types.ValidationError{
						Row:      rowNumber,
						Column:   field.Label,
						Field:    field.Key,
						Message:  "Campo requerido no mapeado",
						Severity: types.SeverityError,
					})
					rowHasError = true
				}
				continue
			}

			value := strings.TrimSpace(row[column].String())

			if value == "" {
				if field.Required {
					errs = append(errs, types.ValidationError{
						Row:      rowNumber,
						Column:   column,
						Field:    field.Key,
						Message:  "Valor vacío en campo requerido",
						Value:    types.StringPtr(value),
						Severity: types.SeverityError,
					})
					rowHasError = true
				}
				continue
			}

			switch field.Type {
			case types.FieldNumber:
				parsed, ok := normalize.ParsePrice(value)
				if !ok {
					errs = append(errs, types.ValidationError{
						Row:      rowNumber,
						Column:   column,
						Field:    field.Key,
						Message:  fmt.Sprintf("Valor no numérico: '%s'", value),
						Value:    types.StringPtr(value),
						Severity: types.SeverityError,
					})
					rowHasError = true
				} else if parsed < 0 && strings.Contains(field.Key, "precio") {
					errs = append(errs, types.ValidationError{
						Row:      rowNumber,
						Column:   column,
						Field:    field.Key,
						Message:  fmt.Sprintf("Precio negativo: %g", parsed),
						Value:    types.StringPtr(value),
						Severity: types.SeverityWarning,
					})
				}

			case types.FieldURL:
				if !normalize.IsLikelyURL(value) {
					errs = append(errs, types.ValidationError{
						Row:      rowNumber,
						Column:   column,
						Field:    field.Key,
						Message:  fmt.Sprintf("URL inválida: '%s'", value),
						Value:    types.StringPtr(value),
						Severity: types.SeverityWarning,
					})
				}

			case types.FieldBoolean:
				if _, ok := normalize.ParseBool(value); !ok {
					errs = append(errs, types.ValidationError{
						Row:      rowNumber,
						Column:   column,
						Field:    field.Key,
						Message:  fmt.Sprintf("Valor booleano no reconocido: '%s'", value),
						Value:    types.StringPtr(value),
						Severity: types.SeverityWarning,
					})
				}
			}

			if field.MaxLength > 0 && len([]rune(value)) > field.MaxLength {
				errs = append(errs, types.ValidationError{
					Row:      rowNumber,
					Column:   column,
					Field:    field.Key,
					Message:  fmt.Sprintf("Texto demasiado largo (%d/%d)", len([]rune(value)), field.MaxLength),
					Value:    types.StringPtr(truncate(value)),
					Severity: types.SeverityWarning,
				})
			}
		}

		if hasCodeColumn {
			code := strings.TrimSpace(row[codeColumn].String())
			if code != "" {
				if _, seen := codeRows[code]; !seen {
					codeOrder = append(codeOrder, code)
				}
				codeRows[code] = append(codeRows[code], rowNumber)
			}
		}

		if !rowHasError {
			validRows++
		}
	}

	// Duplicate codes: one error per occurrence after the first, each
	// naming the rows the code also appears in. Rows counted valid
	// above lose their valid status here, floored at zero.
	duplicates := make(map[string][]int)
	for _, code := range codeOrder {
		rowNumbers := codeRows[code]
		if len(rowNumbers) < 2 {
			continue
		}
		duplicates[code] = rowNumbers
		for _, dupRow := range rowNumbers[1:] {
			errs = append(errs, types.ValidationError{
				Row:      dupRow,
				Column:   codeColumn,
				Field:    fields.KeyCode,
				Message:  fmt.Sprintf("Código duplicado: '%s' (también en filas: %s)", code, otherRows(rowNumbers, dupRow)),
				Value:    types.StringPtr(code),
				Severity: types.SeverityError,
			})
			if validRows > 0 {
				validRows--
			}
		}
	}

	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Row < errs[j].Row
	})

	errorCount := 0
	warningCount := 0
	for _, e := range errs {
		if e.Severity == types.SeverityError {
			errorCount++
		} else {
			warningCount++
		}
	}

	if errs == nil {
		errs = make([]types.ValidationError, 0)
	}

	return &types.ValidationResult{
		IsValid:      errorCount == 0,
		TotalRows:    len(rows),
		ValidRows:    validRows,
		ErrorCount:   errorCount,
		WarningCount: warningCount,
		Errors:       errs,
		Duplicates:   duplicates,
	}
}

func otherRows(rowNumbers []int, except int) string {
	parts := make([]string, 0, len(rowNumbers)-1)
	for _, r := range rowNumbers {
		if r != except {
			parts = append(parts, fmt.Sprintf("%d", r))
		}
	}
	return strings.Join(parts, ", ")
}

func truncate(value string) string {
	runes := []rune(value)
	if len(runes) <= truncateLen {
		return value
	}
	return string(runes[:truncateLen]) + "..."
}
