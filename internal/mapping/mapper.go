// Package mapping assigns spreadsheet columns to system fields by name
// similarity. The assignment is a greedy bipartite matching in field
// declaration order: once a column is claimed it is never reconsidered
// for later fields, which keeps auto-mapping deterministic and
// reproducible across runs.
package mapping

import (
	"strings"

	"github.com/catalogo/catalog-service/internal/normalize"
	"github.com/catalogo/catalog-service/internal/types"
)

const (
	exactScore     = 100.0
	partialScale   = 80.0
	acceptScoreMin = 50.0
)

// AutoMap matches sheet columns to system fields. Exact normalized
// matches against the field label or key score 100 and short-circuit;
// substring containment in either direction scores min/max length * 80.
// Candidates below 50 leave the field unmapped.
func AutoMap(systemFields []types.SystemField, sheetColumns []string) []types.ColumnMapping {
	mappings := make([]types.ColumnMapping, 0, len(systemFields))
	used := make(map[string]bool, len(sheetColumns))

	for _, field := range systemFields {
		fieldLabel := normalize.Key(field.Label)
		fieldKey := normalize.Key(field.Key)

		var bestMatch string
		bestScore := 0.0

		for _, col := range sheetColumns {
			if used[col] {
				continue
			}

			colKey := normalize.Key(col)

			if colKey == fieldLabel || colKey == fieldKey {
				bestMatch = col
				bestScore = exactScore
				break
			}

			if containsEither(colKey, fieldLabel) {
				score := ratio(len(colKey), len(fieldLabel)) * partialScale
				if score > bestScore {
					bestScore = score
					bestMatch = col
				}
			}
		}

		if bestMatch != "" && bestScore >= acceptScoreMin {
			used[bestMatch] = true
			mappings = append(mappings, types.ColumnMapping{
				SystemField: field.Key,
				SheetColumn: types.StringPtr(bestMatch),
			})
		} else {
			mappings = append(mappings, types.ColumnMapping{SystemField: field.Key})
		}
	}

	return mappings
}

// ApplyManual returns a copy of mappings with one field reassigned.
// Passing nil clears the assignment. The column is stolen from any
// other field currently holding it, so a column belongs to at most one
// field.
func ApplyManual(mappings []types.ColumnMapping, systemFieldKey string, sheetColumn *string) []types.ColumnMapping {
	out := make([]types.ColumnMapping, len(mappings))
	copy(out, mappings)

	for i := range out {
		if sheetColumn != nil && out[i].SheetColumn != nil &&
			*out[i].SheetColumn == *sheetColumn && out[i].SystemField != systemFieldKey {
			out[i].SheetColumn = nil
		}
		if out[i].SystemField == systemFieldKey {
			out[i].SheetColumn = sheetColumn
		}
	}
	return out
}

// Clear returns an all-unmapped mapping set for the given fields
func Clear(systemFields []types.SystemField) []types.ColumnMapping {
	mappings := make([]types.ColumnMapping, 0, len(systemFields))
	for _, f := range systemFields {
		mappings = append(mappings, types.ColumnMapping{SystemField: f.Key})
	}
	return mappings
}

// Stats derives read-only mapping statistics
func Stats(mappings []types.ColumnMapping, systemFields []types.SystemField, sheetColumns []string) types.MappingStats {
	required := make(map[string]bool, len(systemFields))
	for _, f := range systemFields {
		if f.Required {
			required[f.Key] = true
		}
	}

	assigned := make(map[string]bool, len(mappings))
	stats := types.MappingStats{RequiredTotal: len(required)}

	for _, m := range mappings {
		if m.SheetColumn == nil {
			continue
		}
		stats.TotalMapped++
		assigned[*m.SheetColumn] = true
		if required[m.SystemField] {
			stats.RequiredMapped++
		}
	}

	stats.AllRequiredMapped = stats.RequiredMapped == stats.RequiredTotal
	stats.UnusedColumns = make([]string, 0)
	for _, col := range sheetColumns {
		if !assigned[col] {
			stats.UnusedColumns = append(stats.UnusedColumns, col)
		}
	}
	return stats
}

// ColumnFor resolves the sheet column mapped to a field key, if any
func ColumnFor(mappings []types.ColumnMapping, fieldKey string) (string, bool) {
	for _, m := range mappings {
		if m.SystemField == fieldKey && m.SheetColumn != nil {
			return *m.SheetColumn, true
		}
	}
	return "", false
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func ratio(a, b int) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a < b {
		return float64(a) / float64(b)
	}
	return float64(b) / float64(a)
}
