package validation

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogo/catalog-service/internal/fields"
	"github.com/catalogo/catalog-service/internal/mapping"
	"github.com/catalogo/catalog-service/internal/types"
)

func fullMappings() []types.ColumnMapping {
	return mapping.AutoMap(fields.All(), []string{
		"Codigo", "Producto", "Precio", "Imagen", "Selecto",
	})
}

func row(code, name, price string) types.RawRow {
	return types.RawRow{
		"Codigo":   types.StringCell(code),
		"Producto": types.StringCell(name),
		"Precio":   types.StringCell(price),
	}
}

func findByMessage(errs []types.ValidationError, fragment string) []types.ValidationError {
	var out []types.ValidationError
	for _, e := range errs {
		if strings.Contains(e.Message, fragment) {
			out = append(out, e)
		}
	}
	return out
}

func TestValidateCleanRows(t *testing.T) {
	rows := []types.RawRow{
		row("A", "Uno", "10.5"),
		row("B", "Dos", "3,75"),
	}

	result := Validate(rows, fullMappings(), fields.All())

	assert.True(t, result.IsValid)
	assert.Equal(t, 2, result.TotalRows)
	assert.Equal(t, 2, result.ValidRows)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Duplicates)
}

func TestValidateUnmappedRequiredField(t *testing.T) {
	// Only Producto is mapped: codigo and precio required fields are not
	mappings := mapping.AutoMap(fields.All(), []string{"Producto"})
	rows := []types.RawRow{
		{"Producto": types.StringCell("Uno")},
	}

	result := Validate(rows, mappings, fields.All())

	assert.False(t, result.IsValid)
	missing := findByMessage(result.Errors, "Campo requerido no mapeado")
	assert.Len(t, missing, 2)
	assert.Equal(t, 0, result.ValidRows)
}

func TestValidateEmptyRequiredValue(t *testing.T) {
	rows := []types.RawRow{row("", "Uno", "10")}

	result := Validate(rows, fullMappings(), fields.All())

	require.Len(t, findByMessage(result.Errors, "Valor vacío en campo requerido"), 1)
	e := findByMessage(result.Errors, "Valor vacío")[0]
	assert.Equal(t, 2, e.Row)
	assert.Equal(t, fields.KeyCode, e.Field)
	assert.Equal(t, types.SeverityError, e.Severity)
}

func TestValidateNonNumericPrice(t *testing.T) {
	rows := []types.RawRow{row("A", "Uno", "gratis")}

	result := Validate(rows, fullMappings(), fields.All())

	errs := findByMessage(result.Errors, "Valor no numérico")
	require.Len(t, errs, 1)
	assert.Equal(t, "Valor no numérico: 'gratis'", errs[0].Message)
	assert.Equal(t, types.SeverityError, errs[0].Severity)
	assert.Equal(t, 0, result.ValidRows)
}

func TestValidateNegativePriceWarns(t *testing.T) {
	rows := []types.RawRow{row("A", "Uno", "-5")}

	result := Validate(rows, fullMappings(), fields.All())

	warns := findByMessage(result.Errors, "Precio negativo")
	require.Len(t, warns, 1)
	assert.Equal(t, "Precio negativo: -5", warns[0].Message)
	assert.Equal(t, types.SeverityWarning, warns[0].Severity)
	// Warnings never invalidate the row
	assert.True(t, result.IsValid)
	assert.Equal(t, 1, result.ValidRows)
}

func TestValidateInvalidURLWarns(t *testing.T) {
	r := row("A", "Uno", "10")
	r["Imagen"] = types.StringCell("no es una url")
	rows := []types.RawRow{r}

	result := Validate(rows, fullMappings(), fields.All())

	warns := findByMessage(result.Errors, "URL inválida")
	require.Len(t, warns, 1)
	assert.Equal(t, types.SeverityWarning, warns[0].Severity)
	assert.True(t, result.IsValid)
}

func TestValidateUnrecognizedBooleanWarns(t *testing.T) {
	r := row("A", "Uno", "10")
	r["Selecto"] = types.StringCell("quizás")
	rows := []types.RawRow{r}

	result := Validate(rows, fullMappings(), fields.All())

	warns := findByMessage(result.Errors, "Valor booleano no reconocido")
	require.Len(t, warns, 1)
	assert.Equal(t, types.SeverityWarning, warns[0].Severity)
}

func TestValidateTooLongText(t *testing.T) {
	longCode := strings.Repeat("x", 120)
	rows := []types.RawRow{row(longCode, "Uno", "10")}

	result := Validate(rows, fullMappings(), fields.All())

	warns := findByMessage(result.Errors, "Texto demasiado largo")
	require.Len(t, warns, 1)
	assert.Equal(t, "Texto demasiado largo (120/100)", warns[0].Message)
	require.NotNil(t, warns[0].Value)
	// Long values are truncated in the report
	assert.Equal(t, strings.Repeat("x", 50)+"...", *warns[0].Value)
}

func TestValidateDuplicateCodes(t *testing.T) {
	rows := []types.RawRow{
		row("A", "Uno", "10"),
		row("B", "Dos", "20"),
		row("A", "Tres", "30"),
	}

	result := Validate(rows, fullMappings(), fields.All())

	dups := findByMessage(result.Errors, "Código duplicado")
	require.Len(t, dups, 1)
	// The second physical occurrence carries the error (rows 2 and 4)
	assert.Equal(t, 4, dups[0].Row)
	assert.Equal(t, "Código duplicado: 'A' (también en filas: 2)", dups[0].Message)
	assert.Equal(t, map[string][]int{"A": {2, 4}}, result.Duplicates)
	assert.Equal(t, 2, result.ValidRows)
	assert.False(t, result.IsValid)
}

func TestValidateErrorsSortedByRow(t *testing.T) {
	rows := []types.RawRow{
		row("A", "Uno", "mal"),
		row("A", "Dos", "peor"),
		row("", "Tres", "10"),
	}

	result := Validate(rows, fullMappings(), fields.All())

	sorted := sort.SliceIsSorted(result.Errors, func(i, j int) bool {
		return result.Errors[i].Row < result.Errors[j].Row
	})
	assert.True(t, sorted)
}

func TestValidateIdempotent(t *testing.T) {
	rows := []types.RawRow{
		row("A", "Uno", "abc"),
		row("A", "Dos", "-3"),
		row("", strings.Repeat("y", 600), "10"),
	}

	first := Validate(rows, fullMappings(), fields.All())
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Validate(rows, fullMappings(), fields.All()))
	}
}

func TestValidateEmptyInput(t *testing.T) {
	result := Validate(nil, fullMappings(), fields.All())

	assert.True(t, result.IsValid)
	assert.Equal(t, 0, result.TotalRows)
	assert.NotNil(t, result.Errors)
	assert.Empty(t, result.Errors)
}
