package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogo/catalog-service/internal/fields"
	"github.com/catalogo/catalog-service/internal/types"
)

func columnFor(t *testing.T, mappings []types.ColumnMapping, fieldKey string) *string {
	t.Helper()
	for _, m := range mappings {
		if m.SystemField == fieldKey {
			return m.SheetColumn
		}
	}
	t.Fatalf("no mapping entry for field %s", fieldKey)
	return nil
}

func TestAutoMapExactMatches(t *testing.T) {
	columns := []string{"Codigo", "Producto", "Precio", "Imagen"}
	mappings := AutoMap(fields.All(), columns)

	require.Len(t, mappings, len(fields.All()))

	for _, key := range []string{fields.KeyCode, fields.KeyName, fields.KeyPrice, fields.KeyImage} {
		col := columnFor(t, mappings, key)
		require.NotNil(t, col, "field %s should be mapped", key)
	}
	assert.Equal(t, "Codigo", *columnFor(t, mappings, fields.KeyCode))
	assert.Equal(t, "Precio", *columnFor(t, mappings, fields.KeyPrice))
}

func TestAutoMapIsAccentAndCaseInsensitive(t *testing.T) {
	columns := []string{"CÓDIGO", "producto", "PRECIO ($)"}
	mappings := AutoMap(fields.All(), columns)

	assert.Equal(t, "CÓDIGO", *columnFor(t, mappings, fields.KeyCode))
	assert.Equal(t, "producto", *columnFor(t, mappings, fields.KeyName))
}

func TestAutoMapColumnClaimedOnce(t *testing.T) {
	// "Precio" matches precio exactly; precio_p and precio_m must not
	// steal the same column
	columns := []string{"Precio"}
	mappings := AutoMap(fields.All(), columns)

	assert.NotNil(t, columnFor(t, mappings, fields.KeyPrice))
	assert.Nil(t, columnFor(t, mappings, fields.KeyPriceP))
	assert.Nil(t, columnFor(t, mappings, fields.KeyPriceM))
}

func TestAutoMapSubstringScoring(t *testing.T) {
	// "Precio P" is an exact match for precio_p and only a partial
	// match for precio
	columns := []string{"Precio P", "Precio"}
	mappings := AutoMap(fields.All(), columns)

	assert.Equal(t, "Precio", *columnFor(t, mappings, fields.KeyPrice))
	assert.Equal(t, "Precio P", *columnFor(t, mappings, fields.KeyPriceP))
}

func TestAutoMapRejectsWeakCandidates(t *testing.T) {
	columns := []string{"ZZZZZZZZ", "QQQ"}
	mappings := AutoMap(fields.All(), columns)

	for _, m := range mappings {
		assert.Nil(t, m.SheetColumn, "field %s should stay unmapped", m.SystemField)
	}
}

func TestAutoMapDeterministic(t *testing.T) {
	columns := []string{"Producto", "Precio", "Codigo", "Almacen", "Categoria"}

	first := AutoMap(fields.All(), columns)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, AutoMap(fields.All(), columns))
	}
}

func TestApplyManual(t *testing.T) {
	systemFields := fields.All()
	columns := []string{"Codigo", "Producto", "Precio", "Extra"}
	mappings := AutoMap(systemFields, columns)

	// Manual assignment of an unused column
	updated := ApplyManual(mappings, fields.KeySupplier, types.StringPtr("Extra"))
	assert.Equal(t, "Extra", *columnFor(t, updated, fields.KeySupplier))

	// Reassigning a claimed column steals it from the previous field
	updated = ApplyManual(updated, fields.KeyWarehouse, types.StringPtr("Extra"))
	assert.Equal(t, "Extra", *columnFor(t, updated, fields.KeyWarehouse))
	assert.Nil(t, columnFor(t, updated, fields.KeySupplier))

	// Unmapping
	updated = ApplyManual(updated, fields.KeyWarehouse, nil)
	assert.Nil(t, columnFor(t, updated, fields.KeyWarehouse))

	// Original is untouched
	assert.Nil(t, columnFor(t, mappings, fields.KeySupplier))
}

func TestStats(t *testing.T) {
	systemFields := fields.All()
	columns := []string{"Codigo", "Producto", "Precio", "SinUso"}
	mappings := AutoMap(systemFields, columns)

	stats := Stats(mappings, systemFields, columns)

	assert.Equal(t, 3, stats.RequiredTotal)
	assert.Equal(t, 3, stats.RequiredMapped)
	assert.True(t, stats.AllRequiredMapped)
	assert.Equal(t, 3, stats.TotalMapped)
	assert.Equal(t, []string{"SinUso"}, stats.UnusedColumns)
}

func TestStatsMissingRequired(t *testing.T) {
	systemFields := fields.All()
	columns := []string{"Producto"}
	mappings := AutoMap(systemFields, columns)

	stats := Stats(mappings, systemFields, columns)

	assert.Equal(t, 1, stats.RequiredMapped)
	assert.False(t, stats.AllRequiredMapped)
}

func TestClear(t *testing.T) {
	cleared := Clear(fields.All())
	require.Len(t, cleared, len(fields.All()))
	for _, m := range cleared {
		assert.Nil(t, m.SheetColumn)
	}
}
