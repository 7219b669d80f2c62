package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogo/catalog-service/internal/types"
)

func item(code string, price float64) types.CatalogItemData {
	return types.CatalogItemData{
		Code:        code,
		Name:        "Producto " + code,
		PriceUSD:    price,
		States:      map[string]string{},
		ExtraPrices: map[string]float64{},
		Flags:       map[string]bool{"selecto": false},
		IsActive:    true,
	}
}

func TestDiffIdentitySetsAllUnchanged(t *testing.T) {
	items := []types.CatalogItemData{item("A", 1), item("B", 2), item("C", 3)}

	result := Diff(items, items)

	assert.Equal(t, types.DiffSummary{Unchanged: 3}, result.Summary)
	assert.Empty(t, result.NewItems)
	assert.Empty(t, result.ModifiedItems)
	assert.Empty(t, result.DeletedItems)
	require.Len(t, result.UnchangedItems, 3)
	assert.NotNil(t, result.UnchangedItems[0].Changes)
	assert.Empty(t, result.UnchangedItems[0].Changes)
}

func TestDiffClassification(t *testing.T) {
	existing := []types.CatalogItemData{item("A", 1), item("B", 2), item("C", 3)}
	incoming := []types.CatalogItemData{item("A", 1), item("B", 9.5), item("D", 4)}

	result := Diff(existing, incoming)

	assert.Equal(t, types.DiffSummary{New: 1, Modified: 1, Deleted: 1, Unchanged: 1}, result.Summary)

	require.Len(t, result.NewItems, 1)
	assert.Equal(t, "D", result.NewItems[0].Code)
	assert.Nil(t, result.NewItems[0].Existing)

	require.Len(t, result.DeletedItems, 1)
	assert.Equal(t, "C", result.DeletedItems[0].Code)
	assert.Nil(t, result.DeletedItems[0].New)

	require.Len(t, result.ModifiedItems, 1)
	mod := result.ModifiedItems[0]
	assert.Equal(t, "B", mod.Code)
	require.Len(t, mod.Changes, 1)
	assert.Equal(t, "price_usd", mod.Changes[0].Field)
	assert.Equal(t, "Precio", mod.Changes[0].Label)
	assert.Equal(t, 2.0, mod.Changes[0].Old)
	assert.Equal(t, 9.5, mod.Changes[0].New)
}

func TestDiffPointerFieldChange(t *testing.T) {
	a := item("A", 1)
	b := item("A", 1)
	b.Supplier = types.StringPtr("ACME")

	result := Diff([]types.CatalogItemData{a}, []types.CatalogItemData{b})

	require.Len(t, result.ModifiedItems, 1)
	changes := result.ModifiedItems[0].Changes
	require.Len(t, changes, 1)
	assert.Equal(t, "supplier", changes[0].Field)
	assert.Nil(t, changes[0].Old)
	assert.Equal(t, "ACME", changes[0].New)
}

func TestDiffMapFieldsCompareStructurally(t *testing.T) {
	a := item("A", 1)
	a.ExtraPrices = map[string]float64{"precio_p": 2, "precio_m": 3}
	b := item("A", 1)
	b.ExtraPrices = map[string]float64{"precio_m": 3, "precio_p": 2}

	result := Diff([]types.CatalogItemData{a}, []types.CatalogItemData{b})

	assert.Equal(t, 1, result.Summary.Unchanged)
	assert.Empty(t, result.ModifiedItems)
}

func TestDiffMultipleChangesInFieldOrder(t *testing.T) {
	a := item("A", 1)
	b := item("A", 5)
	b.Name = "Otro"
	b.IsActive = false

	result := Diff([]types.CatalogItemData{a}, []types.CatalogItemData{b})

	require.Len(t, result.ModifiedItems, 1)
	changes := result.ModifiedItems[0].Changes
	require.Len(t, changes, 3)
	assert.Equal(t, "name", changes[0].Field)
	assert.Equal(t, "price_usd", changes[1].Field)
	assert.Equal(t, "is_active", changes[2].Field)
}

func TestDiffEmptySides(t *testing.T) {
	items := []types.CatalogItemData{item("A", 1)}

	onlyNew := Diff(nil, items)
	assert.Equal(t, types.DiffSummary{New: 1}, onlyNew.Summary)

	onlyDeleted := Diff(items, nil)
	assert.Equal(t, types.DiffSummary{Deleted: 1}, onlyDeleted.Summary)
}
