package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogo/catalog-service/internal/types"
)

func codes(items []types.CatalogItemData) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Code)
	}
	return out
}

func TestMergeEmptySelectionKeepsExistingSet(t *testing.T) {
	existing := []types.CatalogItemData{item("A", 1), item("B", 2)}
	incoming := []types.CatalogItemData{item("A", 9), item("C", 3)}
	d := Diff(existing, incoming)

	merged := Merge(existing, d, types.ApplyOptions{})

	assert.Equal(t, existing, merged)
}

func TestMergeSelectedModification(t *testing.T) {
	existing := []types.CatalogItemData{item("A", 1), item("B", 2)}
	incoming := []types.CatalogItemData{item("A", 9), item("B", 2)}
	d := Diff(existing, incoming)

	merged := Merge(existing, d, types.ApplyOptions{
		SelectedModified: map[string]bool{"A": true},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, []string{"A", "B"}, codes(merged))
	assert.Equal(t, 9.0, merged[0].PriceUSD)
	assert.Equal(t, 2.0, merged[1].PriceUSD)
}

func TestMergeSelectedNewAppends(t *testing.T) {
	existing := []types.CatalogItemData{item("A", 1)}
	incoming := []types.CatalogItemData{item("A", 1), item("B", 2), item("C", 3)}
	d := Diff(existing, incoming)

	merged := Merge(existing, d, types.ApplyOptions{
		SelectedNew: map[string]bool{"C": true},
	})

	// Only the selected new item is added, after the existing ones
	assert.Equal(t, []string{"A", "C"}, codes(merged))
}

func TestMergeSelectedDeletionRemoves(t *testing.T) {
	existing := []types.CatalogItemData{item("A", 1), item("B", 2), item("C", 3)}
	incoming := []types.CatalogItemData{item("A", 1)}
	d := Diff(existing, incoming)

	merged := Merge(existing, d, types.ApplyOptions{
		SelectedDeleted: map[string]bool{"B": true},
	})

	// C was also reported deleted but not selected, so it stays
	assert.Equal(t, []string{"A", "C"}, codes(merged))
}

func TestMergeCombinedSelection(t *testing.T) {
	existing := []types.CatalogItemData{item("A", 1), item("B", 2), item("C", 3)}
	incoming := []types.CatalogItemData{item("A", 10), item("B", 2), item("D", 4)}
	d := Diff(existing, incoming)

	merged := Merge(existing, d, types.ApplyOptions{
		SelectedModified: map[string]bool{"A": true},
		SelectedNew:      map[string]bool{"D": true},
		SelectedDeleted:  map[string]bool{"C": true},
	})

	assert.Equal(t, []string{"A", "B", "D"}, codes(merged))
	assert.Equal(t, 10.0, merged[0].PriceUSD)
}
