// Package diff compares a freshly transformed item set against the
// items of an existing catalog version and classifies every item as
// new, modified, deleted or unchanged. A single hash-map pass per side,
// never pairwise.
package diff

import (
	"reflect"

	"github.com/catalogo/catalog-service/internal/types"
)

// trackedField is one of the canonical fields compared between
// versions. Code itself is the match key and is never compared.
type trackedField struct {
	key   string
	label string
	value func(*types.CatalogItemData) any
}

func strVal(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

var trackedFields = []trackedField{
	{"name", "Producto", func(it *types.CatalogItemData) any { return it.Name }},
	{"price_usd", "Precio", func(it *types.CatalogItemData) any { return it.PriceUSD }},
	{"category", "Categoría", func(it *types.CatalogItemData) any { return strVal(it.Category) }},
	{"category_f1", "Categoría F1", func(it *types.CatalogItemData) any { return strVal(it.CategoryF1) }},
	{"category_f2", "Categoría F2", func(it *types.CatalogItemData) any { return strVal(it.CategoryF2) }},
	{"category_f3", "Categoría F3", func(it *types.CatalogItemData) any { return strVal(it.CategoryF3) }},
	{"supplier", "Suministrador", func(it *types.CatalogItemData) any { return strVal(it.Supplier) }},
	{"warehouse", "Almacén", func(it *types.CatalogItemData) any { return strVal(it.Warehouse) }},
	{"store_id", "ID Tienda", func(it *types.CatalogItemData) any { return strVal(it.StoreID) }},
	{"store_name", "Tienda", func(it *types.CatalogItemData) any { return strVal(it.StoreName) }},
	{"image_url", "Imagen", func(it *types.CatalogItemData) any { return strVal(it.ImageURL) }},
	{"image_filter", "Filtro Imagen", func(it *types.CatalogItemData) any { return strVal(it.ImageFilter) }},
	{"states", "Estados", func(it *types.CatalogItemData) any { return it.States }},
	{"extra_prices", "Precios extra", func(it *types.CatalogItemData) any { return it.ExtraPrices }},
	{"flags", "Flags", func(it *types.CatalogItemData) any { return it.Flags }},
	{"is_selected", "Selecto", func(it *types.CatalogItemData) any { return it.IsSelected }},
	{"is_active", "Activo", func(it *types.CatalogItemData) any { return it.IsActive }},
}

// Diff classifies newItems against existingItems by code. Items keep
// their input order within each bucket.
func Diff(existingItems, newItems []types.CatalogItemData) *types.DiffResult {
	existingByCode := make(map[string]*types.CatalogItemData, len(existingItems))
	for i := range existingItems {
		existingByCode[existingItems[i].Code] = &existingItems[i]
	}
	newByCode := make(map[string]*types.CatalogItemData, len(newItems))
	for i := range newItems {
		newByCode[newItems[i].Code] = &newItems[i]
	}

	result := &types.DiffResult{
		NewItems:       make([]types.DiffItem, 0),
		ModifiedItems:  make([]types.DiffItem, 0),
		DeletedItems:   make([]types.DiffItem, 0),
		UnchangedItems: make([]types.DiffItem, 0),
	}

	for i := range newItems {
		item := &newItems[i]
		existing, ok := existingByCode[item.Code]
		if !ok {
			result.NewItems = append(result.NewItems, types.DiffItem{Code: item.Code, New: item})
			continue
		}

		changes := compareItems(existing, item)
		if len(changes) > 0 {
			result.ModifiedItems = append(result.ModifiedItems, types.DiffItem{
				Code:     item.Code,
				Existing: existing,
				New:      item,
				Changes:  changes,
			})
		} else {
			result.UnchangedItems = append(result.UnchangedItems, types.DiffItem{
				Code:     item.Code,
				Existing: existing,
				New:      item,
				Changes:  []types.FieldChange{},
			})
		}
	}

	for i := range existingItems {
		item := &existingItems[i]
		if _, ok := newByCode[item.Code]; !ok {
			result.DeletedItems = append(result.DeletedItems, types.DiffItem{Code: item.Code, Existing: item})
		}
	}

	result.Summary = types.DiffSummary{
		New:       len(result.NewItems),
		Modified:  len(result.ModifiedItems),
		Deleted:   len(result.DeletedItems),
		Unchanged: len(result.UnchangedItems),
	}
	return result
}

// compareItems walks the tracked fields in declaration order. Map
// fields compare structurally, so key order never produces a false
// difference.
func compareItems(existing, updated *types.CatalogItemData) []types.FieldChange {
	var changes []types.FieldChange
	for _, f := range trackedFields {
		oldVal := f.value(existing)
		newVal := f.value(updated)
		if !reflect.DeepEqual(oldVal, newVal) {
			changes = append(changes, types.FieldChange{
				Field: f.key,
				Label: f.label,
				Old:   oldVal,
				New:   newVal,
			})
		}
	}
	return changes
}
