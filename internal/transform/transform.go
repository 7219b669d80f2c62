// Package transform converts validated raw rows into canonical catalog
// items. It shares the parsers in internal/normalize with the validator
// so the two never disagree about what a value means.
package transform

import (
	"strings"

	"github.com/catalogo/catalog-service/internal/fields"
	"github.com/catalogo/catalog-service/internal/normalize"
	"github.com/catalogo/catalog-service/internal/types"
)

// ToCanonicalItem builds a CatalogItemData from one mapped raw row.
// Pure function: same row and mappings always yield the same item. The
// nested states, extra_prices and flags maps are always non-nil.
func ToCanonicalItem(row types.RawRow, mappings []types.ColumnMapping) types.CatalogItemData {
	fieldToColumn := make(map[string]string, len(mappings))
	for _, m := range mappings {
		if m.SheetColumn != nil {
			fieldToColumn[m.SystemField] = *m.SheetColumn
		}
	}

	getValue := func(fieldKey string) string {
		column, ok := fieldToColumn[fieldKey]
		if !ok {
			return ""
		}
		return strings.TrimSpace(row[column].String())
	}

	getPtr := func(fieldKey string) *string {
		v := getValue(fieldKey)
		if v == "" {
			return nil
		}
		return &v
	}

	getPrice := func(fieldKey string) (float64, bool) {
		v := getValue(fieldKey)
		if v == "" {
			return 0, false
		}
		return normalize.ParsePrice(v)
	}

	getBool := func(fieldKey string) bool {
		v, ok := normalize.ParseBool(getValue(fieldKey))
		return ok && v
	}

	states := make(map[string]string)
	if v := getValue(fields.KeyStateAd); v != "" {
		states[fields.KeyStateAd] = v
	}
	if v := getValue(fields.KeyStateStore); v != "" {
		states[fields.KeyStateStore] = v
	}

	extraPrices := make(map[string]float64)
	if p, ok := getPrice(fields.KeyPriceP); ok {
		extraPrices[fields.KeyPriceP] = p
	}
	if p, ok := getPrice(fields.KeyPriceM); ok {
		extraPrices[fields.KeyPriceM] = p
	}

	selected := getBool(fields.KeySelected)
	flags := make(map[string]bool)
	flags[fields.KeySelected] = selected
	if v := getValue(fields.KeyEfTkc); v != "" {
		b, ok := normalize.ParseBool(v)
		flags[fields.KeyEfTkc] = ok && b
	}

	price, _ := getPrice(fields.KeyPrice)

	return types.CatalogItemData{
		Code:        getValue(fields.KeyCode),
		Name:        getValue(fields.KeyName),
		PriceUSD:    price,
		Category:    getPtr(fields.KeyCategory),
		CategoryF1:  getPtr(fields.KeyCategoryF1),
		CategoryF2:  getPtr(fields.KeyCategoryF2),
		CategoryF3:  getPtr(fields.KeyCategoryF3),
		Supplier:    getPtr(fields.KeySupplier),
		Warehouse:   getPtr(fields.KeyWarehouse),
		StoreID:     getPtr(fields.KeyStoreID),
		StoreName:   getPtr(fields.KeyStoreName),
		ImageURL:    normalize.ImageURL(getValue(fields.KeyImage)),
		ImageFilter: getPtr(fields.KeyImageFilter),
		States:      states,
		ExtraPrices: extraPrices,
		Flags:       flags,
		IsSelected:  selected,
		IsActive:    true,
	}
}

// ToCanonicalItems transforms every row, preserving row order
func ToCanonicalItems(rows []types.RawRow, mappings []types.ColumnMapping) []types.CatalogItemData {
	items := make([]types.CatalogItemData, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToCanonicalItem(row, mappings))
	}
	return items
}
