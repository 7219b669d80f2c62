package diff

import "github.com/catalogo/catalog-service/internal/types"

// Merge builds the item set for the next version from a diff and the
// operator's selection. Starting from all existing items: selected
// modifications replace in place, selected new items are appended,
// selected deletions are removed. Unselected changes are dropped, so an
// empty selection reproduces the existing set exactly.
func Merge(existingItems []types.CatalogItemData, d *types.DiffResult, opts types.ApplyOptions) []types.CatalogItemData {
	merged := make(map[string]types.CatalogItemData, len(existingItems))
	order := make([]string, 0, len(existingItems))
	for _, item := range existingItems {
		merged[item.Code] = item
		order = append(order, item.Code)
	}

	for _, di := range d.ModifiedItems {
		if opts.SelectedModified[di.Code] && di.New != nil {
			merged[di.Code] = *di.New
		}
	}

	for _, di := range d.NewItems {
		if opts.SelectedNew[di.Code] && di.New != nil {
			if _, exists := merged[di.Code]; !exists {
				order = append(order, di.Code)
			}
			merged[di.Code] = *di.New
		}
	}

	for _, di := range d.DeletedItems {
		if opts.SelectedDeleted[di.Code] {
			delete(merged, di.Code)
		}
	}

	out := make([]types.CatalogItemData, 0, len(merged))
	for _, code := range order {
		if item, ok := merged[code]; ok {
			out = append(out, item)
		}
	}
	return out
}
