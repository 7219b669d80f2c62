// Package export renders catalog versions and validation reports as
// downloadable XLSX and CSV documents.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/catalogo/catalog-service/internal/types"
)

// ErrNoItems is returned when the filters leave nothing to export.
var ErrNoItems = errors.New("no items to export")

// Options controls which items are exported and how the output file
// is named.
type Options struct {
	CatalogName     string `json:"catalogName"`
	IncludeInactive bool   `json:"includeInactive"`
	OnlySelected    bool   `json:"onlySelected"`
	Category        string `json:"category"`
}

// columnSpec ties an output header to the dotted path that resolves
// its value on a catalog item.
type columnSpec struct {
	header string
	path   string
}

var columns = []columnSpec{
	{"Codigo", "code"},
	{"Producto", "name"},
	{"Precio", "price_usd"},
	{"Imagen", "image_url"},
	{"Suministrador", "supplier"},
	{"Almacen", "warehouse"},
	{"Categoria", "category"},
	{"Precio P", "extra_prices.precio_p"},
	{"Precio M.", "extra_prices.precio_m"},
	{"Filtro para Imagenes", "image_filter"},
	{"EF TKC", "flags.ef_tkc"},
	{"ID Tienda", "store_id"},
	{"Estado Anuncio", "states.estado_anuncio"},
	{"Estado en Tienda", "states.estado_tienda"},
	{"Tienda", "store_name"},
	{"Selecto", "is_selected"},
	{"Cat.F1", "category_f1"},
	{"Cat.F2", "category_f2"},
	{"Cat.F3", "category_f3"},
	{"Activo", "is_active"},
}

// Headers returns the export column headers in output order.
func Headers() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.header
	}
	return out
}

// resolve walks a dotted path on an item. The second segment, when
// present, indexes one of the item's maps. Missing map keys report ok
// as false.
func resolve(item *types.CatalogItemData, path string) (any, bool) {
	head, rest, nested := strings.Cut(path, ".")

	switch head {
	case "code":
		return item.Code, true
	case "name":
		return item.Name, true
	case "price_usd":
		return item.PriceUSD, true
	case "category":
		return strPtr(item.Category)
	case "category_f1":
		return strPtr(item.CategoryF1)
	case "category_f2":
		return strPtr(item.CategoryF2)
	case "category_f3":
		return strPtr(item.CategoryF3)
	case "supplier":
		return strPtr(item.Supplier)
	case "warehouse":
		return strPtr(item.Warehouse)
	case "store_id":
		return strPtr(item.StoreID)
	case "store_name":
		return strPtr(item.StoreName)
	case "image_url":
		return strPtr(item.ImageURL)
	case "image_filter":
		return strPtr(item.ImageFilter)
	case "is_selected":
		return item.IsSelected, true
	case "is_active":
		return item.IsActive, true
	case "states":
		if !nested {
			return nil, false
		}
		v, ok := item.States[rest]
		return v, ok
	case "extra_prices":
		if !nested {
			return nil, false
		}
		v, ok := item.ExtraPrices[rest]
		return v, ok
	case "flags":
		if !nested {
			return nil, false
		}
		v, ok := item.Flags[rest]
		return v, ok
	}
	return nil, false
}

func strPtr(p *string) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

// cellValue renders a resolved value for the output sheet. Booleans
// are written as Sí/No, numbers stay numeric.
func cellValue(v any, ok bool) any {
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case bool:
		if t {
			return "Sí"
		}
		return "No"
	case float64:
		return t
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// Filter applies the option filters, preserving item order.
func Filter(items []types.CatalogItemData, opts Options) []types.CatalogItemData {
	out := make([]types.CatalogItemData, 0, len(items))
	for _, item := range items {
		if !opts.IncludeInactive && !item.IsActive {
			continue
		}
		if opts.OnlySelected && !item.IsSelected {
			continue
		}
		if opts.Category != "" && (item.Category == nil || *item.Category != opts.Category) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// CatalogXLSX renders filtered items as an xlsx workbook with a
// single "Catalogo" sheet.
func CatalogXLSX(items []types.CatalogItemData, opts Options) ([]byte, error) {
	filtered := Filter(items, opts)
	if len(filtered) == 0 {
		return nil, ErrNoItems
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Catalogo"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c.header
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for r, item := range filtered {
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = cellValue(resolve(&item, c.path))
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	for i, c := range columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute column name: %w", err)
		}
		width := float64(len(c.header))
		if width < 15 {
			width = 15
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// CatalogCSV renders filtered items as UTF-8 CSV with the same
// columns as the xlsx export.
func CatalogCSV(items []types.CatalogItemData, opts Options) ([]byte, error) {
	filtered := Filter(items, opts)
	if len(filtered) == 0 {
		return nil, ErrNoItems
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Headers()); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, item := range filtered {
		record := make([]string, len(columns))
		for i, c := range columns {
			record[i] = csvField(cellValue(resolve(&item, c.path)))
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

func csvField(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

var filenameRe = regexp.MustCompile(`[^a-zA-Z0-9_\-.áéíóúñÁÉÍÓÚÑ]`)

// Filename builds a sanitized, dated file name for the export.
func Filename(opts Options, extension string, now time.Time) string {
	name := opts.CatalogName + "_" + now.Format("2006-01-02")
	if opts.OnlySelected {
		name += "_selectos"
	}
	if opts.Category != "" {
		name += "_" + opts.Category
	}
	name += "." + extension
	return filenameRe.ReplaceAllString(name, "_")
}
