package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/catalogo/catalog-service/internal/types"
)

func sampleItems() []types.CatalogItemData {
	return []types.CatalogItemData{
		{
			Code:        "A-1",
			Name:        "Ventilador",
			PriceUSD:    19.99,
			Category:    types.StringPtr("Hogar"),
			Supplier:    types.StringPtr("ACME"),
			States:      map[string]string{"estado_anuncio": "activo"},
			ExtraPrices: map[string]float64{"precio_p": 21.5},
			Flags:       map[string]bool{"ef_tkc": true, "selecto": false},
			IsSelected:  true,
			IsActive:    true,
		},
		{
			Code:     "B-2",
			Name:     "Lampara",
			PriceUSD: 7,
			Category: types.StringPtr("Hogar"),
			IsActive: false,
		},
		{
			Code:     "C-3",
			Name:     "Taza",
			PriceUSD: 3.5,
			Category: types.StringPtr("Cocina"),
			IsActive: true,
		},
	}
}

func TestFilter(t *testing.T) {
	items := sampleItems()

	tests := []struct {
		name     string
		opts     Options
		expected []string
	}{
		{"active only by default", Options{}, []string{"A-1", "C-3"}},
		{"include inactive", Options{IncludeInactive: true}, []string{"A-1", "B-2", "C-3"}},
		{"only selected", Options{OnlySelected: true}, []string{"A-1"}},
		{"by category", Options{Category: "Cocina"}, []string{"C-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := Filter(items, tt.opts)
			codes := make([]string, 0, len(filtered))
			for _, it := range filtered {
				codes = append(codes, it.Code)
			}
			assert.Equal(t, tt.expected, codes)
		})
	}
}

func TestResolveDottedPaths(t *testing.T) {
	item := sampleItems()[0]

	v, ok := resolve(&item, "extra_prices.precio_p")
	require.True(t, ok)
	assert.Equal(t, 21.5, v)

	v, ok = resolve(&item, "states.estado_anuncio")
	require.True(t, ok)
	assert.Equal(t, "activo", v)

	_, ok = resolve(&item, "extra_prices.precio_m")
	assert.False(t, ok)

	_, ok = resolve(&item, "warehouse")
	assert.False(t, ok, "nil pointer fields resolve to missing")
}

func TestCatalogCSV(t *testing.T) {
	data, err := CatalogCSV(sampleItems(), Options{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Headers(), records[0])
	assert.Len(t, records[0], 20)

	first := records[1]
	assert.Equal(t, "A-1", first[0])
	assert.Equal(t, "Ventilador", first[1])
	assert.Equal(t, "19.99", first[2])
	assert.Equal(t, "21.5", first[7])
	assert.Equal(t, "Sí", first[10])
	assert.Equal(t, "activo", first[12])
	assert.Equal(t, "Sí", first[15])
	assert.Equal(t, "Sí", first[19])
}

func TestCatalogCSVNoItems(t *testing.T) {
	_, err := CatalogCSV(sampleItems(), Options{Category: "Jardin"})
	assert.ErrorIs(t, err, ErrNoItems)
}

func TestCatalogXLSX(t *testing.T) {
	data, err := CatalogXLSX(sampleItems(), Options{IncludeInactive: true})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Catalogo")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Codigo", rows[0][0])
	assert.Equal(t, "Activo", rows[0][19])
	assert.Equal(t, "B-2", rows[2][0])
}

func TestFilename(t *testing.T) {
	now := time.Date(2024, 5, 17, 10, 0, 0, 0, time.UTC)

	name := Filename(Options{CatalogName: "Mi Catálogo"}, "xlsx", now)
	assert.Equal(t, "Mi_Catálogo_2024-05-17.xlsx", name)

	name = Filename(Options{CatalogName: "cat", OnlySelected: true, Category: "Hogar"}, "csv", now)
	assert.Equal(t, "cat_2024-05-17_selectos_Hogar.csv", name)

	name = Filename(Options{CatalogName: "a/b:c"}, "csv", now)
	assert.False(t, strings.ContainsAny(name, "/:"))
}
