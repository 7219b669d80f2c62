// Package fields holds the fixed catalog of system fields a spreadsheet
// column can be mapped to. Declaration order matters: the auto-mapper
// assigns columns to fields in this order, first come wins.
package fields

import "github.com/catalogo/catalog-service/internal/types"

// Well-known field keys referenced across the pipeline
const (
	KeyCode         = "codigo"
	KeyName         = "producto"
	KeyPrice        = "precio"
	KeyImage        = "imagen"
	KeySupplier     = "suministrador"
	KeyWarehouse    = "almacen"
	KeyCategory     = "categoria"
	KeyPriceP       = "precio_p"
	KeyPriceM       = "precio_m"
	KeyImageFilter  = "filtro_imagenes"
	KeyEfTkc        = "ef_tkc"
	KeyStoreID      = "id_tienda"
	KeyStateAd      = "estado_anuncio"
	KeyStateStore   = "estado_tienda"
	KeyStoreName    = "tienda"
	KeySelected     = "selecto"
	KeyCategoryF1   = "cat_f1"
	KeyCategoryF2   = "cat_f2"
	KeyCategoryF3   = "cat_f3"
)

var systemFields = []types.SystemField{
	{Key: KeyCode, Label: "Codigo", Required: true, Type: types.FieldText, MaxLength: 100},
	{Key: KeyName, Label: "Producto", Required: true, Type: types.FieldText, MaxLength: 500},
	{Key: KeyPrice, Label: "Precio", Required: true, Type: types.FieldNumber},
	{Key: KeyImage, Label: "Imagen", Required: false, Type: types.FieldURL},
	{Key: KeySupplier, Label: "Suministrador", Required: false, Type: types.FieldText, MaxLength: 200},
	{Key: KeyWarehouse, Label: "Almacen", Required: false, Type: types.FieldText, MaxLength: 200},
	{Key: KeyCategory, Label: "Categoria", Required: false, Type: types.FieldText, MaxLength: 200},
	{Key: KeyPriceP, Label: "Precio P", Required: false, Type: types.FieldNumber},
	{Key: KeyPriceM, Label: "Precio M.", Required: false, Type: types.FieldNumber},
	{Key: KeyImageFilter, Label: "Filtro para Imagenes", Required: false, Type: types.FieldText},
	{Key: KeyEfTkc, Label: "EF TKC", Required: false, Type: types.FieldText},
	{Key: KeyStoreID, Label: "ID Tienda", Required: false, Type: types.FieldText, MaxLength: 100},
	{Key: KeyStateAd, Label: "Estado Anuncio", Required: false, Type: types.FieldText},
	{Key: KeyStateStore, Label: "Estado en Tienda", Required: false, Type: types.FieldText},
	{Key: KeyStoreName, Label: "Tienda", Required: false, Type: types.FieldText, MaxLength: 200},
	{Key: KeySelected, Label: "Selecto", Required: false, Type: types.FieldBoolean},
	{Key: KeyCategoryF1, Label: "Cat.F1", Required: false, Type: types.FieldText, MaxLength: 200},
	{Key: KeyCategoryF2, Label: "Cat.F2", Required: false, Type: types.FieldText, MaxLength: 200},
	{Key: KeyCategoryF3, Label: "Cat.F3", Required: false, Type: types.FieldText, MaxLength: 200},
}

// All returns the system fields in declaration order. The returned
// slice is a copy; callers may reorder it freely.
func All() []types.SystemField {
	out := make([]types.SystemField, len(systemFields))
	copy(out, systemFields)
	return out
}

// ByKey returns the field with the given key, if declared
func ByKey(key string) (types.SystemField, bool) {
	for _, f := range systemFields {
		if f.Key == key {
			return f, true
		}
	}
	return types.SystemField{}, false
}
