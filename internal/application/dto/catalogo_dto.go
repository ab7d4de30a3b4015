package dto

import "github.com/shopspring/decimal"

// CrearTipoMielRequest body para registrar una variedad floral. El código se
// deriva del nombre, no viene en el request.
type CrearTipoMielRequest struct {
	Nombre string `json:"nombre"`
}

// TipoMielDTO representación de un tipo de miel.
type TipoMielDTO struct {
	ID     string `json:"id"`
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
}

// UpsertPrecioRequest body para fijar el precio de una clave
// (tipo, clasificación) en la lista de precios.
type UpsertPrecioRequest struct {
	TipoMielID    string          `json:"tipo_miel_id"`
	Clasificacion string          `json:"clasificacion"`
	PrecioKg      decimal.Decimal `json:"precio_kg"`
}

// PrecioDTO renglón de la lista de precios.
type PrecioDTO struct {
	TipoMielID    string          `json:"tipo_miel_id"`
	Clasificacion string          `json:"clasificacion"`
	PrecioKg      decimal.Decimal `json:"precio_kg"`
}
