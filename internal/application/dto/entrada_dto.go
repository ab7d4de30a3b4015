package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoteInput un renglón pesado de la entrada. La clasificación NO viene en el
// request: se deriva siempre de la humedad medida.
type LoteInput struct {
	TipoMielID string          `json:"tipo_miel_id"`
	HumedadPct decimal.Decimal `json:"humedad_pct"`
	CantidadKg decimal.Decimal `json:"cantidad_kg"`
}

// RegistrarEntradaRequest body para POST /api/entradas.
type RegistrarEntradaRequest struct {
	ProveedorID string      `json:"proveedor_id"`
	Fecha       *time.Time  `json:"fecha,omitempty"`
	Lotes       []LoteInput `json:"lotes"`
}

// LoteDTO representación de un lote en respuestas.
type LoteDTO struct {
	ID             string          `json:"id"`
	EntradaID      string          `json:"entrada_id"`
	OrdenLlegada   int64           `json:"orden_llegada"`
	TipoMielID     string          `json:"tipo_miel_id"`
	HumedadPct     decimal.Decimal `json:"humedad_pct"`
	Clasificacion  string          `json:"clasificacion"`
	CantidadKg     decimal.Decimal `json:"cantidad_kg"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Estado         string          `json:"estado"`
	TamborID       *string         `json:"tambor_id,omitempty"`
	SalidaID       *string         `json:"salida_id,omitempty"`
}

// EntradaResponse respuesta de registro de entrada.
type EntradaResponse struct {
	ID          string    `json:"id"`
	ProveedorID string    `json:"proveedor_id"`
	Estado      string    `json:"estado"`
	Fecha       time.Time `json:"fecha"`
	Lotes       []LoteDTO `json:"lotes"`
}
