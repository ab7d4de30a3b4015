package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CrearSalidaRequest body para POST /api/salidas.
type CrearSalidaRequest struct {
	TransportistaID string `json:"transportista_id"`
}

// LineaSalidaRequest body para agregar una línea a una salida en borrador.
type LineaSalidaRequest struct {
	TipoMielID    string          `json:"tipo_miel_id"`
	Clasificacion string          `json:"clasificacion"`
	SolicitadoKg  decimal.Decimal `json:"solicitado_kg"`
}

// LineaSalidaDTO representación de una línea en respuestas.
type LineaSalidaDTO struct {
	ID            string          `json:"id"`
	TipoMielID    string          `json:"tipo_miel_id"`
	Clasificacion string          `json:"clasificacion"`
	SolicitadoKg  decimal.Decimal `json:"solicitado_kg"`
}

// SalidaDTO representación de una salida.
type SalidaDTO struct {
	ID              string           `json:"id"`
	TransportistaID string           `json:"transportista_id"`
	Estado          string           `json:"estado"`
	Lineas          []LineaSalidaDTO `json:"lineas"`
	FinalizadaAt    *time.Time       `json:"finalizada_at,omitempty"`
}

// ConsumoDTO un renglón del plan de asignación FIFO: un lote entero.
type ConsumoDTO struct {
	LoteID       string          `json:"lote_id"`
	OrdenLlegada int64           `json:"orden_llegada"`
	CantidadKg   decimal.Decimal `json:"cantidad_kg"`
}

// PlanLineaDTO previsualización del plan para una línea. TotalKg puede
// superar lo solicitado porque los lotes se consumen enteros.
type PlanLineaDTO struct {
	TipoMielID    string          `json:"tipo_miel_id"`
	Clasificacion string          `json:"clasificacion"`
	SolicitadoKg  decimal.Decimal `json:"solicitado_kg"`
	TotalKg       decimal.Decimal `json:"total_kg"`
	Consumos      []ConsumoDTO    `json:"consumos"`
}

// FinalizarSalidaResponse resultado del finalize: la salida pasó a
// IN_TRANSIT y los lotes planificados quedaron CONSUMED.
type FinalizarSalidaResponse struct {
	Salida  SalidaDTO       `json:"salida"`
	Planes  []PlanLineaDTO  `json:"planes"`
	TotalKg decimal.Decimal `json:"total_kg"`
}
