package dto

import "github.com/shopspring/decimal"

// BorradorDTO estado de un borrador de tambor en memoria.
type BorradorDTO struct {
	ID            string          `json:"id"`
	Estado        string          `json:"estado"`
	TipoMielID    string          `json:"tipo_miel_id,omitempty"`
	Clasificacion string          `json:"clasificacion,omitempty"`
	Banda         string          `json:"banda,omitempty"`
	TotalKg       decimal.Decimal `json:"total_kg"`
	Advertencia   bool            `json:"advertencia"` // total > 300 kg, solo atención del operador
	Lotes         []LoteDTO       `json:"lotes"`
}

// TamborDTO representación de un tambor persistido.
type TamborDTO struct {
	ID            string          `json:"id"`
	TipoMielID    string          `json:"tipo_miel_id"`
	Clasificacion string          `json:"clasificacion"`
	Banda         string          `json:"banda"`
	CantidadKg    decimal.Decimal `json:"cantidad_kg"`
	Estado        string          `json:"estado"`
	Advertencia   bool            `json:"advertencia"`
}

// ComprometerLoteRequest body para agregar/quitar un lote de un borrador.
type ComprometerLoteRequest struct {
	LoteID string `json:"lote_id"`
}

// ComprometerBatchRequest body para comprometer varios borradores en un solo
// gesto del operador.
type ComprometerBatchRequest struct {
	BorradorIDs []string `json:"borrador_ids"`
}

// ComprometerBatchResponse resultado del batch: los borradores ya
// comprometidos NO se revierten si uno posterior falla.
type ComprometerBatchResponse struct {
	Comprometidos []TamborDTO `json:"comprometidos"`
	FallidoID     string      `json:"fallido_id,omitempty"`
	Error         string      `json:"error,omitempty"`
}
