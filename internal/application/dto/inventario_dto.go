package dto

import "github.com/shopspring/decimal"

// ResumenInventarioDTO disponibilidad agregada por (tipo de miel,
// clasificación). Siempre recomputado desde el estado de los lotes, nunca un
// contador mutado aparte.
type ResumenInventarioDTO struct {
	TipoMielID    string          `json:"tipo_miel_id"`
	Clasificacion string          `json:"clasificacion"`
	DisponibleKg  decimal.Decimal `json:"disponible_kg"`
	Lotes         int             `json:"lotes"`
}

// SuficienciaDTO respuesta de chequeo de stock. Es una foto: el llamador
// debe re-verificar dentro de la operación que consume.
type SuficienciaDTO struct {
	TipoMielID    string          `json:"tipo_miel_id"`
	Clasificacion string          `json:"clasificacion"`
	SolicitadoKg  decimal.Decimal `json:"solicitado_kg"`
	DisponibleKg  decimal.Decimal `json:"disponible_kg"`
	Suficiente    bool            `json:"suficiente"`
}
