package entity

import "time"

// Estados de una entrada de miel cruda.
const (
	EntradaActiva  = "ACTIVE"
	EntradaAnulada = "CANCELLED"
)

// Entrada agrupa los lotes pesados de una misma recepción de un proveedor.
// Anular una entrada cascadea CANCELLED a todos sus lotes hijos, salvo que
// alguno ya haya sido consumido por una salida (la salida manda).
type Entrada struct {
	ID          string
	ProveedorID string
	Estado      string
	Fecha       time.Time
	CreatedAt   time.Time
	CreatedBy   string
}
