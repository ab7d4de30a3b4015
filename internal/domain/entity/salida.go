package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mielsur/acopio-api/internal/domain/miel"
)

// Estados de una salida (despacho a transportista). Solo BORRADOR es mutable
// desde el cliente; EN_TRANSITO → ENTREGADA la confirma un verificador
// externo, no este motor.
const (
	SalidaBorrador  = "DRAFT"
	SalidaEnTransito = "IN_TRANSIT"
	SalidaEntregada  = "DELIVERED"
	SalidaAnulada    = "CANCELLED"
)

// transicionesSalida define la máquina de estados de la salida.
var transicionesSalida = map[string][]string{
	SalidaBorrador:   {SalidaEnTransito, SalidaAnulada},
	SalidaEnTransito: {SalidaEntregada},
	SalidaEntregada:  {},
	SalidaAnulada:    {},
}

// Salida es un despacho de inventario a un transportista. Sus líneas piden
// cantidades por (tipo de miel, clasificación); al finalizar, el asignador
// consume lotes disponibles en orden FIFO estricto.
type Salida struct {
	ID             string
	TransportistaID string
	Estado          string
	Lineas          []LineaSalida
	CreatedAt       time.Time
	CreatedBy       string
	FinalizadaAt    *time.Time
}

// LineaSalida es un renglón de la salida: una cantidad solicitada por clave
// de inventario. El plan puede entregar de más porque los lotes no se parten.
type LineaSalida struct {
	ID            string
	SalidaID      string
	TipoMielID    string
	Clasificacion miel.Clasificacion
	SolicitadoKg  decimal.Decimal
}

// PuedeTransicionar reporta si la salida admite pasar a destino desde su
// estado actual.
func (s *Salida) PuedeTransicionar(destino string) bool {
	for _, permitido := range transicionesSalida[s.Estado] {
		if permitido == destino {
			return true
		}
	}
	return false
}

// EsMutable reporta si la salida acepta cambios de líneas (solo en borrador).
func (s *Salida) EsMutable() bool {
	return s.Estado == SalidaBorrador
}
