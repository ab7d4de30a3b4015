package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/miel"
)

// Estados del ciclo de vida de un lote. El consumo es por lote entero: la
// cantidad nunca se muta después de la creación, solo cambian Estado y las
// referencias TamborID/SalidaID.
const (
	LoteDisponible = "AVAILABLE" // recién pesado, consumible
	LoteAsignado   = "ASSIGNED"  // vinculado a un tambor activo
	LoteConsumido  = "CONSUMED"  // despachado en una salida (terminal salvo acción administrativa)
	LoteAnulado    = "CANCELLED" // entrada anulada (terminal)
)

// Lote es un renglón pesado de una entrada: la unidad mínima de inventario.
// OrdenLlegada es monotónico y define el orden FIFO de consumo; la fecha es
// solo un atributo de presentación, nunca la clave de orden.
type Lote struct {
	ID             string
	EntradaID      string
	OrdenLlegada   int64
	TipoMielID     string
	HumedadPct     decimal.Decimal
	Clasificacion  miel.Clasificacion
	CantidadKg     decimal.Decimal
	PrecioUnitario decimal.Decimal // pre-llenado desde la lista de precios; nunca se valida contra ella
	Estado         string
	TamborID       *string // seteado solo mientras ASSIGNED o CONSUMED vía tambor
	SalidaID       *string // seteado al finalizar la salida que lo consumió
	CreatedAt      time.Time
}

// transicionesLote define la máquina de estados permitida de un lote.
var transicionesLote = map[string][]string{
	LoteDisponible: {LoteAsignado, LoteConsumido, LoteAnulado},
	LoteAsignado:   {LoteDisponible, LoteConsumido, LoteAnulado},
	LoteConsumido:  {},
	LoteAnulado:    {},
}

// PuedeTransicionar reporta si el lote admite pasar de su estado actual a destino.
func (l *Lote) PuedeTransicionar(destino string) bool {
	for _, permitido := range transicionesLote[l.Estado] {
		if permitido == destino {
			return true
		}
	}
	return false
}

// Transicionar aplica la transición con guarda optimista: falla con
// ErrInvalidTransition si el estado actual no coincide con desde (estado
// stale del cliente) o si la transición no está permitida.
func (l *Lote) Transicionar(desde, hacia string) error {
	if l.Estado != desde {
		return domain.ErrInvalidTransition
	}
	if !l.PuedeTransicionar(hacia) {
		return domain.ErrInvalidTransition
	}
	l.Estado = hacia
	return nil
}

// Banda devuelve la banda de humedad del lote (para homogeneidad de tambor).
func (l *Lote) Banda() miel.Banda {
	return miel.BandaDe(l.HumedadPct)
}
