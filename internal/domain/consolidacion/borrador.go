// Package consolidacion implementa la máquina de estados del borrador de
// tambor: el agrupamiento en memoria de lotes homogéneos previo al commit.
// Toda la lógica es pura; la orquestación transaccional vive en
// application/tambor.
package consolidacion

import (
	"github.com/shopspring/decimal"

	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/entity"
	"github.com/mielsur/acopio-api/internal/domain/miel"
)

// Estados del borrador. VACIO → ARMANDO → LISTO, con COMPROMETIDO y
// DESCARTADO como terminales.
const (
	BorradorVacio        = "EMPTY"
	BorradorArmando      = "BUILDING"
	BorradorListo        = "READY_TO_COMMIT"
	BorradorComprometido = "COMMITTED"
	BorradorDescartado   = "DISCARDED"
)

// Borrador acumula lotes candidatos a un tambor. El primer lote agregado es
// el lote de referencia: fija tipo de miel, clasificación y banda de humedad
// que todo miembro posterior debe igualar.
type Borrador struct {
	ID     string
	estado string
	lotes  []*entity.Lote

	refTipoMielID    string
	refClasificacion miel.Clasificacion
	refBanda         miel.Banda
}

// NuevoBorrador crea un borrador vacío.
func NuevoBorrador(id string) *Borrador {
	return &Borrador{ID: id, estado: BorradorVacio}
}

// Estado devuelve el estado actual del borrador.
func (b *Borrador) Estado() string { return b.estado }

// Lotes devuelve los lotes miembros en orden de agregado.
func (b *Borrador) Lotes() []*entity.Lote { return b.lotes }

// TotalKg suma las cantidades de los lotes miembros.
func (b *Borrador) TotalKg() decimal.Decimal {
	total := decimal.Zero
	for _, l := range b.lotes {
		total = total.Add(l.CantidadKg)
	}
	return total
}

// Advertencia reporta si el total supera el umbral de atención (300 kg).
// Solo presentación: nunca es motivo de rechazo.
func (b *Borrador) Advertencia() bool {
	return b.TotalKg().GreaterThan(entity.TamborAdvertenciaKg)
}

// AgregarLote valida e incorpora un lote al borrador.
//
//	ErrLotUnavailable   si el lote no está AVAILABLE o ya está en el borrador
//	ErrIncompatibleLot  si tipo, clasificación o banda difieren del lote de referencia
//	ErrCapacityExceeded si el total superaría los 350 kg
func (b *Borrador) AgregarLote(lote *entity.Lote) error {
	if b.estado == BorradorComprometido || b.estado == BorradorDescartado {
		return domain.ErrInvalidTransition
	}
	if lote.Estado != entity.LoteDisponible {
		return domain.ErrLotUnavailable
	}
	if b.contiene(lote.ID) {
		return domain.ErrLotUnavailable
	}
	if b.estado != BorradorVacio {
		if lote.TipoMielID != b.refTipoMielID ||
			lote.Clasificacion != b.refClasificacion ||
			lote.Banda() != b.refBanda {
			return domain.ErrIncompatibleLot
		}
	}
	if b.TotalKg().Add(lote.CantidadKg).GreaterThan(entity.TamborCapacidadKg) {
		return domain.ErrCapacityExceeded
	}
	if b.estado == BorradorVacio {
		b.refTipoMielID = lote.TipoMielID
		b.refClasificacion = lote.Clasificacion
		b.refBanda = lote.Banda()
	}
	b.lotes = append(b.lotes, lote)
	b.estado = BorradorArmando
	return nil
}

// QuitarLote remueve un lote del borrador. Siempre permitido antes del
// commit; devuelve ErrNotFound si el lote no es miembro.
func (b *Borrador) QuitarLote(loteID string) error {
	if b.estado == BorradorComprometido || b.estado == BorradorDescartado {
		return domain.ErrInvalidTransition
	}
	for i, l := range b.lotes {
		if l.ID == loteID {
			b.lotes = append(b.lotes[:i], b.lotes[i+1:]...)
			if len(b.lotes) == 0 {
				b.estado = BorradorVacio
				b.refTipoMielID = ""
				b.refClasificacion = ""
				b.refBanda = ""
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

// Preparar valida que el borrador sea comprometible (no vacío y dentro de
// capacidad) y lo marca LISTO.
func (b *Borrador) Preparar() error {
	if b.estado != BorradorArmando && b.estado != BorradorListo {
		return domain.ErrInvalidTransition
	}
	if len(b.lotes) == 0 {
		return domain.ErrInvalidInput
	}
	if b.TotalKg().GreaterThan(entity.TamborCapacidadKg) {
		return domain.ErrCapacityExceeded
	}
	b.estado = BorradorListo
	return nil
}

// MarcarComprometido pasa el borrador a su terminal COMPROMETIDO. Lo invoca
// el consolidador después de que la transacción de commit confirmó.
func (b *Borrador) MarcarComprometido() error {
	if b.estado != BorradorListo {
		return domain.ErrInvalidTransition
	}
	b.estado = BorradorComprometido
	return nil
}

// Descartar abandona el borrador sin efecto sobre inventario.
func (b *Borrador) Descartar() error {
	if b.estado == BorradorComprometido || b.estado == BorradorDescartado {
		return domain.ErrInvalidTransition
	}
	b.estado = BorradorDescartado
	return nil
}

// Referencia devuelve la clave de homogeneidad fijada por el primer lote.
func (b *Borrador) Referencia() (tipoMielID string, c miel.Clasificacion, banda miel.Banda) {
	return b.refTipoMielID, b.refClasificacion, b.refBanda
}

func (b *Borrador) contiene(loteID string) bool {
	for _, l := range b.lotes {
		if l.ID == loteID {
			return true
		}
	}
	return false
}
