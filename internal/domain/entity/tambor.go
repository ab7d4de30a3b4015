package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mielsur/acopio-api/internal/domain/miel"
)

// Estados de un tambor consolidado. El borrador previo al commit es local al
// consolidador (ver domain/consolidacion); en persistencia un tambor nace
// ACTIVE con sus lotes ya vinculados.
const (
	TamborActivo  = "ACTIVE"
	TamborAnulado = "CANCELLED"
)

// Capacidad física de un tambor en kilogramos. 350 es tope duro (rechazo);
// 300 es umbral de advertencia para el operador, nunca un rechazo.
var (
	TamborCapacidadKg  = decimal.NewFromInt(350)
	TamborAdvertenciaKg = decimal.NewFromInt(300)
)

// Tambor es una unidad física de consolidación de lotes homogéneos: mismo
// tipo de miel, misma clasificación y misma banda de humedad.
type Tambor struct {
	ID            string
	TipoMielID    string
	Clasificacion miel.Clasificacion
	Banda         miel.Banda
	CantidadKg    decimal.Decimal // suma de los lotes miembros
	Estado        string
	CreatedAt     time.Time
	CreatedBy     string
}

// Advertencia reporta si el tambor supera el umbral de atención del operador.
// Es solo presentación: la lógica de capacidad nunca rechaza por esto.
func (t *Tambor) Advertencia() bool {
	return t.CantidadKg.GreaterThan(TamborAdvertenciaKg)
}
