// Package asignacion implementa el plan de consumo FIFO de una línea de
// salida: lotes enteros, el más antiguo primero, hasta cubrir lo solicitado.
package asignacion

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/entity"
)

// Consumo es un renglón del plan: un lote entero a consumir.
type Consumo struct {
	LoteID     string
	CantidadKg decimal.Decimal
}

// Plan es la secuencia ordenada de lotes a consumir para una línea.
type Plan struct {
	Consumos []Consumo
	TotalKg  decimal.Decimal // puede superar lo solicitado: los lotes no se parten
}

// Planificar consume lotes DISPONIBLES en orden ascendente de llegada hasta
// que el acumulado alcanza o supera solicitadoKg. Si el último lote consumido
// sobrepasa lo pedido, igual se toma entero (la granularidad es física).
//
// Los lotes se reordenan defensivamente por OrdenLlegada; el llamador debe
// pasarlos ya filtrados por (tipo, clasificación) y estado AVAILABLE.
// Devuelve *domain.InsufficientStockError con solicitado y disponible si el
// total disponible no cubre lo pedido.
func Planificar(disponibles []*entity.Lote, tipoMielID, clasificacion string, solicitadoKg decimal.Decimal) (*Plan, error) {
	if !solicitadoKg.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	orden := make([]*entity.Lote, len(disponibles))
	copy(orden, disponibles)
	sort.SliceStable(orden, func(i, j int) bool {
		return orden[i].OrdenLlegada < orden[j].OrdenLlegada
	})

	disponibleTotal := decimal.Zero
	for _, l := range orden {
		disponibleTotal = disponibleTotal.Add(l.CantidadKg)
	}
	if disponibleTotal.LessThan(solicitadoKg) {
		return nil, &domain.InsufficientStockError{
			TipoMielID:    tipoMielID,
			Clasificacion: clasificacion,
			Solicitado:    solicitadoKg,
			Disponible:    disponibleTotal,
		}
	}

	plan := &Plan{TotalKg: decimal.Zero}
	for _, l := range orden {
		if plan.TotalKg.GreaterThanOrEqual(solicitadoKg) {
			break
		}
		plan.Consumos = append(plan.Consumos, Consumo{LoteID: l.ID, CantidadKg: l.CantidadKg})
		plan.TotalKg = plan.TotalKg.Add(l.CantidadKg)
	}
	return plan, nil
}
