// Package inventario implementa el libro de inventario derivado: la
// disponibilidad por (tipo de miel, clasificación) se recomputa siempre
// desde el estado de los lotes, nunca se mantiene como contador aparte,
// para que no pueda derivar.
package inventario

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mielsur/acopio-api/internal/application/dto"
	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/miel"
	"github.com/mielsur/acopio-api/internal/domain/repository"
)

// UseCase agrega disponibilidad sobre el registro de lotes.
type UseCase struct {
	loteRepo repository.LoteRepository
}

// NewUseCase construye el libro de inventario.
func NewUseCase(loteRepo repository.LoteRepository) *UseCase {
	return &UseCase{loteRepo: loteRepo}
}

// Resumen devuelve la disponibilidad por clave, recomputada bajo demanda.
func (uc *UseCase) Resumen(ctx context.Context) ([]dto.ResumenInventarioDTO, error) {
	lotes, err := uc.loteRepo.ListDisponibles(ctx, repository.LoteFiltro{})
	if err != nil {
		return nil, err
	}

	type clave struct {
		tipo   string
		clasif string
	}
	acumulado := make(map[clave]*dto.ResumenInventarioDTO)
	for _, l := range lotes {
		k := clave{tipo: l.TipoMielID, clasif: string(l.Clasificacion)}
		r, ok := acumulado[k]
		if !ok {
			r = &dto.ResumenInventarioDTO{
				TipoMielID:    l.TipoMielID,
				Clasificacion: string(l.Clasificacion),
				DisponibleKg:  decimal.Zero,
			}
			acumulado[k] = r
		}
		r.DisponibleKg = r.DisponibleKg.Add(l.CantidadKg)
		r.Lotes++
	}

	resumen := make([]dto.ResumenInventarioDTO, 0, len(acumulado))
	for _, r := range acumulado {
		resumen = append(resumen, *r)
	}
	sort.Slice(resumen, func(i, j int) bool {
		if resumen[i].TipoMielID != resumen[j].TipoMielID {
			return resumen[i].TipoMielID < resumen[j].TipoMielID
		}
		return resumen[i].Clasificacion < resumen[j].Clasificacion
	})
	return resumen, nil
}

// VerificarSuficiencia responde si el disponible cubre lo solicitado para
// una clave. Sin efectos: es una foto, y quien consuma debe re-verificar
// dentro de su propia transacción.
func (uc *UseCase) VerificarSuficiencia(ctx context.Context, tipoMielID, clasificacion string, solicitadoKg decimal.Decimal) (*dto.SuficienciaDTO, error) {
	if tipoMielID == "" || !miel.Clasificacion(clasificacion).EsValida() {
		return nil, domain.ErrInvalidInput
	}
	if !solicitadoKg.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	lotes, err := uc.loteRepo.ListDisponibles(ctx, repository.LoteFiltro{
		TipoMielID:    tipoMielID,
		Clasificacion: clasificacion,
	})
	if err != nil {
		return nil, err
	}
	disponible := decimal.Zero
	for _, l := range lotes {
		disponible = disponible.Add(l.CantidadKg)
	}
	return &dto.SuficienciaDTO{
		TipoMielID:    tipoMielID,
		Clasificacion: clasificacion,
		SolicitadoKg:  solicitadoKg,
		DisponibleKg:  disponible,
		Suficiente:    disponible.GreaterThanOrEqual(solicitadoKg),
	}, nil
}
