package entrada

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mielsur/acopio-api/internal/application/dto"
	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/entity"
	"github.com/mielsur/acopio-api/internal/domain/miel"
	"github.com/mielsur/acopio-api/internal/domain/repository"
)

// UseCase registra entradas de miel cruda y las anula en cascada.
// Cada renglón pesado se clasifica por humedad y nace como lote DISPONIBLE
// con un orden de llegada monotónico (la base FIFO de todo el motor).
type UseCase struct {
	txRunner     TxRunner
	tipoMielRepo repository.TipoMielRepository
	precioRepo   repository.PrecioRepository
	loteRepo     repository.LoteRepository
	entradaRepo  repository.EntradaRepository
}

// NewUseCase construye el caso de uso de entradas.
func NewUseCase(
	txRunner TxRunner,
	tipoMielRepo repository.TipoMielRepository,
	precioRepo repository.PrecioRepository,
	loteRepo repository.LoteRepository,
	entradaRepo repository.EntradaRepository,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		tipoMielRepo: tipoMielRepo,
		precioRepo:   precioRepo,
		loteRepo:     loteRepo,
		entradaRepo:  entradaRepo,
	}
}

// Registrar valida cada renglón (tipo de miel existente, humedad en rango,
// cantidad > 0), deriva la clasificación, pre-llena el precio declarado desde
// la lista de precios y persiste entrada + lotes en una sola transacción.
func (uc *UseCase) Registrar(ctx context.Context, in dto.RegistrarEntradaRequest, userID string) (*entity.Entrada, []*entity.Lote, error) {
	if in.ProveedorID == "" || len(in.Lotes) == 0 {
		return nil, nil, domain.ErrInvalidInput
	}

	now := time.Now()
	fecha := now
	if in.Fecha != nil {
		fecha = *in.Fecha
	}

	ent := &entity.Entrada{
		ID:          uuid.New().String(),
		ProveedorID: in.ProveedorID,
		Estado:      entity.EntradaActiva,
		Fecha:       fecha,
		CreatedAt:   now,
		CreatedBy:   userID,
	}

	// Validar y armar los lotes fuera de la transacción; la clasificación es
	// una función pura de la humedad.
	lotes := make([]*entity.Lote, 0, len(in.Lotes))
	for _, li := range in.Lotes {
		if !li.CantidadKg.GreaterThan(decimal.Zero) {
			return nil, nil, domain.ErrInvalidQuantity
		}
		clasif, err := miel.Clasificar(li.HumedadPct)
		if err != nil {
			return nil, nil, err
		}
		tipo, err := uc.tipoMielRepo.GetByID(ctx, li.TipoMielID)
		if err != nil {
			return nil, nil, err
		}
		if tipo == nil {
			return nil, nil, domain.ErrNotFound
		}

		// Lista de precios: pre-llenado, nunca validación. Sin precio cargado
		// el lote queda en cero y el operador lo corrige después.
		precioUnitario := decimal.Zero
		if p, err := uc.precioRepo.Get(ctx, li.TipoMielID, clasif); err == nil && p != nil {
			precioUnitario = p.PrecioKg
		}

		lotes = append(lotes, &entity.Lote{
			ID:             uuid.New().String(),
			EntradaID:      ent.ID,
			TipoMielID:     li.TipoMielID,
			HumedadPct:     li.HumedadPct,
			Clasificacion:  clasif,
			CantidadKg:     li.CantidadKg,
			PrecioUnitario: precioUnitario,
			Estado:         entity.LoteDisponible,
			CreatedAt:      now,
		})
	}

	// Persistir todo-o-nada. El orden de llegada lo asigna el repositorio al
	// crear (secuencia estrictamente creciente).
	err := uc.txRunner.Run(ctx, func(
		entradaRepo repository.EntradaRepository,
		loteRepo repository.LoteRepository,
	) error {
		if err := entradaRepo.Create(ctx, ent); err != nil {
			return err
		}
		for _, l := range lotes {
			if err := loteRepo.Create(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return ent, lotes, nil
}

// Anular cascadea CANCELLED a todos los lotes de la entrada. Lotes ya
// CANCELLED son no-op (anular dos veces no es error). Si algún lote ya fue
// CONSUMIDO por una salida, la anulación completa se rechaza con
// ErrLotAlreadyConsumed: la salida es la fuente de verdad de ahí en adelante.
func (uc *UseCase) Anular(ctx context.Context, entradaID string) error {
	return uc.txRunner.Run(ctx, func(
		entradaRepo repository.EntradaRepository,
		loteRepo repository.LoteRepository,
	) error {
		ent, err := entradaRepo.GetByID(ctx, entradaID)
		if err != nil {
			return err
		}
		if ent == nil {
			return domain.ErrNotFound
		}

		lotes, err := loteRepo.ListByEntrada(ctx, entradaID)
		if err != nil {
			return err
		}
		// Primera pasada: solo verificación, sin mutar nada, para que el
		// rechazo no deje cancelaciones parciales.
		for _, l := range lotes {
			if l.Estado == entity.LoteConsumido {
				return domain.ErrLotAlreadyConsumed
			}
		}
		for _, l := range lotes {
			if l.Estado == entity.LoteAnulado {
				continue
			}
			if err := loteRepo.Anular(ctx, l.ID); err != nil {
				return err
			}
		}
		if ent.Estado == entity.EntradaAnulada {
			return nil
		}
		return entradaRepo.Anular(ctx, entradaID)
	})
}

// GetConLotes devuelve la entrada con sus lotes.
func (uc *UseCase) GetConLotes(ctx context.Context, entradaID string) (*entity.Entrada, []*entity.Lote, error) {
	ent, err := uc.entradaRepo.GetByID(ctx, entradaID)
	if err != nil {
		return nil, nil, err
	}
	if ent == nil {
		return nil, nil, domain.ErrNotFound
	}
	lotes, err := uc.loteRepo.ListByEntrada(ctx, entradaID)
	if err != nil {
		return nil, nil, err
	}
	return ent, lotes, nil
}

// LotesDisponibles devuelve lotes AVAILABLE que cumplen el filtro, en orden
// FIFO (ascendente por orden de llegada).
func (uc *UseCase) LotesDisponibles(ctx context.Context, f repository.LoteFiltro) ([]*entity.Lote, error) {
	if f.Clasificacion != "" && !miel.Clasificacion(f.Clasificacion).EsValida() {
		return nil, domain.ErrInvalidInput
	}
	return uc.loteRepo.ListDisponibles(ctx, f)
}
