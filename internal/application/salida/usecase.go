package salida

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mielsur/acopio-api/internal/application/dto"
	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/asignacion"
	"github.com/mielsur/acopio-api/internal/domain/entity"
	"github.com/mielsur/acopio-api/internal/domain/miel"
	"github.com/mielsur/acopio-api/internal/domain/repository"
)

// UseCase es el asignador de salidas: arma borradores de despacho, planifica
// el consumo FIFO por línea y finaliza consumiendo lotes enteros de forma
// atómica.
type UseCase struct {
	txRunner   TxRunner
	salidaRepo repository.SalidaRepository
	loteRepo   repository.LoteRepository
	remitoGen  RemitoPDFGenerator
}

// NewUseCase construye el asignador de salidas. remitoGen puede ser nil si
// no se sirve el remito PDF.
func NewUseCase(txRunner TxRunner, salidaRepo repository.SalidaRepository, loteRepo repository.LoteRepository, remitoGen RemitoPDFGenerator) *UseCase {
	return &UseCase{txRunner: txRunner, salidaRepo: salidaRepo, loteRepo: loteRepo, remitoGen: remitoGen}
}

// Crear abre una salida en borrador, sin efecto sobre inventario.
func (uc *UseCase) Crear(ctx context.Context, in dto.CrearSalidaRequest, userID string) (*entity.Salida, error) {
	if in.TransportistaID == "" {
		return nil, domain.ErrInvalidInput
	}
	s := &entity.Salida{
		ID:              uuid.New().String(),
		TransportistaID: in.TransportistaID,
		Estado:          entity.SalidaBorrador,
		CreatedAt:       time.Now(),
		CreatedBy:       userID,
	}
	if err := uc.salidaRepo.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// AgregarLinea suma una línea a una salida en borrador. Salidas EN_TRANSITO
// o posteriores son inmutables desde el cliente.
func (uc *UseCase) AgregarLinea(ctx context.Context, salidaID string, in dto.LineaSalidaRequest) (*entity.Salida, error) {
	clasif := miel.Clasificacion(in.Clasificacion)
	if in.TipoMielID == "" || !clasif.EsValida() {
		return nil, domain.ErrInvalidInput
	}
	if !in.SolicitadoKg.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}

	s, err := uc.salidaRepo.GetByID(ctx, salidaID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if !s.EsMutable() {
		return nil, domain.ErrInvalidTransition
	}

	linea := &entity.LineaSalida{
		ID:            uuid.New().String(),
		SalidaID:      salidaID,
		TipoMielID:    in.TipoMielID,
		Clasificacion: clasif,
		SolicitadoKg:  in.SolicitadoKg,
	}
	if err := uc.salidaRepo.AgregarLinea(ctx, linea); err != nil {
		return nil, err
	}
	return uc.salidaRepo.GetByID(ctx, salidaID)
}

// QuitarLinea remueve una línea de una salida en borrador.
func (uc *UseCase) QuitarLinea(ctx context.Context, salidaID, lineaID string) error {
	s, err := uc.salidaRepo.GetByID(ctx, salidaID)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	if !s.EsMutable() {
		return domain.ErrInvalidTransition
	}
	return uc.salidaRepo.QuitarLinea(ctx, salidaID, lineaID)
}

// PlanificarLinea previsualiza el plan FIFO para una línea con el inventario
// actual. Es una foto: el finalize replanifica de cero y descarta cualquier
// plan previo que haya quedado stale.
func (uc *UseCase) PlanificarLinea(ctx context.Context, in dto.LineaSalidaRequest) (*dto.PlanLineaDTO, error) {
	clasif := miel.Clasificacion(in.Clasificacion)
	if in.TipoMielID == "" || !clasif.EsValida() {
		return nil, domain.ErrInvalidInput
	}
	disponibles, err := uc.loteRepo.ListDisponibles(ctx, repository.LoteFiltro{
		TipoMielID:    in.TipoMielID,
		Clasificacion: in.Clasificacion,
	})
	if err != nil {
		return nil, err
	}
	plan, err := asignacion.Planificar(disponibles, in.TipoMielID, in.Clasificacion, in.SolicitadoKg)
	if err != nil {
		return nil, err
	}
	return planADTO(in.TipoMielID, in.Clasificacion, in.SolicitadoKg, plan, disponibles), nil
}

// Finalizar replanifica todas las líneas bajo bloqueo de fila y, solo si
// todas tienen stock, consume los lotes (AVAILABLE → CONSUMED, vinculados a
// la salida) y pasa la salida a EN_TRANSITO. La insuficiencia de una sola
// línea aborta todo; ningún lote cambia de estado. Irreversible desde este
// motor: no hay API que des-consuma lotes después del finalize.
func (uc *UseCase) Finalizar(ctx context.Context, salidaID string) (*entity.Salida, []dto.PlanLineaDTO, error) {
	var resultado *entity.Salida
	var planes []dto.PlanLineaDTO

	err := uc.txRunner.RunSalida(ctx, func(
		salidaRepo repository.SalidaRepository,
		loteRepo repository.LoteRepository,
	) error {
		s, err := salidaRepo.GetForUpdate(ctx, salidaID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if s.Estado != entity.SalidaBorrador {
			return domain.ErrInvalidTransition
		}
		if len(s.Lineas) == 0 {
			return domain.ErrInvalidInput
		}

		// Fase 1: planificar todas las líneas con filas bloqueadas, sin mutar.
		// Los lotes ya planificados en una línea anterior no pueden volver a
		// usarse en la siguiente.
		planes = planes[:0]
		consumidos := make(map[string]bool)
		type consumoPendiente struct {
			loteID string
		}
		var pendientes []consumoPendiente

		for _, linea := range s.Lineas {
			disponibles, err := loteRepo.ListDisponiblesForUpdate(ctx, repository.LoteFiltro{
				TipoMielID:    linea.TipoMielID,
				Clasificacion: string(linea.Clasificacion),
			})
			if err != nil {
				return err
			}
			libres := disponibles[:0:0]
			for _, l := range disponibles {
				if !consumidos[l.ID] {
					libres = append(libres, l)
				}
			}
			plan, err := asignacion.Planificar(libres, linea.TipoMielID, string(linea.Clasificacion), linea.SolicitadoKg)
			if err != nil {
				return err
			}
			for _, c := range plan.Consumos {
				consumidos[c.LoteID] = true
				pendientes = append(pendientes, consumoPendiente{loteID: c.LoteID})
			}
			planes = append(planes, *planADTO(linea.TipoMielID, string(linea.Clasificacion), linea.SolicitadoKg, plan, libres))
		}

		// Fase 2: todas las líneas tienen plan; aplicar consumos y transicionar.
		for _, p := range pendientes {
			if err := loteRepo.ConsumirPorSalida(ctx, p.loteID, salidaID); err != nil {
				return err
			}
		}
		if err := salidaRepo.Transicionar(ctx, salidaID, entity.SalidaBorrador, entity.SalidaEnTransito); err != nil {
			return err
		}
		now := time.Now()
		if err := salidaRepo.SetFinalizada(ctx, salidaID, now); err != nil {
			return err
		}
		s.Estado = entity.SalidaEnTransito
		s.FinalizadaAt = &now
		resultado = s
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return resultado, planes, nil
}

// Anular cancela una salida en borrador. Sin efecto sobre inventario: un
// borrador nunca retuvo lotes.
func (uc *UseCase) Anular(ctx context.Context, salidaID string) error {
	s, err := uc.salidaRepo.GetByID(ctx, salidaID)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.ErrNotFound
	}
	if s.Estado != entity.SalidaBorrador {
		return domain.ErrInvalidTransition
	}
	return uc.salidaRepo.Transicionar(ctx, salidaID, entity.SalidaBorrador, entity.SalidaAnulada)
}

// ConfirmarEntrega registra la confirmación del verificador externo:
// EN_TRANSITO → ENTREGADA. Este motor solo aplica la guarda de transición.
func (uc *UseCase) ConfirmarEntrega(ctx context.Context, salidaID string) error {
	return uc.salidaRepo.Transicionar(ctx, salidaID, entity.SalidaEnTransito, entity.SalidaEntregada)
}

// Get devuelve la salida con sus líneas.
func (uc *UseCase) Get(ctx context.Context, salidaID string) (*entity.Salida, error) {
	s, err := uc.salidaRepo.GetByID(ctx, salidaID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// List devuelve salidas paginadas.
func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]*entity.Salida, error) {
	return uc.salidaRepo.List(ctx, limit, offset)
}

// GenerarRemito arma el remito PDF de una salida ya finalizada con sus lotes
// consumidos.
func (uc *UseCase) GenerarRemito(ctx context.Context, salidaID string) ([]byte, error) {
	if uc.remitoGen == nil {
		return nil, domain.ErrNotFound
	}
	s, err := uc.Get(ctx, salidaID)
	if err != nil {
		return nil, err
	}
	if s.Estado == entity.SalidaBorrador || s.Estado == entity.SalidaAnulada {
		return nil, domain.ErrInvalidTransition
	}
	lotes, err := uc.loteRepo.ListBySalida(ctx, salidaID)
	if err != nil {
		return nil, err
	}
	return uc.remitoGen.GenerarRemitoPDF(ctx, s, lotes)
}

func planADTO(tipoMielID, clasificacion string, solicitado decimal.Decimal, plan *asignacion.Plan, lotes []*entity.Lote) *dto.PlanLineaDTO {
	ordenPorLote := make(map[string]int64, len(lotes))
	for _, l := range lotes {
		ordenPorLote[l.ID] = l.OrdenLlegada
	}
	out := &dto.PlanLineaDTO{
		TipoMielID:    tipoMielID,
		Clasificacion: clasificacion,
		SolicitadoKg:  solicitado,
		TotalKg:       plan.TotalKg,
	}
	for _, c := range plan.Consumos {
		out.Consumos = append(out.Consumos, dto.ConsumoDTO{
			LoteID:       c.LoteID,
			OrdenLlegada: ordenPorLote[c.LoteID],
			CantidadKg:   c.CantidadKg,
		})
	}
	return out
}
