package tambor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/consolidacion"
	"github.com/mielsur/acopio-api/internal/domain/entity"
	"github.com/mielsur/acopio-api/internal/domain/repository"
)

// UseCase es el consolidador de tambores: administra los borradores en
// memoria (la colección explícita que exige la homogeneidad entre borradores
// vivos) y orquesta el commit/anulación transaccional contra el registro de
// lotes.
type UseCase struct {
	txRunner   TxRunner
	loteRepo   repository.LoteRepository
	tamborRepo repository.TamborRepository

	mu         sync.Mutex
	borradores map[string]*consolidacion.Borrador
	// loteEnBorrador evita que dos borradores vivos reclamen el mismo lote.
	loteEnBorrador map[string]string // loteID → borradorID
}

// NewUseCase construye el consolidador.
func NewUseCase(txRunner TxRunner, loteRepo repository.LoteRepository, tamborRepo repository.TamborRepository) *UseCase {
	return &UseCase{
		txRunner:       txRunner,
		loteRepo:       loteRepo,
		tamborRepo:     tamborRepo,
		borradores:     make(map[string]*consolidacion.Borrador),
		loteEnBorrador: make(map[string]string),
	}
}

// CrearBorrador abre un borrador vacío y devuelve su ID.
func (uc *UseCase) CrearBorrador() *consolidacion.Borrador {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	b := consolidacion.NuevoBorrador(uuid.New().String())
	uc.borradores[b.ID] = b
	return b
}

// GetBorrador devuelve un borrador vivo por ID.
func (uc *UseCase) GetBorrador(id string) (*consolidacion.Borrador, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	b, ok := uc.borradores[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// AgregarLote carga el lote desde el registro y lo incorpora al borrador.
// Un lote reclamado por otro borrador vivo, o que no esté AVAILABLE, se
// rechaza con ErrLotUnavailable; homogeneidad y capacidad las valida el
// propio borrador.
func (uc *UseCase) AgregarLote(ctx context.Context, borradorID, loteID string) (*consolidacion.Borrador, error) {
	lote, err := uc.loteRepo.GetByID(ctx, loteID)
	if err != nil {
		return nil, err
	}
	if lote == nil {
		return nil, domain.ErrNotFound
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	b, ok := uc.borradores[borradorID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if dueno, reclamado := uc.loteEnBorrador[loteID]; reclamado && dueno != borradorID {
		return nil, domain.ErrLotUnavailable
	}
	if err := b.AgregarLote(lote); err != nil {
		return nil, err
	}
	uc.loteEnBorrador[loteID] = borradorID
	return b, nil
}

// QuitarLote remueve un lote del borrador y libera su reclamo.
func (uc *UseCase) QuitarLote(borradorID, loteID string) (*consolidacion.Borrador, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	b, ok := uc.borradores[borradorID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := b.QuitarLote(loteID); err != nil {
		return nil, err
	}
	delete(uc.loteEnBorrador, loteID)
	return b, nil
}

// Descartar abandona un borrador y libera todos sus reclamos de lotes.
func (uc *UseCase) Descartar(borradorID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	b, ok := uc.borradores[borradorID]
	if !ok {
		return domain.ErrNotFound
	}
	if err := b.Descartar(); err != nil {
		return err
	}
	uc.liberarLocked(b)
	delete(uc.borradores, borradorID)
	return nil
}

// Comprometer persiste el borrador como tambor ACTIVO y transiciona todos
// sus lotes AVAILABLE → ASSIGNED en una sola transacción. Si cualquier lote
// dejó de estar disponible (carrera con otro consumidor), toda la operación
// falla con ErrConcurrentModification y ningún lote cambia.
func (uc *UseCase) Comprometer(ctx context.Context, borradorID, userID string) (*entity.Tambor, error) {
	uc.mu.Lock()
	b, ok := uc.borradores[borradorID]
	uc.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := b.Preparar(); err != nil {
		return nil, err
	}

	tipoMielID, clasif, banda := b.Referencia()
	tambor := &entity.Tambor{
		ID:            uuid.New().String(),
		TipoMielID:    tipoMielID,
		Clasificacion: clasif,
		Banda:         banda,
		CantidadKg:    b.TotalKg(),
		Estado:        entity.TamborActivo,
		CreatedAt:     time.Now(),
		CreatedBy:     userID,
	}

	err := uc.txRunner.RunTambor(ctx, func(
		tamborRepo repository.TamborRepository,
		loteRepo repository.LoteRepository,
	) error {
		// Re-validar disponibilidad con bloqueo de fila antes de mutar:
		// el borrador pudo quedar stale desde que el operador lo armó.
		for _, l := range b.Lotes() {
			actual, err := loteRepo.GetForUpdate(ctx, l.ID)
			if err != nil {
				return err
			}
			if actual == nil || actual.Estado != entity.LoteDisponible {
				return domain.ErrConcurrentModification
			}
		}
		if err := tamborRepo.Create(ctx, tambor); err != nil {
			return err
		}
		for _, l := range b.Lotes() {
			if err := loteRepo.AsignarATambor(ctx, l.ID, tambor.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.mu.Lock()
	_ = b.MarcarComprometido()
	uc.liberarLocked(b)
	delete(uc.borradores, borradorID)
	uc.mu.Unlock()
	return tambor, nil
}

// ComprometerBatch compromete varios borradores en orden, una transacción
// por borrador, y corta en el primer fallo. Los tambores ya comprometidos
// NO se revierten: el resultado informa cuántos entraron y cuál falló.
func (uc *UseCase) ComprometerBatch(ctx context.Context, borradorIDs []string, userID string) ([]*entity.Tambor, string, error) {
	comprometidos := make([]*entity.Tambor, 0, len(borradorIDs))
	for _, id := range borradorIDs {
		t, err := uc.Comprometer(ctx, id, userID)
		if err != nil {
			return comprometidos, id, err
		}
		comprometidos = append(comprometidos, t)
	}
	return comprometidos, "", nil
}

// Anular cancela un tambor ACTIVO devolviendo todos sus lotes ASSIGNED →
// AVAILABLE con tambor_id limpio. Un lote que ya progresó a CONSUMED vía una
// salida no puede revertirse: toda la anulación falla con
// ErrLotAlreadyConsumed y nada cambia.
func (uc *UseCase) Anular(ctx context.Context, tamborID string) error {
	return uc.txRunner.RunTambor(ctx, func(
		tamborRepo repository.TamborRepository,
		loteRepo repository.LoteRepository,
	) error {
		t, err := tamborRepo.GetForUpdate(ctx, tamborID)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if t.Estado != entity.TamborActivo {
			return domain.ErrInvalidTransition
		}

		lotes, err := loteRepo.ListByTambor(ctx, tamborID)
		if err != nil {
			return err
		}
		// Verificación completa antes de mutar: todo-o-nada.
		for _, l := range lotes {
			if l.Estado == entity.LoteConsumido {
				return domain.ErrLotAlreadyConsumed
			}
		}
		for _, l := range lotes {
			if err := loteRepo.LiberarDeTambor(ctx, l.ID); err != nil {
				return err
			}
		}
		return tamborRepo.Anular(ctx, tamborID)
	})
}

// List devuelve tambores persistidos.
func (uc *UseCase) List(ctx context.Context, limit, offset int) ([]*entity.Tambor, error) {
	return uc.tamborRepo.List(ctx, limit, offset)
}

// GetConLotes devuelve el tambor y sus lotes vinculados.
func (uc *UseCase) GetConLotes(ctx context.Context, tamborID string) (*entity.Tambor, []*entity.Lote, error) {
	t, err := uc.tamborRepo.GetByID(ctx, tamborID)
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		return nil, nil, domain.ErrNotFound
	}
	lotes, err := uc.loteRepo.ListByTambor(ctx, tamborID)
	if err != nil {
		return nil, nil, err
	}
	return t, lotes, nil
}

// liberarLocked suelta los reclamos de lotes de un borrador. Llamar con
// uc.mu tomado.
func (uc *UseCase) liberarLocked(b *consolidacion.Borrador) {
	for _, l := range b.Lotes() {
		if uc.loteEnBorrador[l.ID] == b.ID {
			delete(uc.loteEnBorrador, l.ID)
		}
	}
}
