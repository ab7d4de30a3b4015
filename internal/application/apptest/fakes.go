// Package apptest provee implementaciones en memoria de los puertos de
// persistencia para los tests de los casos de uso. Los fakes replican las
// guardas optimistas del adaptador PostgreSQL (estado esperado o error) pero
// no son transaccionales: los casos de uso validan antes de mutar, así que
// el todo-o-nada se sostiene igual.
package apptest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/entity"
	"github.com/mielsur/acopio-api/internal/domain/miel"
	"github.com/mielsur/acopio-api/internal/domain/repository"
)

// ── Lotes ─────────────────────────────────────────────────────────────────────

// FakeLoteRepo registro de lotes en memoria.
type FakeLoteRepo struct {
	mu    sync.Mutex
	lotes map[string]*entity.Lote
	orden int64
}

var _ repository.LoteRepository = (*FakeLoteRepo)(nil)

// NewFakeLoteRepo construye el fake vacío.
func NewFakeLoteRepo() *FakeLoteRepo {
	return &FakeLoteRepo{lotes: make(map[string]*entity.Lote)}
}

// Seed inserta un lote directamente, asignando orden de llegada.
func (r *FakeLoteRepo) Seed(l *entity.Lote) *entity.Lote {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orden++
	l.OrdenLlegada = r.orden
	copia := *l
	r.lotes[l.ID] = &copia
	return l
}

func (r *FakeLoteRepo) Create(_ context.Context, l *entity.Lote) error {
	r.Seed(l)
	return nil
}

func (r *FakeLoteRepo) GetByID(_ context.Context, id string) (*entity.Lote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lotes[id]
	if !ok {
		return nil, nil
	}
	copia := *l
	return &copia, nil
}

func (r *FakeLoteRepo) GetForUpdate(ctx context.Context, id string) (*entity.Lote, error) {
	return r.GetByID(ctx, id)
}

func (r *FakeLoteRepo) ListByEntrada(_ context.Context, entradaID string) ([]*entity.Lote, error) {
	return r.filtrar(func(l *entity.Lote) bool { return l.EntradaID == entradaID }), nil
}

func (r *FakeLoteRepo) ListByTambor(_ context.Context, tamborID string) ([]*entity.Lote, error) {
	return r.filtrar(func(l *entity.Lote) bool { return l.TamborID != nil && *l.TamborID == tamborID }), nil
}

func (r *FakeLoteRepo) ListBySalida(_ context.Context, salidaID string) ([]*entity.Lote, error) {
	return r.filtrar(func(l *entity.Lote) bool { return l.SalidaID != nil && *l.SalidaID == salidaID }), nil
}

func (r *FakeLoteRepo) ListDisponibles(_ context.Context, f repository.LoteFiltro) ([]*entity.Lote, error) {
	return r.filtrar(func(l *entity.Lote) bool {
		if l.Estado != entity.LoteDisponible {
			return false
		}
		if f.TipoMielID != "" && l.TipoMielID != f.TipoMielID {
			return false
		}
		if f.Clasificacion != "" && string(l.Clasificacion) != f.Clasificacion {
			return false
		}
		return true
	}), nil
}

func (r *FakeLoteRepo) ListDisponiblesForUpdate(ctx context.Context, f repository.LoteFiltro) ([]*entity.Lote, error) {
	return r.ListDisponibles(ctx, f)
}

func (r *FakeLoteRepo) Transicionar(_ context.Context, loteID, desde, hacia string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lotes[loteID]
	if !ok || l.Estado != desde {
		return domain.ErrInvalidTransition
	}
	l.Estado = hacia
	return nil
}

func (r *FakeLoteRepo) AsignarATambor(_ context.Context, loteID, tamborID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lotes[loteID]
	if !ok || l.Estado != entity.LoteDisponible {
		return domain.ErrConcurrentModification
	}
	l.Estado = entity.LoteAsignado
	l.TamborID = &tamborID
	return nil
}

func (r *FakeLoteRepo) LiberarDeTambor(_ context.Context, loteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lotes[loteID]
	if !ok || l.Estado != entity.LoteAsignado {
		return domain.ErrInvalidTransition
	}
	l.Estado = entity.LoteDisponible
	l.TamborID = nil
	return nil
}

func (r *FakeLoteRepo) ConsumirPorSalida(_ context.Context, loteID, salidaID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lotes[loteID]
	if !ok || l.Estado != entity.LoteDisponible {
		return domain.ErrConcurrentModification
	}
	l.Estado = entity.LoteConsumido
	l.SalidaID = &salidaID
	return nil
}

func (r *FakeLoteRepo) Anular(_ context.Context, loteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lotes[loteID]
	if !ok {
		return nil
	}
	if l.Estado == entity.LoteConsumido || l.Estado == entity.LoteAnulado {
		return nil
	}
	l.Estado = entity.LoteAnulado
	l.TamborID = nil
	return nil
}

func (r *FakeLoteRepo) filtrar(keep func(*entity.Lote) bool) []*entity.Lote {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Lote
	for _, l := range r.lotes {
		if keep(l) {
			copia := *l
			out = append(out, &copia)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrdenLlegada < out[j].OrdenLlegada })
	return out
}

// ── Entradas ──────────────────────────────────────────────────────────────────

// FakeEntradaRepo registro de entradas en memoria.
type FakeEntradaRepo struct {
	mu       sync.Mutex
	entradas map[string]*entity.Entrada
}

var _ repository.EntradaRepository = (*FakeEntradaRepo)(nil)

// NewFakeEntradaRepo construye el fake vacío.
func NewFakeEntradaRepo() *FakeEntradaRepo {
	return &FakeEntradaRepo{entradas: make(map[string]*entity.Entrada)}
}

func (r *FakeEntradaRepo) Create(_ context.Context, e *entity.Entrada) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *e
	r.entradas[e.ID] = &copia
	return nil
}

func (r *FakeEntradaRepo) GetByID(_ context.Context, id string) (*entity.Entrada, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entradas[id]
	if !ok {
		return nil, nil
	}
	copia := *e
	return &copia, nil
}

func (r *FakeEntradaRepo) List(_ context.Context, limit, offset int) ([]*entity.Entrada, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Entrada
	for _, e := range r.entradas {
		copia := *e
		out = append(out, &copia)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginar(out, limit, offset), nil
}

func (r *FakeEntradaRepo) Anular(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entradas[id]
	if !ok || e.Estado != entity.EntradaActiva {
		return domain.ErrInvalidTransition
	}
	e.Estado = entity.EntradaAnulada
	return nil
}

// ── Tambores ──────────────────────────────────────────────────────────────────

// FakeTamborRepo registro de tambores en memoria.
type FakeTamborRepo struct {
	mu       sync.Mutex
	tambores map[string]*entity.Tambor
}

var _ repository.TamborRepository = (*FakeTamborRepo)(nil)

// NewFakeTamborRepo construye el fake vacío.
func NewFakeTamborRepo() *FakeTamborRepo {
	return &FakeTamborRepo{tambores: make(map[string]*entity.Tambor)}
}

func (r *FakeTamborRepo) Create(_ context.Context, t *entity.Tambor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *t
	r.tambores[t.ID] = &copia
	return nil
}

func (r *FakeTamborRepo) GetByID(_ context.Context, id string) (*entity.Tambor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tambores[id]
	if !ok {
		return nil, nil
	}
	copia := *t
	return &copia, nil
}

func (r *FakeTamborRepo) GetForUpdate(ctx context.Context, id string) (*entity.Tambor, error) {
	return r.GetByID(ctx, id)
}

func (r *FakeTamborRepo) List(_ context.Context, limit, offset int) ([]*entity.Tambor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Tambor
	for _, t := range r.tambores {
		copia := *t
		out = append(out, &copia)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginar(out, limit, offset), nil
}

func (r *FakeTamborRepo) Anular(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tambores[id]
	if !ok || t.Estado != entity.TamborActivo {
		return domain.ErrInvalidTransition
	}
	t.Estado = entity.TamborAnulado
	return nil
}

// ── Salidas ───────────────────────────────────────────────────────────────────

// FakeSalidaRepo registro de salidas en memoria.
type FakeSalidaRepo struct {
	mu      sync.Mutex
	salidas map[string]*entity.Salida
}

var _ repository.SalidaRepository = (*FakeSalidaRepo)(nil)

// NewFakeSalidaRepo construye el fake vacío.
func NewFakeSalidaRepo() *FakeSalidaRepo {
	return &FakeSalidaRepo{salidas: make(map[string]*entity.Salida)}
}

func (r *FakeSalidaRepo) Create(_ context.Context, s *entity.Salida) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *s
	copia.Lineas = append([]entity.LineaSalida(nil), s.Lineas...)
	r.salidas[s.ID] = &copia
	return nil
}

func (r *FakeSalidaRepo) GetByID(_ context.Context, id string) (*entity.Salida, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.salidas[id]
	if !ok {
		return nil, nil
	}
	copia := *s
	copia.Lineas = append([]entity.LineaSalida(nil), s.Lineas...)
	return &copia, nil
}

func (r *FakeSalidaRepo) GetForUpdate(ctx context.Context, id string) (*entity.Salida, error) {
	return r.GetByID(ctx, id)
}

func (r *FakeSalidaRepo) List(_ context.Context, limit, offset int) ([]*entity.Salida, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Salida
	for _, s := range r.salidas {
		copia := *s
		copia.Lineas = append([]entity.LineaSalida(nil), s.Lineas...)
		out = append(out, &copia)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginar(out, limit, offset), nil
}

func (r *FakeSalidaRepo) AgregarLinea(_ context.Context, l *entity.LineaSalida) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.salidas[l.SalidaID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Lineas = append(s.Lineas, *l)
	return nil
}

func (r *FakeSalidaRepo) QuitarLinea(_ context.Context, salidaID, lineaID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.salidas[salidaID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, l := range s.Lineas {
		if l.ID == lineaID {
			s.Lineas = append(s.Lineas[:i], s.Lineas[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *FakeSalidaRepo) Transicionar(_ context.Context, id, desde, hacia string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.salidas[id]
	if !ok || s.Estado != desde {
		return domain.ErrInvalidTransition
	}
	s.Estado = hacia
	return nil
}

func (r *FakeSalidaRepo) SetFinalizada(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.salidas[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.FinalizadaAt = &at
	return nil
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

// FakeTipoMielRepo catálogo de tipos en memoria.
type FakeTipoMielRepo struct {
	mu    sync.Mutex
	tipos map[string]*entity.TipoMiel
}

var _ repository.TipoMielRepository = (*FakeTipoMielRepo)(nil)

// NewFakeTipoMielRepo construye el fake con los tipos dados.
func NewFakeTipoMielRepo(tipos ...*entity.TipoMiel) *FakeTipoMielRepo {
	r := &FakeTipoMielRepo{tipos: make(map[string]*entity.TipoMiel)}
	for _, t := range tipos {
		r.tipos[t.ID] = t
	}
	return r
}

func (r *FakeTipoMielRepo) Create(_ context.Context, t *entity.TipoMiel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existente := range r.tipos {
		if existente.Codigo == t.Codigo {
			return domain.ErrInvalidInput
		}
	}
	copia := *t
	r.tipos[t.ID] = &copia
	return nil
}

func (r *FakeTipoMielRepo) GetByID(_ context.Context, id string) (*entity.TipoMiel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tipos[id]
	if !ok {
		return nil, nil
	}
	copia := *t
	return &copia, nil
}

func (r *FakeTipoMielRepo) List(_ context.Context) ([]*entity.TipoMiel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.TipoMiel
	for _, t := range r.tipos {
		copia := *t
		out = append(out, &copia)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

type claveprecio struct {
	tipo   string
	clasif string
}

// FakePrecioRepo lista de precios en memoria.
type FakePrecioRepo struct {
	mu      sync.Mutex
	precios map[claveprecio]*entity.PrecioMiel
}

var _ repository.PrecioRepository = (*FakePrecioRepo)(nil)

// NewFakePrecioRepo construye el fake vacío.
func NewFakePrecioRepo() *FakePrecioRepo {
	return &FakePrecioRepo{precios: make(map[claveprecio]*entity.PrecioMiel)}
}

func (r *FakePrecioRepo) Get(_ context.Context, tipoMielID string, c miel.Clasificacion) (*entity.PrecioMiel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.precios[claveprecio{tipo: tipoMielID, clasif: string(c)}]
	if !ok {
		return nil, nil
	}
	copia := *p
	return &copia, nil
}

func (r *FakePrecioRepo) Upsert(_ context.Context, p *entity.PrecioMiel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copia := *p
	r.precios[claveprecio{tipo: p.TipoMielID, clasif: string(p.Clasificacion)}] = &copia
	return nil
}

func (r *FakePrecioRepo) List(_ context.Context) ([]*entity.PrecioMiel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.PrecioMiel
	for _, p := range r.precios {
		copia := *p
		out = append(out, &copia)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TipoMielID != out[j].TipoMielID {
			return out[i].TipoMielID < out[j].TipoMielID
		}
		return out[i].Clasificacion < out[j].Clasificacion
	})
	return out, nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

// FakeTxRunner invoca el callback directamente con los fakes, sin
// transacción real. FailBefore permite simular un fallo antes de entrar al
// callback (ej. caída de conexión).
type FakeTxRunner struct {
	Lotes    *FakeLoteRepo
	Entradas *FakeEntradaRepo
	Tambores *FakeTamborRepo
	Salidas  *FakeSalidaRepo

	FailBefore error
}

func (r *FakeTxRunner) Run(_ context.Context, fn func(
	entradaRepo repository.EntradaRepository,
	loteRepo repository.LoteRepository,
) error) error {
	if r.FailBefore != nil {
		return r.FailBefore
	}
	return fn(r.Entradas, r.Lotes)
}

func (r *FakeTxRunner) RunTambor(_ context.Context, fn func(
	tamborRepo repository.TamborRepository,
	loteRepo repository.LoteRepository,
) error) error {
	if r.FailBefore != nil {
		return r.FailBefore
	}
	return fn(r.Tambores, r.Lotes)
}

func (r *FakeTxRunner) RunSalida(_ context.Context, fn func(
	salidaRepo repository.SalidaRepository,
	loteRepo repository.LoteRepository,
) error) error {
	if r.FailBefore != nil {
		return r.FailBefore
	}
	return fn(r.Salidas, r.Lotes)
}

func paginar[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
