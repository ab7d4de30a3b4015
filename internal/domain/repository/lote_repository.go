package repository

import (
	"context"

	"github.com/mielsur/acopio-api/internal/domain/entity"
)

// LoteFiltro filtros opcionales para consultar lotes disponibles.
// Campos vacíos no filtran.
type LoteFiltro struct {
	TipoMielID    string
	Clasificacion string
}

// LoteRepository define el puerto de persistencia del registro de lotes.
// Los listados de disponibles devuelven SIEMPRE orden ascendente de
// orden_llegada: ese ordenamiento es el contrato FIFO que consume el
// asignador de salidas.
type LoteRepository interface {
	Create(ctx context.Context, lote *entity.Lote) error
	GetByID(ctx context.Context, id string) (*entity.Lote, error)
	// GetForUpdate bloquea la fila del lote (SELECT FOR UPDATE) dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Lote, error)
	ListByEntrada(ctx context.Context, entradaID string) ([]*entity.Lote, error)
	ListByTambor(ctx context.Context, tamborID string) ([]*entity.Lote, error)
	ListBySalida(ctx context.Context, salidaID string) ([]*entity.Lote, error)
	ListDisponibles(ctx context.Context, f LoteFiltro) ([]*entity.Lote, error)
	// ListDisponiblesForUpdate bloquea las filas devueltas; usar solo dentro de tx.
	ListDisponiblesForUpdate(ctx context.Context, f LoteFiltro) ([]*entity.Lote, error)

	// Transicionar aplica la guarda optimista: UPDATE ... WHERE estado = desde.
	// Cero filas afectadas → domain.ErrInvalidTransition.
	Transicionar(ctx context.Context, loteID, desde, hacia string) error
	// AsignarATambor pasa AVAILABLE → ASSIGNED y fija tambor_id. Cero filas
	// afectadas → domain.ErrConcurrentModification (otro actor ganó la carrera).
	AsignarATambor(ctx context.Context, loteID, tamborID string) error
	// LiberarDeTambor revierte ASSIGNED → AVAILABLE y limpia tambor_id.
	LiberarDeTambor(ctx context.Context, loteID string) error
	// ConsumirPorSalida pasa AVAILABLE → CONSUMED y fija salida_id.
	ConsumirPorSalida(ctx context.Context, loteID, salidaID string) error
	// Anular pasa a CANCELLED cualquier estado no terminal y limpia tambor_id.
	// Lotes ya CANCELLED son no-op; lotes CONSUMED no se tocan (el llamador
	// debe haberlos rechazado antes).
	Anular(ctx context.Context, loteID string) error
}
