package repository

import (
	"context"
	"time"

	"github.com/mielsur/acopio-api/internal/domain/entity"
)

// SalidaRepository define el puerto de persistencia de salidas y sus líneas.
type SalidaRepository interface {
	Create(ctx context.Context, salida *entity.Salida) error
	// GetByID devuelve la salida con sus líneas cargadas.
	GetByID(ctx context.Context, id string) (*entity.Salida, error)
	// GetForUpdate bloquea la fila de la salida dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Salida, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Salida, error)
	AgregarLinea(ctx context.Context, linea *entity.LineaSalida) error
	QuitarLinea(ctx context.Context, salidaID, lineaID string) error
	// Transicionar aplica la guarda optimista sobre el estado de la salida.
	// Cero filas afectadas → domain.ErrInvalidTransition.
	Transicionar(ctx context.Context, id, desde, hacia string) error
	SetFinalizada(ctx context.Context, id string, at time.Time) error
}
