package repository

import (
	"context"

	"github.com/mielsur/acopio-api/internal/domain/entity"
)

// TamborRepository define el puerto de persistencia de tambores.
type TamborRepository interface {
	Create(ctx context.Context, tambor *entity.Tambor) error
	GetByID(ctx context.Context, id string) (*entity.Tambor, error)
	// GetForUpdate bloquea la fila del tambor dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Tambor, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Tambor, error)
	// Anular pasa ACTIVE → CANCELLED con guarda optimista; cero filas
	// afectadas → domain.ErrInvalidTransition.
	Anular(ctx context.Context, id string) error
}
