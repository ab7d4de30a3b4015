package repository

import (
	"context"

	"github.com/mielsur/acopio-api/internal/domain/entity"
)

// EntradaRepository define el puerto de persistencia de entradas.
type EntradaRepository interface {
	Create(ctx context.Context, entrada *entity.Entrada) error
	GetByID(ctx context.Context, id string) (*entity.Entrada, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Entrada, error)
	// Anular pasa la entrada ACTIVE → CANCELLED con guarda optimista.
	Anular(ctx context.Context, id string) error
}
