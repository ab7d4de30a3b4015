package repository

import (
	"context"

	"github.com/mielsur/acopio-api/internal/domain/entity"
	"github.com/mielsur/acopio-api/internal/domain/miel"
)

// TipoMielRepository define el puerto de persistencia de tipos de miel.
type TipoMielRepository interface {
	Create(ctx context.Context, tipo *entity.TipoMiel) error
	GetByID(ctx context.Context, id string) (*entity.TipoMiel, error)
	List(ctx context.Context) ([]*entity.TipoMiel, error)
}

// PrecioRepository es la consulta externa pura de la lista de precios:
// price(tipo, clasificación) → monto | nada. Get devuelve (nil, nil) si no
// hay precio cargado para la clave.
type PrecioRepository interface {
	Get(ctx context.Context, tipoMielID string, c miel.Clasificacion) (*entity.PrecioMiel, error)
	Upsert(ctx context.Context, precio *entity.PrecioMiel) error
	List(ctx context.Context) ([]*entity.PrecioMiel, error)
}
