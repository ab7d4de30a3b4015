// Package catalogo administra el catálogo del centro de acopio: las
// variedades florales (tipos de miel) y la lista de precios por
// (tipo, clasificación). La lista de precios es una consulta externa pura
// para el resto del motor: pre-llena precios declarados, nunca valida.
package catalogo

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
	"github.com/mielsur/acopio-api/pkg/textutil"
)

// UseCase casos de uso del catálogo.
type UseCase struct {
	tipoMielRepo repository.TipoMielRepository
	precioRepo   repository.PrecioRepository
}

// NewUseCase construye el caso de uso del catálogo.
func NewUseCase(tipoMielRepo repository.TipoMielRepository, precioRepo repository.PrecioRepository) *UseCase {
	return &UseCase{tipoMielRepo: tipoMielRepo, precioRepo: precioRepo}
}

// CrearTipoMiel registra una variedad floral. El código se deriva del nombre
// normalizado ("Mielada de Ñirre" → "MIELADA-DE-NIRRE") y debe ser único.
func (uc *UseCase) CrearTipoMiel(ctx context.Context, in dto.CrearTipoMielRequest) (*entity.TipoMiel, error) {
	codigo := textutil.Codigo(in.Nombre)
	if codigo == "" {
		return nil, domain.ErrInvalidInput
	}
	t := &entity.TipoMiel{
		ID:        uuid.New().String(),
		Codigo:    codigo,
		Nombre:    in.Nombre,
		CreatedAt: time.Now(),
	}
	if err := uc.tipoMielRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTiposMiel devuelve el catálogo completo, por código.
func (uc *UseCase) ListTiposMiel(ctx context.Context) ([]*entity.TipoMiel, error) {
	return uc.tipoMielRepo.List(ctx)
}

// FijarPrecio inserta o actualiza el precio de una clave de la lista.
func (uc *UseCase) FijarPrecio(ctx context.Context, in dto.UpsertPrecioRequest) (*entity.PrecioMiel, error) {
	clasif := miel.Clasificacion(in.Clasificacion)
	if in.TipoMielID == "" || !clasif.EsValida() {
		return nil, domain.ErrInvalidInput
	}
	if in.PrecioKg.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	tipo, err := uc.tipoMielRepo.GetByID(ctx, in.TipoMielID)
	if err != nil {
		return nil, err
	}
	if tipo == nil {
		return nil, domain.ErrNotFound
	}
	p := &entity.PrecioMiel{
		TipoMielID:    in.TipoMielID,
		Clasificacion: clasif,
		PrecioKg:      in.PrecioKg,
		UpdatedAt:     time.Now(),
	}
	if err := uc.precioRepo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListPrecios devuelve la lista de precios completa.
func (uc *UseCase) ListPrecios(ctx context.Context) ([]*entity.PrecioMiel, error) {
	return uc.precioRepo.List(ctx)
}
