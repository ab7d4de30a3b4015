package catalogo_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mielsur/acopio-api/internal/application/apptest"
	"github.com/mielsur/acopio-api/internal/application/catalogo"
	"github.com/mielsur/acopio-api/internal/application/dto"
	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/entity"
	"github.com/mielsur/acopio-api/internal/domain/miel"
)

func newUseCase(tipos ...*entity.TipoMiel) (*catalogo.UseCase, *apptest.FakePrecioRepo) {
	precios := apptest.NewFakePrecioRepo()
	return catalogo.NewUseCase(apptest.NewFakeTipoMielRepo(tipos...), precios), precios
}

func TestCrearTipoMiel_DerivaCodigo(t *testing.T) {
	uc, _ := newUseCase()

	tipo, err := uc.CrearTipoMiel(context.Background(), dto.CrearTipoMielRequest{Nombre: "Mielada de Ñirre"})
	require.NoError(t, err)
	assert.Equal(t, "MIELADA-DE-NIRRE", tipo.Codigo)
	assert.Equal(t, "Mielada de Ñirre", tipo.Nombre)
}

func TestCrearTipoMiel_NombreVacioRechazado(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.CrearTipoMiel(context.Background(), dto.CrearTipoMielRequest{Nombre: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCrearTipoMiel_CodigoDuplicadoRechazado(t *testing.T) {
	uc, _ := newUseCase()

	_, err := uc.CrearTipoMiel(context.Background(), dto.CrearTipoMielRequest{Nombre: "Ulmo"})
	require.NoError(t, err)

	// "úlmo" normaliza al mismo código ULMO.
	_, err = uc.CrearTipoMiel(context.Background(), dto.CrearTipoMielRequest{Nombre: "úlmo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFijarPrecio_UpsertYListado(t *testing.T) {
	uc, precios := newUseCase(&entity.TipoMiel{ID: "ulmo", Codigo: "ULMO", Nombre: "Ulmo"})

	precio := func(v string) decimal.Decimal {
		d, err := decimal.NewFromString(v)
		require.NoError(t, err)
		return d
	}

	_, err := uc.FijarPrecio(context.Background(), dto.UpsertPrecioRequest{
		TipoMielID: "ulmo", Clasificacion: "EXPORT", PrecioKg: precio("4.50"),
	})
	require.NoError(t, err)

	// Upsert: fijar de nuevo la misma clave reemplaza el precio.
	_, err = uc.FijarPrecio(context.Background(), dto.UpsertPrecioRequest{
		TipoMielID: "ulmo", Clasificacion: "EXPORT", PrecioKg: precio("5.00"),
	})
	require.NoError(t, err)

	p, err := precios.Get(context.Background(), "ulmo", miel.ClasificacionExport)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.PrecioKg.Equal(precio("5.00")))
}

func TestFijarPrecio_Validaciones(t *testing.T) {
	uc, _ := newUseCase(&entity.TipoMiel{ID: "ulmo", Codigo: "ULMO", Nombre: "Ulmo"})

	_, err := uc.FijarPrecio(context.Background(), dto.UpsertPrecioRequest{
		TipoMielID: "ulmo", Clasificacion: "PREMIUM", PrecioKg: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "clasificación desconocida")

	_, err = uc.FijarPrecio(context.Background(), dto.UpsertPrecioRequest{
		TipoMielID: "no-existe", Clasificacion: "EXPORT", PrecioKg: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.FijarPrecio(context.Background(), dto.UpsertPrecioRequest{
		TipoMielID: "ulmo", Clasificacion: "EXPORT", PrecioKg: decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "precio negativo")
}
