package entrada_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mielsur/acopio-api/internal/application/apptest"
	"github.com/mielsur/acopio-api/internal/application/dto"
	"github.com/mielsur/acopio-api/internal/application/entrada"
	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/entity"
	"github.com/mielsur/acopio-api/internal/domain/miel"
	"github.com/mielsur/acopio-api/internal/domain/repository"
)

func filtro(tipoMielID, clasificacion string) repository.LoteFiltro {
	return repository.LoteFiltro{TipoMielID: tipoMielID, Clasificacion: clasificacion}
}

func kg(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type fixture struct {
	uc       *entrada.UseCase
	lotes    *apptest.FakeLoteRepo
	entradas *apptest.FakeEntradaRepo
	precios  *apptest.FakePrecioRepo
}

func newFixture() *fixture {
	lotes := apptest.NewFakeLoteRepo()
	entradas := apptest.NewFakeEntradaRepo()
	tipos := apptest.NewFakeTipoMielRepo(
		&entity.TipoMiel{ID: "ulmo", Codigo: "ULMO", Nombre: "Ulmo"},
		&entity.TipoMiel{ID: "multiflora", Codigo: "MULTIFLORA", Nombre: "Multiflora"},
	)
	precios := apptest.NewFakePrecioRepo()
	tx := &apptest.FakeTxRunner{Lotes: lotes, Entradas: entradas}
	return &fixture{
		uc:       entrada.NewUseCase(tx, tipos, precios, lotes, entradas),
		lotes:    lotes,
		entradas: entradas,
		precios:  precios,
	}
}

func registrar(t *testing.T, f *fixture, renglones ...dto.LoteInput) (*entity.Entrada, []*entity.Lote) {
	t.Helper()
	ent, lotes, err := f.uc.Registrar(context.Background(), dto.RegistrarEntradaRequest{
		ProveedorID: "prov-1",
		Lotes:       renglones,
	}, "user-1")
	require.NoError(t, err)
	return ent, lotes
}

// ──────────────────────────────────────────────────────────────────────────────
// Registrar
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistrar_ClasificaYAsignaOrdenFIFO(t *testing.T) {
	f := newFixture()

	ent, lotes := registrar(t, f,
		dto.LoteInput{TipoMielID: "ulmo", HumedadPct: kg("18"), CantidadKg: kg("100")},
		dto.LoteInput{TipoMielID: "ulmo", HumedadPct: kg("22"), CantidadKg: kg("50")},
		dto.LoteInput{TipoMielID: "multiflora", HumedadPct: kg("25"), CantidadKg: kg("80")},
	)

	assert.Equal(t, entity.EntradaActiva, ent.Estado)
	require.Len(t, lotes, 3)
	assert.Equal(t, miel.ClasificacionExport, lotes[0].Clasificacion)
	assert.Equal(t, miel.ClasificacionIndustrial, lotes[1].Clasificacion)
	assert.Equal(t, miel.ClasificacionDomestic, lotes[2].Clasificacion)

	// Todos nacen AVAILABLE con orden de llegada estrictamente creciente.
	persistidos, err := f.lotes.ListByEntrada(context.Background(), ent.ID)
	require.NoError(t, err)
	require.Len(t, persistidos, 3)
	for i, l := range persistidos {
		assert.Equal(t, entity.LoteDisponible, l.Estado)
		if i > 0 {
			assert.Greater(t, l.OrdenLlegada, persistidos[i-1].OrdenLlegada)
		}
	}
}

func TestRegistrar_PreLlenaPrecioDeLaLista(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.precios.Upsert(context.Background(), &entity.PrecioMiel{
		TipoMielID:    "ulmo",
		Clasificacion: miel.ClasificacionExport,
		PrecioKg:      kg("4.50"),
	}))

	_, lotes := registrar(t, f,
		dto.LoteInput{TipoMielID: "ulmo", HumedadPct: kg("18"), CantidadKg: kg("100")},
		dto.LoteInput{TipoMielID: "ulmo", HumedadPct: kg("25"), CantidadKg: kg("50")},
	)

	assert.True(t, lotes[0].PrecioUnitario.Equal(kg("4.50")), "clave con precio cargado")
	assert.True(t, lotes[1].PrecioUnitario.IsZero(), "sin precio cargado queda en cero, nunca falla")
}

func TestRegistrar_CantidadCeroRechazada(t *testing.T) {
	f := newFixture()

	_, _, err := f.uc.Registrar(context.Background(), dto.RegistrarEntradaRequest{
		ProveedorID: "prov-1",
		Lotes: []dto.LoteInput{
			{TipoMielID: "ulmo", HumedadPct: kg("18"), CantidadKg: kg("0")},
		},
	}, "user-1")

	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestRegistrar_HumedadFueraDeRangoRechazada(t *testing.T) {
	f := newFixture()

	_, _, err := f.uc.Registrar(context.Background(), dto.RegistrarEntradaRequest{
		ProveedorID: "prov-1",
		Lotes: []dto.LoteInput{
			{TipoMielID: "ulmo", HumedadPct: kg("101"), CantidadKg: kg("10")},
		},
	}, "user-1")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistrar_TipoInexistenteRechazado(t *testing.T) {
	f := newFixture()

	_, _, err := f.uc.Registrar(context.Background(), dto.RegistrarEntradaRequest{
		ProveedorID: "prov-1",
		Lotes: []dto.LoteInput{
			{TipoMielID: "no-existe", HumedadPct: kg("18"), CantidadKg: kg("10")},
		},
	}, "user-1")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistrar_SinRenglonesRechazada(t *testing.T) {
	f := newFixture()

	_, _, err := f.uc.Registrar(context.Background(), dto.RegistrarEntradaRequest{
		ProveedorID: "prov-1",
	}, "user-1")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Un renglón inválido aborta la entrada completa: el renglón válido anterior
// no debe persistirse.
func TestRegistrar_TodoONada(t *testing.T) {
	f := newFixture()

	_, _, err := f.uc.Registrar(context.Background(), dto.RegistrarEntradaRequest{
		ProveedorID: "prov-1",
		Lotes: []dto.LoteInput{
			{TipoMielID: "ulmo", HumedadPct: kg("18"), CantidadKg: kg("100")},
			{TipoMielID: "ulmo", HumedadPct: kg("18"), CantidadKg: kg("-5")},
		},
	}, "user-1")
	require.Error(t, err)

	disponibles, err := f.lotes.ListDisponibles(context.Background(), repository.LoteFiltro{})
	require.NoError(t, err)
	assert.Empty(t, disponibles, "ningún lote debe haberse persistido")
}

// ──────────────────────────────────────────────────────────────────────────────
// Anular
// ──────────────────────────────────────────────────────────────────────────────

func TestAnular_CascadeaATodosLosLotes(t *testing.T) {
	f := newFixture()
	ent, lotes := registrar(t, f,
		dto.LoteInput{TipoMielID: "ulmo", HumedadPct: kg("18"), CantidadKg: kg("100")},
		dto.LoteInput{TipoMielID: "ulmo", HumedadPct: kg("19"), CantidadKg: kg("50")},
	)

	require.NoError(t, f.uc.Anular(context.Background(), ent.ID))

	for _, l := range lotes {
		actual, err := f.lotes.GetByID(context.Background(), l.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.LoteAnulado, actual.Estado)
	}
	entActual, err := f.entradas.GetByID(context.Background(), ent.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EntradaAnulada, entActual.Estado)
}

func TestAnular_Idempotente(t *testing.T) {
	f := newFixture()
	ent, _ := registrar(t, f,
		dto.LoteInput{TipoMielID: "ulmo", HumedadPct: kg("18"), CantidadKg: kg("100")},
	)

	require.NoError(t, f.uc.Anular(context.Background(), ent.ID))
	assert.NoError(t, f.uc.Anular(context.Background(), ent.ID), "anular dos veces no es error")
}

// Si algún lote ya fue consumido por una salida, la anulación completa se
// rechaza y ningún lote cambia.
func TestAnular_RechazadaSiHayLoteConsumido(t *testing.T) {
	f := newFixture()
	ent, lotes := registrar(t, f,
		dto.LoteInput{TipoMielID: "ulmo", HumedadPct: kg("18"), CantidadKg: kg("100")},
		dto.LoteInput{TipoMielID: "ulmo", HumedadPct: kg("19"), CantidadKg: kg("50")},
	)
	require.NoError(t, f.lotes.ConsumirPorSalida(context.Background(), lotes[0].ID, "salida-1"))

	err := f.uc.Anular(context.Background(), ent.ID)
	assert.ErrorIs(t, err, domain.ErrLotAlreadyConsumed)

	// El lote no consumido sigue AVAILABLE: no hubo cancelación parcial.
	otro, err := f.lotes.GetByID(context.Background(), lotes[1].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LoteDisponible, otro.Estado)
}

func TestAnular_EntradaInexistente(t *testing.T) {
	f := newFixture()
	assert.ErrorIs(t, f.uc.Anular(context.Background(), "no-existe"), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestLotesDisponibles_FiltraYOrdenaFIFO(t *testing.T) {
	f := newFixture()
	registrar(t, f,
		dto.LoteInput{TipoMielID: "ulmo", HumedadPct: kg("18"), CantidadKg: kg("100")},
		dto.LoteInput{TipoMielID: "multiflora", HumedadPct: kg("18"), CantidadKg: kg("50")},
		dto.LoteInput{TipoMielID: "ulmo", HumedadPct: kg("18"), CantidadKg: kg("70")},
	)

	lotes, err := f.uc.LotesDisponibles(context.Background(), filtro("ulmo", "EXPORT"))
	require.NoError(t, err)
	require.Len(t, lotes, 2)
	assert.Less(t, lotes[0].OrdenLlegada, lotes[1].OrdenLlegada)
}

func TestLotesDisponibles_ClasificacionInvalida(t *testing.T) {
	f := newFixture()
	_, err := f.uc.LotesDisponibles(context.Background(), filtro("ulmo", "PREMIUM"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetConLotes(t *testing.T) {
	f := newFixture()
	ent, _ := registrar(t, f,
		dto.LoteInput{TipoMielID: "ulmo", HumedadPct: kg("18"), CantidadKg: kg("100")},
	)

	got, lotes, err := f.uc.GetConLotes(context.Background(), ent.ID)
	require.NoError(t, err)
	assert.Equal(t, ent.ID, got.ID)
	assert.Len(t, lotes, 1)

	_, _, err = f.uc.GetConLotes(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// El orden FIFO sale del orden de llegada, nunca de la fecha declarada.
func TestRegistrar_FechaDeclaradaNoAfectaOrden(t *testing.T) {
	f := newFixture()
	ayer := time.Now().Add(-24 * time.Hour)

	_, lotesA := registrarConFecha(t, f, nil,
		dto.LoteInput{TipoMielID: "ulmo", HumedadPct: kg("18"), CantidadKg: kg("10")})
	_, lotesB := registrarConFecha(t, f, &ayer,
		dto.LoteInput{TipoMielID: "ulmo", HumedadPct: kg("18"), CantidadKg: kg("10")})

	assert.Greater(t, lotesB[0].OrdenLlegada, lotesA[0].OrdenLlegada,
		"la entrada con fecha declarada anterior llegó después: consume después")
}

func registrarConFecha(t *testing.T, f *fixture, fecha *time.Time, renglones ...dto.LoteInput) (*entity.Entrada, []*entity.Lote) {
	t.Helper()
	ent, lotes, err := f.uc.Registrar(context.Background(), dto.RegistrarEntradaRequest{
		ProveedorID: "prov-1",
		Fecha:       fecha,
		Lotes:       renglones,
	}, "user-1")
	require.NoError(t, err)
	return ent, lotes
}
