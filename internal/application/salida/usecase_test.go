package salida_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mielsur/acopio-api/internal/application/apptest"
	"github.com/mielsur/acopio-api/internal/application/dto"
	"github.com/mielsur/acopio-api/internal/application/salida"
	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/entity"
	"github.com/mielsur/acopio-api/internal/domain/miel"
)

func kg(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type fixture struct {
	uc      *salida.UseCase
	lotes   *apptest.FakeLoteRepo
	salidas *apptest.FakeSalidaRepo
	seq     int
}

func newFixture() *fixture {
	lotes := apptest.NewFakeLoteRepo()
	salidas := apptest.NewFakeSalidaRepo()
	tx := &apptest.FakeTxRunner{Lotes: lotes, Salidas: salidas}
	return &fixture{
		uc:      salida.NewUseCase(tx, salidas, lotes, nil),
		lotes:   lotes,
		salidas: salidas,
	}
}

func (f *fixture) seed(tipoMielID, humedad, cantidad string) *entity.Lote {
	f.seq++
	clasif, err := miel.Clasificar(kg(humedad))
	if err != nil {
		panic(err)
	}
	return f.lotes.Seed(&entity.Lote{
		ID:            fmt.Sprintf("lote-%03d", f.seq),
		EntradaID:     "ent-1",
		TipoMielID:    tipoMielID,
		HumedadPct:    kg(humedad),
		Clasificacion: clasif,
		CantidadKg:    kg(cantidad),
		Estado:        entity.LoteDisponible,
	})
}

func (f *fixture) salidaConLineas(t *testing.T, lineas ...dto.LineaSalidaRequest) *entity.Salida {
	t.Helper()
	s, err := f.uc.Crear(context.Background(), dto.CrearSalidaRequest{TransportistaID: "trans-1"}, "user-1")
	require.NoError(t, err)
	for _, l := range lineas {
		_, err := f.uc.AgregarLinea(context.Background(), s.ID, l)
		require.NoError(t, err)
	}
	actual, err := f.uc.Get(context.Background(), s.ID)
	require.NoError(t, err)
	return actual
}

func linea(tipo, clasif, cantidad string) dto.LineaSalidaRequest {
	return dto.LineaSalidaRequest{TipoMielID: tipo, Clasificacion: clasif, SolicitadoKg: kg(cantidad)}
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrador de salida
// ──────────────────────────────────────────────────────────────────────────────

func TestCrear_NaceEnBorrador(t *testing.T) {
	f := newFixture()
	s, err := f.uc.Crear(context.Background(), dto.CrearSalidaRequest{TransportistaID: "trans-1"}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, entity.SalidaBorrador, s.Estado)
	assert.Empty(t, s.Lineas)
}

func TestCrear_SinTransportistaRechazada(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Crear(context.Background(), dto.CrearSalidaRequest{}, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAgregarLinea_Validaciones(t *testing.T) {
	f := newFixture()
	s := f.salidaConLineas(t)

	_, err := f.uc.AgregarLinea(context.Background(), s.ID, linea("ulmo", "PREMIUM", "10"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "clasificación desconocida")

	_, err = f.uc.AgregarLinea(context.Background(), s.ID, linea("ulmo", "EXPORT", "0"))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestQuitarLinea(t *testing.T) {
	f := newFixture()
	s := f.salidaConLineas(t, linea("ulmo", "EXPORT", "50"))
	require.Len(t, s.Lineas, 1)

	require.NoError(t, f.uc.QuitarLinea(context.Background(), s.ID, s.Lineas[0].ID))

	actual, err := f.uc.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Empty(t, actual.Lineas)
}

// ──────────────────────────────────────────────────────────────────────────────
// Finalizar — consumo FIFO atómico
// ──────────────────────────────────────────────────────────────────────────────

func TestFinalizar_ConsumeFIFOYTransiciona(t *testing.T) {
	f := newFixture()
	lA := f.seed("ulmo", "18", "50")
	lB := f.seed("ulmo", "18", "50")
	lC := f.seed("ulmo", "18", "50")

	s := f.salidaConLineas(t, linea("ulmo", "EXPORT", "80"))

	resultado, planes, err := f.uc.Finalizar(context.Background(), s.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.SalidaEnTransito, resultado.Estado)
	require.NotNil(t, resultado.FinalizadaAt)
	require.Len(t, planes, 1)
	require.Len(t, planes[0].Consumos, 2)
	assert.Equal(t, lA.ID, planes[0].Consumos[0].LoteID)
	assert.Equal(t, lB.ID, planes[0].Consumos[1].LoteID)
	assert.True(t, planes[0].TotalKg.Equal(kg("100")), "lotes enteros: 100 por 80 pedidos")

	// A y B consumidos y vinculados; C intacto.
	for _, id := range []string{lA.ID, lB.ID} {
		l, err := f.lotes.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, entity.LoteConsumido, l.Estado)
		require.NotNil(t, l.SalidaID)
		assert.Equal(t, s.ID, *l.SalidaID)
	}
	c, err := f.lotes.GetByID(context.Background(), lC.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LoteDisponible, c.Estado)
}

// Dos líneas: la primera no puede "prestarle" lotes a la segunda. Cada lote
// se planifica a lo sumo una vez.
func TestFinalizar_LineasNoCompartenLotes(t *testing.T) {
	f := newFixture()
	f.seed("ulmo", "18", "100")
	f.seed("ulmo", "18", "100")

	s := f.salidaConLineas(t,
		linea("ulmo", "EXPORT", "50"),
		linea("ulmo", "EXPORT", "50"),
	)

	_, planes, err := f.uc.Finalizar(context.Background(), s.ID)
	require.NoError(t, err)
	require.Len(t, planes, 2)
	assert.NotEqual(t, planes[0].Consumos[0].LoteID, planes[1].Consumos[0].LoteID)
}

// Todo-o-nada: si la segunda línea no tiene stock, la primera (que sí tenía)
// no debe consumir nada.
func TestFinalizar_InsuficienciaDeUnaLineaAbortaTodo(t *testing.T) {
	f := newFixture()
	lA := f.seed("ulmo", "18", "100")

	s := f.salidaConLineas(t,
		linea("ulmo", "EXPORT", "50"),
		linea("quillay", "DOMESTIC", "30"), // sin stock
	)

	_, _, err := f.uc.Finalizar(context.Background(), s.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "quillay", stockErr.TipoMielID)

	// Nada cambió.
	l, err := f.lotes.GetByID(context.Background(), lA.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LoteDisponible, l.Estado)
	actual, err := f.uc.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SalidaBorrador, actual.Estado)
}

func TestFinalizar_SinLineasRechazada(t *testing.T) {
	f := newFixture()
	s := f.salidaConLineas(t)
	_, _, err := f.uc.Finalizar(context.Background(), s.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFinalizar_DosVecesRechazada(t *testing.T) {
	f := newFixture()
	f.seed("ulmo", "18", "100")
	s := f.salidaConLineas(t, linea("ulmo", "EXPORT", "50"))

	_, _, err := f.uc.Finalizar(context.Background(), s.ID)
	require.NoError(t, err)

	_, _, err = f.uc.Finalizar(context.Background(), s.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// La salida finalizada es inmutable desde el cliente.
func TestFinalizar_CongelaLasLineas(t *testing.T) {
	f := newFixture()
	f.seed("ulmo", "18", "100")
	s := f.salidaConLineas(t, linea("ulmo", "EXPORT", "50"))

	_, _, err := f.uc.Finalizar(context.Background(), s.ID)
	require.NoError(t, err)

	_, err = f.uc.AgregarLinea(context.Background(), s.ID, linea("ulmo", "EXPORT", "10"))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	err = f.uc.QuitarLinea(context.Background(), s.ID, s.Lineas[0].ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// PlanificarLinea — previsualización sin efectos
// ──────────────────────────────────────────────────────────────────────────────

func TestPlanificarLinea_NoMuta(t *testing.T) {
	f := newFixture()
	l := f.seed("ulmo", "18", "100")

	plan, err := f.uc.PlanificarLinea(context.Background(), linea("ulmo", "EXPORT", "50"))
	require.NoError(t, err)
	require.Len(t, plan.Consumos, 1)
	assert.Equal(t, l.ID, plan.Consumos[0].LoteID)

	actual, err := f.lotes.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LoteDisponible, actual.Estado, "la previsualización no reserva nada")
}

func TestPlanificarLinea_StockInsuficiente(t *testing.T) {
	f := newFixture()
	f.seed("ulmo", "18", "40")

	_, err := f.uc.PlanificarLinea(context.Background(), linea("ulmo", "EXPORT", "50"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Anular y entrega
// ──────────────────────────────────────────────────────────────────────────────

func TestAnular_SoloBorrador(t *testing.T) {
	f := newFixture()
	f.seed("ulmo", "18", "100")
	s := f.salidaConLineas(t, linea("ulmo", "EXPORT", "50"))

	_, _, err := f.uc.Finalizar(context.Background(), s.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, f.uc.Anular(context.Background(), s.ID), domain.ErrInvalidTransition,
		"una salida en tránsito no se anula desde este motor")
}

func TestAnular_BorradorSinEfectoEnInventario(t *testing.T) {
	f := newFixture()
	l := f.seed("ulmo", "18", "100")
	s := f.salidaConLineas(t, linea("ulmo", "EXPORT", "50"))

	require.NoError(t, f.uc.Anular(context.Background(), s.ID))

	actual, err := f.lotes.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LoteDisponible, actual.Estado, "un borrador nunca retuvo lotes")
}

func TestConfirmarEntrega_GuardaDeTransicion(t *testing.T) {
	f := newFixture()
	f.seed("ulmo", "18", "100")
	s := f.salidaConLineas(t, linea("ulmo", "EXPORT", "50"))

	// Antes del finalize: no hay nada en tránsito que confirmar.
	assert.ErrorIs(t, f.uc.ConfirmarEntrega(context.Background(), s.ID), domain.ErrInvalidTransition)

	_, _, err := f.uc.Finalizar(context.Background(), s.ID)
	require.NoError(t, err)

	require.NoError(t, f.uc.ConfirmarEntrega(context.Background(), s.ID))
	actual, err := f.uc.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SalidaEntregada, actual.Estado)

	// La entrega no toca los lotes: siguen CONSUMED.
	consumidos, err := f.lotes.ListBySalida(context.Background(), s.ID)
	require.NoError(t, err)
	require.NotEmpty(t, consumidos)
	for _, l := range consumidos {
		assert.Equal(t, entity.LoteConsumido, l.Estado)
	}
}
