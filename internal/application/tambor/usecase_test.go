package tambor_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mielsur/acopio-api/internal/application/apptest"
	"github.com/mielsur/acopio-api/internal/application/tambor"
	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/consolidacion"
	"github.com/mielsur/acopio-api/internal/domain/entity"
	"github.com/mielsur/acopio-api/internal/domain/miel"
	"github.com/mielsur/acopio-api/internal/domain/repository"
)

func kg(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type fixture struct {
	uc       *tambor.UseCase
	lotes    *apptest.FakeLoteRepo
	tambores *apptest.FakeTamborRepo
	seq      int
}

func newFixture() *fixture {
	lotes := apptest.NewFakeLoteRepo()
	tambores := apptest.NewFakeTamborRepo()
	tx := &apptest.FakeTxRunner{Lotes: lotes, Tambores: tambores}
	return &fixture{
		uc:       tambor.NewUseCase(tx, lotes, tambores),
		lotes:    lotes,
		tambores: tambores,
	}
}

// seed crea un lote AVAILABLE homogéneo (ulmo EXPORT banda BAJA) salvo que
// se indique otra humedad.
func (f *fixture) seed(humedad, cantidad string) *entity.Lote {
	f.seq++
	clasif, err := miel.Clasificar(kg(humedad))
	if err != nil {
		panic(err)
	}
	return f.lotes.Seed(&entity.Lote{
		ID:            fmt.Sprintf("lote-%03d", f.seq),
		EntradaID:     "ent-1",
		TipoMielID:    "ulmo",
		HumedadPct:    kg(humedad),
		Clasificacion: clasif,
		CantidadKg:    kg(cantidad),
		Estado:        entity.LoteDisponible,
	})
}

func (f *fixture) borradorCon(t *testing.T, lotes ...*entity.Lote) *consolidacion.Borrador {
	t.Helper()
	b := f.uc.CrearBorrador()
	for _, l := range lotes {
		_, err := f.uc.AgregarLote(context.Background(), b.ID, l.ID)
		require.NoError(t, err)
	}
	return b
}

// ──────────────────────────────────────────────────────────────────────────────
// Armado de borradores
// ──────────────────────────────────────────────────────────────────────────────

func TestAgregarLote_LoteReclamadoPorOtroBorrador(t *testing.T) {
	f := newFixture()
	l := f.seed("18", "100")
	f.borradorCon(t, l)

	otro := f.uc.CrearBorrador()
	_, err := f.uc.AgregarLote(context.Background(), otro.ID, l.ID)
	assert.ErrorIs(t, err, domain.ErrLotUnavailable,
		"dos borradores vivos no pueden reclamar el mismo lote")
}

func TestQuitarLote_LiberaElReclamo(t *testing.T) {
	f := newFixture()
	l := f.seed("18", "100")
	b := f.borradorCon(t, l)

	_, err := f.uc.QuitarLote(b.ID, l.ID)
	require.NoError(t, err)

	otro := f.uc.CrearBorrador()
	_, err = f.uc.AgregarLote(context.Background(), otro.ID, l.ID)
	assert.NoError(t, err, "el lote quitado vuelve a estar reclamable")
}

func TestDescartar_LiberaTodosLosReclamos(t *testing.T) {
	f := newFixture()
	l1, l2 := f.seed("18", "100"), f.seed("18", "50")
	b := f.borradorCon(t, l1, l2)

	require.NoError(t, f.uc.Descartar(b.ID))

	_, err := f.uc.GetBorrador(b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "el borrador descartado desaparece")

	otro := f.uc.CrearBorrador()
	_, err = f.uc.AgregarLote(context.Background(), otro.ID, l1.ID)
	assert.NoError(t, err)
}

func TestAgregarLote_Inexistente(t *testing.T) {
	f := newFixture()
	b := f.uc.CrearBorrador()
	_, err := f.uc.AgregarLote(context.Background(), b.ID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Comprometer
// ──────────────────────────────────────────────────────────────────────────────

func TestComprometer_PersisteTamborYAsignaLotes(t *testing.T) {
	f := newFixture()
	l1, l2 := f.seed("18", "200"), f.seed("19", "100")
	b := f.borradorCon(t, l1, l2)

	tbr, err := f.uc.Comprometer(context.Background(), b.ID, "user-1")
	require.NoError(t, err)

	assert.Equal(t, entity.TamborActivo, tbr.Estado)
	assert.Equal(t, "ulmo", tbr.TipoMielID)
	assert.Equal(t, miel.ClasificacionExport, tbr.Clasificacion)
	assert.Equal(t, miel.BandaBaja, tbr.Banda)
	assert.True(t, tbr.CantidadKg.Equal(kg("300")))

	for _, id := range []string{l1.ID, l2.ID} {
		l, err := f.lotes.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, entity.LoteAsignado, l.Estado)
		require.NotNil(t, l.TamborID)
		assert.Equal(t, tbr.ID, *l.TamborID)
	}

	_, err = f.uc.GetBorrador(b.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "el borrador comprometido desaparece")
}

func TestComprometer_BorradorVacioRechazado(t *testing.T) {
	f := newFixture()
	b := f.uc.CrearBorrador()
	_, err := f.uc.Comprometer(context.Background(), b.ID, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// Carrera: un lote del borrador fue consumido por otro actor entre el armado
// y el commit. Toda la operación falla y ningún lote queda asignado.
func TestComprometer_LoteStaleAbortaTodo(t *testing.T) {
	f := newFixture()
	l1, l2 := f.seed("18", "100"), f.seed("18", "50")
	b := f.borradorCon(t, l1, l2)

	require.NoError(t, f.lotes.ConsumirPorSalida(context.Background(), l2.ID, "salida-x"))

	_, err := f.uc.Comprometer(context.Background(), b.ID, "user-1")
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)

	l, err := f.lotes.GetByID(context.Background(), l1.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LoteDisponible, l.Estado, "el lote sano no debe haberse asignado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Batch
// ──────────────────────────────────────────────────────────────────────────────

// El fallo del segundo borrador se fuerza con un lote que otro actor
// consumió antes del batch.
func TestComprometerBatch_CortaEnElPrimerFalloSinRevertir(t *testing.T) {
	f := newFixture()
	b1 := f.borradorCon(t, f.seed("18", "100"))
	loteStale := f.seed("18", "50")
	b2 := f.borradorCon(t, loteStale)
	b3 := f.borradorCon(t, f.seed("18", "70"))

	// b2 queda stale antes del batch.
	require.NoError(t, f.lotes.ConsumirPorSalida(context.Background(), loteStale.ID, "salida-x"))

	comprometidos, fallidoID, err := f.uc.ComprometerBatch(
		context.Background(), []string{b1.ID, b2.ID, b3.ID}, "user-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConcurrentModification)
	assert.Equal(t, b2.ID, fallidoID)
	require.Len(t, comprometidos, 1, "solo b1 entró antes del fallo; b3 nunca se intentó")

	// El tambor de b1 NO se revierte.
	tbr, err := f.tambores.GetByID(context.Background(), comprometidos[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TamborActivo, tbr.Estado)

	// b3 sigue vivo y comprometible.
	_, err = f.uc.GetBorrador(b3.ID)
	assert.NoError(t, err)
}

func TestComprometerBatch_TodosOK(t *testing.T) {
	f := newFixture()
	b1 := f.borradorCon(t, f.seed("18", "100"))
	b2 := f.borradorCon(t, f.seed("18", "50"))

	comprometidos, fallidoID, err := f.uc.ComprometerBatch(
		context.Background(), []string{b1.ID, b2.ID}, "user-1")

	require.NoError(t, err)
	assert.Empty(t, fallidoID)
	assert.Len(t, comprometidos, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Anular tambor
// ──────────────────────────────────────────────────────────────────────────────

// Commit y anulación inmediata: los lotes vuelven a AVAILABLE con tambor_id
// limpio y el resumen de inventario es idéntico al previo.
func TestAnular_RestauraLotesDisponibles(t *testing.T) {
	f := newFixture()
	l1, l2 := f.seed("18", "200"), f.seed("19", "100")

	resumenAntes, err := f.lotes.ListDisponibles(context.Background(), repository.LoteFiltro{})
	require.NoError(t, err)

	b := f.borradorCon(t, l1, l2)
	tbr, err := f.uc.Comprometer(context.Background(), b.ID, "user-1")
	require.NoError(t, err)

	require.NoError(t, f.uc.Anular(context.Background(), tbr.ID))

	tActual, err := f.tambores.GetByID(context.Background(), tbr.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TamborAnulado, tActual.Estado)

	resumenDespues, err := f.lotes.ListDisponibles(context.Background(), repository.LoteFiltro{})
	require.NoError(t, err)
	require.Len(t, resumenDespues, len(resumenAntes))
	for i, l := range resumenDespues {
		assert.Equal(t, resumenAntes[i].ID, l.ID)
		assert.True(t, resumenAntes[i].CantidadKg.Equal(l.CantidadKg))
		assert.Nil(t, l.TamborID, "tambor_id debe quedar limpio")
	}
}

// Un lote que progresó a CONSUMED no puede revertirse: toda la anulación
// falla y el resto de los lotes sigue asignado.
func TestAnular_RechazadaSiHayLoteConsumido(t *testing.T) {
	f := newFixture()
	l1, l2 := f.seed("18", "100"), f.seed("18", "50")
	b := f.borradorCon(t, l1, l2)
	tbr, err := f.uc.Comprometer(context.Background(), b.ID, "user-1")
	require.NoError(t, err)

	require.NoError(t, f.lotes.Transicionar(context.Background(), l2.ID, entity.LoteAsignado, entity.LoteConsumido))

	assert.ErrorIs(t, f.uc.Anular(context.Background(), tbr.ID), domain.ErrLotAlreadyConsumed)

	l, err := f.lotes.GetByID(context.Background(), l1.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.LoteAsignado, l.Estado, "sin liberación parcial")
}

func TestAnular_TamborYaAnulado(t *testing.T) {
	f := newFixture()
	b := f.borradorCon(t, f.seed("18", "100"))
	tbr, err := f.uc.Comprometer(context.Background(), b.ID, "user-1")
	require.NoError(t, err)

	require.NoError(t, f.uc.Anular(context.Background(), tbr.ID))
	assert.ErrorIs(t, f.uc.Anular(context.Background(), tbr.ID), domain.ErrInvalidTransition)
}

func TestAnular_TamborInexistente(t *testing.T) {
	f := newFixture()
	assert.ErrorIs(t, f.uc.Anular(context.Background(), "no-existe"), domain.ErrNotFound)
}
