package asignacion_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/asignacion"
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

func loteFIFO(id string, orden int64, cantidad string) *entity.Lote {
	return &entity.Lote{
		ID:            id,
		OrdenLlegada:  orden,
		TipoMielID:    "multiflora",
		Clasificacion: miel.ClasificacionExport,
		CantidadKg:    kg(cantidad),
		Estado:        entity.LoteDisponible,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Planificar — FIFO estricto por orden de llegada
// ──────────────────────────────────────────────────────────────────────────────

// Caso canónico: tres lotes de 50 kg, pedido de 80 kg → consume A y B
// enteros (100 kg) y NUNCA toca C, aunque C alcanzaría junto con A.
func TestPlanificar_FIFOConsumeLosMasAntiguos(t *testing.T) {
	disponibles := []*entity.Lote{
		loteFIFO("C", 3, "50"),
		loteFIFO("A", 1, "50"),
		loteFIFO("B", 2, "50"),
	}

	plan, err := asignacion.Planificar(disponibles, "multiflora", "EXPORT", kg("80"))
	require.NoError(t, err)

	require.Len(t, plan.Consumos, 2)
	assert.Equal(t, "A", plan.Consumos[0].LoteID, "el más antiguo primero")
	assert.Equal(t, "B", plan.Consumos[1].LoteID)
	assert.True(t, plan.TotalKg.Equal(kg("100")), "lotes enteros: 100 kg por 80 pedidos, got %s", plan.TotalKg)
}

// El último lote se toma entero aunque sobrepase: pedir 10 kg con un único
// lote de 300 kg consume los 300.
func TestPlanificar_SobrepasoPorLoteEntero(t *testing.T) {
	disponibles := []*entity.Lote{loteFIFO("A", 1, "300")}

	plan, err := asignacion.Planificar(disponibles, "multiflora", "EXPORT", kg("10"))
	require.NoError(t, err)

	require.Len(t, plan.Consumos, 1)
	assert.True(t, plan.TotalKg.Equal(kg("300")))
}

// Pedido exactamente igual al acumulado: sin sobrepaso.
func TestPlanificar_CoberturaExacta(t *testing.T) {
	disponibles := []*entity.Lote{
		loteFIFO("A", 1, "50"),
		loteFIFO("B", 2, "50"),
	}

	plan, err := asignacion.Planificar(disponibles, "multiflora", "EXPORT", kg("100"))
	require.NoError(t, err)

	require.Len(t, plan.Consumos, 2)
	assert.True(t, plan.TotalKg.Equal(kg("100")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Planificar — insuficiencia y entradas inválidas
// ──────────────────────────────────────────────────────────────────────────────

func TestPlanificar_StockInsuficiente(t *testing.T) {
	disponibles := []*entity.Lote{
		loteFIFO("A", 1, "60"),
		loteFIFO("B", 2, "40"),
	}

	_, err := asignacion.Planificar(disponibles, "multiflora", "EXPORT", kg("150"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El error lleva los datos del faltante para el cliente.
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, stockErr.Solicitado.Equal(kg("150")))
	assert.True(t, stockErr.Disponible.Equal(kg("100")))
	assert.True(t, stockErr.Faltante().Equal(kg("50")))
}

func TestPlanificar_SinLotesDisponibles(t *testing.T) {
	_, err := asignacion.Planificar(nil, "multiflora", "EXPORT", kg("1"))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestPlanificar_CantidadInvalida(t *testing.T) {
	disponibles := []*entity.Lote{loteFIFO("A", 1, "50")}

	_, err := asignacion.Planificar(disponibles, "multiflora", "EXPORT", kg("0"))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = asignacion.Planificar(disponibles, "multiflora", "EXPORT", kg("-3"))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// Planificar no debe mutar el slice del llamador.
func TestPlanificar_NoReordenaElSliceOriginal(t *testing.T) {
	disponibles := []*entity.Lote{
		loteFIFO("C", 3, "50"),
		loteFIFO("A", 1, "50"),
	}

	_, err := asignacion.Planificar(disponibles, "multiflora", "EXPORT", kg("50"))
	require.NoError(t, err)

	assert.Equal(t, "C", disponibles[0].ID)
	assert.Equal(t, "A", disponibles[1].ID)
}
