package miel_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mielsur/acopio-api/internal/domain"
	"github.com/mielsur/acopio-api/internal/domain/miel"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// ──────────────────────────────────────────────────────────────────────────────
// Clasificar — reglas exactas de la tabla comercial
// ──────────────────────────────────────────────────────────────────────────────

func TestClasificar_TablaComercial(t *testing.T) {
	casos := []struct {
		nombre   string
		humedad  string
		esperado miel.Clasificacion
	}{
		{"cero es EXPORT", "0", miel.ClasificacionExport},
		{"18 es EXPORT", "18", miel.ClasificacionExport},
		{"20 exacto es EXPORT (borde inclusivo)", "20", miel.ClasificacionExport},
		{"20.01 ya es DOMESTIC", "20.01", miel.ClasificacionDomestic},
		{"21 es DOMESTIC", "21", miel.ClasificacionDomestic},
		{"22 exacto es INDUSTRIAL", "22", miel.ClasificacionIndustrial},
		{"22.0 equivale a 22 (igualdad numérica, no textual)", "22.0", miel.ClasificacionIndustrial},
		{"22.01 vuelve a DOMESTIC", "22.01", miel.ClasificacionDomestic},
		{"21.99 es DOMESTIC", "21.99", miel.ClasificacionDomestic},
		{"35 es DOMESTIC", "35", miel.ClasificacionDomestic},
		{"100 es DOMESTIC", "100", miel.ClasificacionDomestic},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			got, err := miel.Clasificar(d(c.humedad))
			require.NoError(t, err)
			assert.Equal(t, c.esperado, got)
		})
	}
}

func TestClasificar_HumedadFueraDeRango(t *testing.T) {
	for _, humedad := range []string{"-0.01", "-5", "100.01", "250"} {
		_, err := miel.Clasificar(d(humedad))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "humedad %s debe rechazarse", humedad)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// BandaDe — la banda es más gruesa que la clasificación
// ──────────────────────────────────────────────────────────────────────────────

func TestBandaDe_CorteEn20(t *testing.T) {
	assert.Equal(t, miel.BandaBaja, miel.BandaDe(d("15")))
	assert.Equal(t, miel.BandaBaja, miel.BandaDe(d("20")))
	assert.Equal(t, miel.BandaAlta, miel.BandaDe(d("20.01")))
	assert.Equal(t, miel.BandaAlta, miel.BandaDe(d("99")))
}

// Un lote INDUSTRIAL (22%) cae en banda ALTA, la misma que un DOMESTIC de
// 21%: la banda no distingue el caso exacto de 22.
func TestBandaDe_IndustrialCompareBandaConDomestic(t *testing.T) {
	clasif21, err := miel.Clasificar(d("21"))
	require.NoError(t, err)
	clasif22, err := miel.Clasificar(d("22"))
	require.NoError(t, err)

	assert.NotEqual(t, clasif21, clasif22, "21 y 22 difieren en clasificación")
	assert.Equal(t, miel.BandaDe(d("21")), miel.BandaDe(d("22")), "pero comparten banda ALTA")
}

func TestClasificacion_EsValida(t *testing.T) {
	assert.True(t, miel.ClasificacionExport.EsValida())
	assert.True(t, miel.ClasificacionIndustrial.EsValida())
	assert.True(t, miel.ClasificacionDomestic.EsValida())
	assert.False(t, miel.Clasificacion("PREMIUM").EsValida())
	assert.False(t, miel.Clasificacion("").EsValida())
}
