// Package miel contiene los servicios puros de dominio sobre miel cruda:
// clasificación comercial por humedad y banda de humedad para homogeneidad
// de tambores.
package miel

import (
	"github.com/shopspring/decimal"

	"github.com/mielsur/acopio-api/internal/domain"
)

// Clasificacion comercial de un lote, derivada de la humedad medida.
type Clasificacion string

const (
	ClasificacionExport     Clasificacion = "EXPORT"     // humedad <= 20%
	ClasificacionIndustrial Clasificacion = "INDUSTRIAL" // humedad == 22% exacto
	ClasificacionDomestic   Clasificacion = "DOMESTIC"   // resto (> 20% y != 22%)
)

// Banda de humedad usada SOLO para homogeneidad de tambores. Es más gruesa
// que la clasificación de tres vías: un lote INDUSTRIAL (22%) cae en la misma
// banda ALTA que uno DOMESTIC de 21% o 99%. La discrepancia en 22% es
// comportamiento observable del negocio y se conserva tal cual.
type Banda string

const (
	BandaBaja Banda = "LOW"  // humedad <= 20%
	BandaAlta Banda = "HIGH" // humedad > 20%
)

var (
	humedadExportMax  = decimal.NewFromInt(20)
	humedadIndustrial = decimal.NewFromInt(22)
	humedadMax        = decimal.NewFromInt(100)
)

// Clasificar mapea la humedad medida (porcentaje 0-100) a la clasificación
// comercial. Reglas exactas:
//
//	humedad <= 20         → EXPORT
//	humedad == 22 exacto  → INDUSTRIAL
//	resto                 → DOMESTIC
//
// Devuelve ErrInvalidInput si la humedad está fuera de [0, 100].
func Clasificar(humedad decimal.Decimal) (Clasificacion, error) {
	if humedad.IsNegative() || humedad.GreaterThan(humedadMax) {
		return "", domain.ErrInvalidInput
	}
	switch {
	case humedad.LessThanOrEqual(humedadExportMax):
		return ClasificacionExport, nil
	case humedad.Equal(humedadIndustrial):
		return ClasificacionIndustrial, nil
	default:
		return ClasificacionDomestic, nil
	}
}

// BandaDe devuelve la banda de humedad para chequeos de homogeneidad de
// tambor. Asume humedad ya validada por Clasificar.
func BandaDe(humedad decimal.Decimal) Banda {
	if humedad.LessThanOrEqual(humedadExportMax) {
		return BandaBaja
	}
	return BandaAlta
}

// EsValida reporta si el string corresponde a una clasificación conocida.
func (c Clasificacion) EsValida() bool {
	switch c {
	case ClasificacionExport, ClasificacionIndustrial, ClasificacionDomestic:
		return true
	}
	return false
}
