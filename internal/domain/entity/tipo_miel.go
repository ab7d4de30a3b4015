package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mielsur/acopio-api/internal/domain/miel"
)

// TipoMiel es una variedad floral registrada en el centro de acopio
// (multiflora, ulmo, quillay, etc.). Codigo es un identificador estable en
// mayúsculas sin acentos, derivado del nombre.
type TipoMiel struct {
	ID        string
	Codigo    string
	Nombre    string
	CreatedAt time.Time
}

// PrecioMiel es un renglón de la lista de precios por (tipo, clasificación).
// Es una consulta externa pura: solo pre-llena el precio declarado de un
// lote en la entrada, nunca lo valida.
type PrecioMiel struct {
	TipoMielID    string
	Clasificacion miel.Clasificacion
	PrecioKg      decimal.Decimal
	UpdatedAt     time.Time
}
