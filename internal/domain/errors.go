package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas). El motor de reglas devuelve
// siempre uno de estos valores tipados ante una violación esperada; la capa
// HTTP los mapea a códigos de estado y mensajes para el operador.
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrUserNotFound           = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists     = errors.New("el email ya está registrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInvalidQuantity        = errors.New("cantidad inválida: debe ser mayor a cero")
	ErrIncompatibleLot        = errors.New("lote incompatible con el tambor (tipo, clasificación o banda de humedad)")
	ErrCapacityExceeded       = errors.New("capacidad del tambor excedida")
	ErrLotUnavailable         = errors.New("el lote no está disponible")
	ErrLotAlreadyConsumed     = errors.New("el lote ya fue consumido por una salida")
	ErrInvalidTransition      = errors.New("transición de estado inválida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrConcurrentModification = errors.New("el recurso fue modificado por otra operación")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
)

// InsufficientStockError lleva las cantidades solicitada y disponible para que
// el operador vea el faltante exacto. errors.Is(err, ErrInsufficientStock)
// devuelve true para este tipo.
type InsufficientStockError struct {
	TipoMielID    string
	Clasificacion string
	Solicitado    decimal.Decimal
	Disponible    decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para tipo %s clasificación %s: solicitado %s kg, disponible %s kg",
		e.TipoMielID, e.Clasificacion, e.Solicitado.String(), e.Disponible.String())
}

// Is permite que errors.Is trate este error como ErrInsufficientStock.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Faltante devuelve la cantidad que falta para cubrir lo solicitado.
func (e *InsufficientStockError) Faltante() decimal.Decimal {
	return e.Solicitado.Sub(e.Disponible)
}
