package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mielsur/acopio-api/internal/application/dto"
	"github.com/mielsur/acopio-api/internal/domain"
)

// errorJSON traduce un error de dominio a la respuesta HTTP. El faltante de
// stock viaja como Detail para que el cliente muestre solicitado/disponible.
func errorJSON(c *fiber.Ctx, err error) error {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: "stock insuficiente para la línea",
			Detail: fiber.Map{
				"tipo_miel_id":  stockErr.TipoMielID,
				"clasificacion": stockErr.Clasificacion,
				"solicitado_kg": stockErr.Solicitado,
				"disponible_kg": stockErr.Disponible,
				"faltante_kg":   stockErr.Faltante(),
			},
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "la cantidad debe ser mayor que cero"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrIncompatibleLot):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INCOMPATIBLE_LOT", Message: "el lote no es homogéneo con el borrador"})
	case errors.Is(err, domain.ErrCapacityExceeded):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CAPACITY_EXCEEDED", Message: "el lote supera la capacidad del tambor"})
	case errors.Is(err, domain.ErrLotUnavailable):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LOT_UNAVAILABLE", Message: "el lote no está disponible"})
	case errors.Is(err, domain.ErrLotAlreadyConsumed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LOT_CONSUMED", Message: "el lote ya fue consumido por una salida"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: "el estado actual no admite la operación"})
	case errors.Is(err, domain.ErrConcurrentModification):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el recurso cambió durante la operación, reintentar"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
