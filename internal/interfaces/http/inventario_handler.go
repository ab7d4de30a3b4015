package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/mielsur/acopio-api/internal/application/dto"
	"github.com/mielsur/acopio-api/internal/application/inventario"
)

// InventarioHandler expone el libro de inventario derivado.
type InventarioHandler struct {
	uc *inventario.UseCase
}

// NewInventarioHandler construye el handler.
func NewInventarioHandler(uc *inventario.UseCase) *InventarioHandler {
	return &InventarioHandler{uc: uc}
}

// Resumen devuelve la disponibilidad por (tipo de miel, clasificación),
// recomputada desde el estado de los lotes.
// GET /api/inventario/resumen
func (h *InventarioHandler) Resumen(c *fiber.Ctx) error {
	resumen, err := h.uc.Resumen(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(resumen)
}

// Suficiencia responde si el disponible cubre lo solicitado. Es una foto,
// sin reserva.
// GET /api/inventario/suficiencia?tipo_miel_id=&clasificacion=&solicitado_kg=
func (h *InventarioHandler) Suficiencia(c *fiber.Ctx) error {
	solicitado, err := decimal.NewFromString(c.Query("solicitado_kg"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "solicitado_kg inválido"})
	}
	out, err := h.uc.VerificarSuficiencia(c.Context(), c.Query("tipo_miel_id"), c.Query("clasificacion"), solicitado)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}
