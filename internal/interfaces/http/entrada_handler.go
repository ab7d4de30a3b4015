package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mielsur/acopio-api/internal/application/dto"
	"github.com/mielsur/acopio-api/internal/application/entrada"
	"github.com/mielsur/acopio-api/internal/domain/repository"
)

// EntradaHandler maneja el registro y anulación de entradas de miel cruda.
type EntradaHandler struct {
	uc *entrada.UseCase
}

// NewEntradaHandler construye el handler.
func NewEntradaHandler(uc *entrada.UseCase) *EntradaHandler {
	return &EntradaHandler{uc: uc}
}

// Registrar registra una entrada con sus renglones pesados. Cada renglón se
// clasifica por humedad y nace como lote DISPONIBLE.
// POST /api/entradas
func (h *EntradaHandler) Registrar(c *fiber.Ctx) error {
	var in dto.RegistrarEntradaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ent, lotes, err := h.uc.Registrar(c.Context(), in, GetUserID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entradaADTO(ent, lotes))
}

// GetByID obtiene una entrada con sus lotes.
// GET /api/entradas/:id
func (h *EntradaHandler) GetByID(c *fiber.Ctx) error {
	ent, lotes, err := h.uc.GetConLotes(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(entradaADTO(ent, lotes))
}

// Anular cancela la entrada cascadeando a todos sus lotes. Rechazada si
// algún lote ya fue consumido por una salida.
// POST /api/entradas/:id/anular
func (h *EntradaHandler) Anular(c *fiber.Ctx) error {
	if err := h.uc.Anular(c.Context(), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LotesDisponibles lista lotes AVAILABLE en orden FIFO, con filtro opcional
// por tipo de miel y clasificación.
// GET /api/lotes?tipo_miel_id=&clasificacion=
func (h *EntradaHandler) LotesDisponibles(c *fiber.Ctx) error {
	lotes, err := h.uc.LotesDisponibles(c.Context(), repository.LoteFiltro{
		TipoMielID:    c.Query("tipo_miel_id"),
		Clasificacion: c.Query("clasificacion"),
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(lotesADTO(lotes))
}
