package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/mielsur/acopio-api/internal/application/dto"
	"github.com/mielsur/acopio-api/internal/application/salida"
)

// SalidaHandler maneja el ciclo de vida de las salidas: borrador, líneas,
// planificación FIFO, finalize y entrega.
type SalidaHandler struct {
	uc *salida.UseCase
}

// NewSalidaHandler construye el handler.
func NewSalidaHandler(uc *salida.UseCase) *SalidaHandler {
	return &SalidaHandler{uc: uc}
}

// Crear abre una salida en borrador.
// POST /api/salidas
func (h *SalidaHandler) Crear(c *fiber.Ctx) error {
	var in dto.CrearSalidaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s, err := h.uc.Crear(c.Context(), in, GetUserID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(salidaADTO(s))
}

// GetByID devuelve una salida con sus líneas.
// GET /api/salidas/:id
func (h *SalidaHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(salidaADTO(s))
}

// List devuelve salidas paginadas.
// GET /api/salidas?limit=&offset=
func (h *SalidaHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	salidas, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.SalidaDTO, 0, len(salidas))
	for _, s := range salidas {
		out = append(out, salidaADTO(s))
	}
	return c.JSON(out)
}

// AgregarLinea suma una línea al borrador de salida.
// POST /api/salidas/:id/lineas
func (h *SalidaHandler) AgregarLinea(c *fiber.Ctx) error {
	var in dto.LineaSalidaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	s, err := h.uc.AgregarLinea(c.Context(), c.Params("id"), in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(salidaADTO(s))
}

// QuitarLinea remueve una línea del borrador de salida.
// DELETE /api/salidas/:id/lineas/:lineaID
func (h *SalidaHandler) QuitarLinea(c *fiber.Ctx) error {
	if err := h.uc.QuitarLinea(c.Context(), c.Params("id"), c.Params("lineaID")); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Planificar previsualiza el plan FIFO de una línea con el inventario
// actual, sin efectos.
// POST /api/salidas/planificar
func (h *SalidaHandler) Planificar(c *fiber.Ctx) error {
	var in dto.LineaSalidaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	plan, err := h.uc.PlanificarLinea(c.Context(), in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(plan)
}

// Finalizar replanifica y consume: todo-o-nada. La salida pasa a IN_TRANSIT
// y los lotes planificados quedan CONSUMED.
// POST /api/salidas/:id/finalizar
func (h *SalidaHandler) Finalizar(c *fiber.Ctx) error {
	s, planes, err := h.uc.Finalizar(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	total := decimal.Zero
	for _, p := range planes {
		total = total.Add(p.TotalKg)
	}
	return c.JSON(dto.FinalizarSalidaResponse{
		Salida:  salidaADTO(s),
		Planes:  planes,
		TotalKg: total,
	})
}

// Anular cancela una salida en borrador.
// POST /api/salidas/:id/anular
func (h *SalidaHandler) Anular(c *fiber.Ctx) error {
	if err := h.uc.Anular(c.Context(), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ConfirmarEntrega registra la confirmación del verificador externo.
// POST /api/salidas/:id/entrega
func (h *SalidaHandler) ConfirmarEntrega(c *fiber.Ctx) error {
	if err := h.uc.ConfirmarEntrega(c.Context(), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Remito descarga el remito PDF de una salida finalizada.
// GET /api/salidas/:id/remito
func (h *SalidaHandler) Remito(c *fiber.Ctx) error {
	pdfBytes, err := h.uc.GenerarRemito(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="remito-`+c.Params("id")+`.pdf"`)
	return c.Send(pdfBytes)
}
