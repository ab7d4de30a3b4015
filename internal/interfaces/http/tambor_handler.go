package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mielsur/acopio-api/internal/application/dto"
	"github.com/mielsur/acopio-api/internal/application/tambor"
)

// TamborHandler maneja borradores de tambor y tambores persistidos.
type TamborHandler struct {
	uc *tambor.UseCase
}

// NewTamborHandler construye el handler.
func NewTamborHandler(uc *tambor.UseCase) *TamborHandler {
	return &TamborHandler{uc: uc}
}

// CrearBorrador abre un borrador vacío.
// POST /api/tambores/borradores
func (h *TamborHandler) CrearBorrador(c *fiber.Ctx) error {
	b := h.uc.CrearBorrador()
	return c.Status(fiber.StatusCreated).JSON(borradorADTO(b))
}

// GetBorrador devuelve el estado actual de un borrador vivo.
// GET /api/tambores/borradores/:id
func (h *TamborHandler) GetBorrador(c *fiber.Ctx) error {
	b, err := h.uc.GetBorrador(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(borradorADTO(b))
}

// AgregarLote incorpora un lote al borrador, validando homogeneidad y
// capacidad.
// POST /api/tambores/borradores/:id/lotes
func (h *TamborHandler) AgregarLote(c *fiber.Ctx) error {
	var in dto.ComprometerLoteRequest
	if err := c.BodyParser(&in); err != nil || in.LoteID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "lote_id requerido"})
	}
	b, err := h.uc.AgregarLote(c.Context(), c.Params("id"), in.LoteID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(borradorADTO(b))
}

// QuitarLote remueve un lote del borrador.
// DELETE /api/tambores/borradores/:id/lotes/:loteID
func (h *TamborHandler) QuitarLote(c *fiber.Ctx) error {
	b, err := h.uc.QuitarLote(c.Params("id"), c.Params("loteID"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(borradorADTO(b))
}

// DescartarBorrador abandona un borrador sin efecto sobre inventario.
// DELETE /api/tambores/borradores/:id
func (h *TamborHandler) DescartarBorrador(c *fiber.Ctx) error {
	if err := h.uc.Descartar(c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Comprometer persiste el borrador como tambor y asigna sus lotes en una
// sola transacción.
// POST /api/tambores/borradores/:id/comprometer
func (h *TamborHandler) Comprometer(c *fiber.Ctx) error {
	t, err := h.uc.Comprometer(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tamborADTO(t))
}

// ComprometerBatch compromete varios borradores en orden, uno por
// transacción. Los ya comprometidos no se revierten si uno posterior falla.
// POST /api/tambores/borradores/comprometer-batch
func (h *TamborHandler) ComprometerBatch(c *fiber.Ctx) error {
	var in dto.ComprometerBatchRequest
	if err := c.BodyParser(&in); err != nil || len(in.BorradorIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "borrador_ids requerido"})
	}
	comprometidos, fallidoID, err := h.uc.ComprometerBatch(c.Context(), in.BorradorIDs, GetUserID(c))
	resp := dto.ComprometerBatchResponse{
		Comprometidos: make([]dto.TamborDTO, 0, len(comprometidos)),
		FallidoID:     fallidoID,
	}
	for _, t := range comprometidos {
		resp.Comprometidos = append(resp.Comprometidos, tamborADTO(t))
	}
	if err != nil {
		resp.Error = err.Error()
		return c.Status(fiber.StatusConflict).JSON(resp)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List devuelve tambores persistidos paginados.
// GET /api/tambores?limit=&offset=
func (h *TamborHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	tambores, err := h.uc.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.TamborDTO, 0, len(tambores))
	for _, t := range tambores {
		out = append(out, tamborADTO(t))
	}
	return c.JSON(out)
}

// GetByID devuelve un tambor con sus lotes.
// GET /api/tambores/:id
func (h *TamborHandler) GetByID(c *fiber.Ctx) error {
	t, lotes, err := h.uc.GetConLotes(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"tambor": tamborADTO(t), "lotes": lotesADTO(lotes)})
}

// Anular cancela un tambor ACTIVO devolviendo sus lotes a AVAILABLE.
// POST /api/tambores/:id/anular
func (h *TamborHandler) Anular(c *fiber.Ctx) error {
	if err := h.uc.Anular(c.Context(), c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
