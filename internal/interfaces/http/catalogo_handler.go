package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mielsur/acopio-api/internal/application/catalogo"
	"github.com/mielsur/acopio-api/internal/application/dto"
)

// CatalogoHandler maneja tipos de miel y lista de precios.
type CatalogoHandler struct {
	uc *catalogo.UseCase
}

// NewCatalogoHandler construye el handler.
func NewCatalogoHandler(uc *catalogo.UseCase) *CatalogoHandler {
	return &CatalogoHandler{uc: uc}
}

// CrearTipoMiel registra una variedad floral.
// POST /api/tipos-miel
func (h *CatalogoHandler) CrearTipoMiel(c *fiber.Ctx) error {
	var in dto.CrearTipoMielRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.uc.CrearTipoMiel(c.Context(), in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tipoMielADTO(t))
}

// ListTiposMiel devuelve el catálogo completo.
// GET /api/tipos-miel
func (h *CatalogoHandler) ListTiposMiel(c *fiber.Ctx) error {
	tipos, err := h.uc.ListTiposMiel(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.TipoMielDTO, 0, len(tipos))
	for _, t := range tipos {
		out = append(out, tipoMielADTO(t))
	}
	return c.JSON(out)
}

// FijarPrecio inserta o actualiza un renglón de la lista de precios.
// PUT /api/precios
func (h *CatalogoHandler) FijarPrecio(c *fiber.Ctx) error {
	var in dto.UpsertPrecioRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	p, err := h.uc.FijarPrecio(c.Context(), in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(precioADTO(p))
}

// ListPrecios devuelve la lista de precios completa.
// GET /api/precios
func (h *CatalogoHandler) ListPrecios(c *fiber.Ctx) error {
	precios, err := h.uc.ListPrecios(c.Context())
	if err != nil {
		return errorJSON(c, err)
	}
	out := make([]dto.PrecioDTO, 0, len(precios))
	for _, p := range precios {
		out = append(out, precioADTO(p))
	}
	return c.JSON(out)
}
