package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mielsur/acopio-api/internal/application/auth"
	"github.com/mielsur/acopio-api/internal/application/catalogo"
	"github.com/mielsur/acopio-api/internal/application/entrada"
	"github.com/mielsur/acopio-api/internal/application/inventario"
	"github.com/mielsur/acopio-api/internal/application/salida"
	"github.com/mielsur/acopio-api/internal/application/tambor"
	"github.com/mielsur/acopio-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	EntradaUC    *entrada.UseCase
	TamborUC     *tambor.UseCase
	SalidaUC     *salida.UseCase
	InventarioUC *inventario.UseCase
	CatalogoUC   *catalogo.UseCase
	AuthUC       *auth.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Catálogo: lectura para todos; escritura solo admin
	catalogoHandler := NewCatalogoHandler(deps.CatalogoUC)
	protected.Get("/tipos-miel", catalogoHandler.ListTiposMiel)
	protected.Post("/tipos-miel", RequireRole(), catalogoHandler.CrearTipoMiel)
	protected.Get("/precios", catalogoHandler.ListPrecios)
	protected.Put("/precios", RequireRole(), catalogoHandler.FijarPrecio)

	// Entradas y lotes (acopiador)
	entradaHandler := NewEntradaHandler(deps.EntradaUC)
	entradas := protected.Group("/entradas", RequireRole(entity.RoleAcopiador))
	entradas.Post("/", entradaHandler.Registrar)
	entradas.Get("/:id", entradaHandler.GetByID)
	entradas.Post("/:id/anular", entradaHandler.Anular)
	protected.Get("/lotes", entradaHandler.LotesDisponibles)

	// Tambores y borradores de consolidación (acopiador)
	tamborHandler := NewTamborHandler(deps.TamborUC)
	tambores := protected.Group("/tambores", RequireRole(entity.RoleAcopiador))
	tambores.Post("/borradores", tamborHandler.CrearBorrador)
	tambores.Post("/borradores/comprometer-batch", tamborHandler.ComprometerBatch)
	tambores.Get("/borradores/:id", tamborHandler.GetBorrador)
	tambores.Delete("/borradores/:id", tamborHandler.DescartarBorrador)
	tambores.Post("/borradores/:id/lotes", tamborHandler.AgregarLote)
	tambores.Delete("/borradores/:id/lotes/:loteID", tamborHandler.QuitarLote)
	tambores.Post("/borradores/:id/comprometer", tamborHandler.Comprometer)
	tambores.Get("/", tamborHandler.List)
	tambores.Get("/:id", tamborHandler.GetByID)
	tambores.Post("/:id/anular", tamborHandler.Anular)

	// Salidas (despachador)
	salidaHandler := NewSalidaHandler(deps.SalidaUC)
	salidas := protected.Group("/salidas", RequireRole(entity.RoleDespachador))
	salidas.Post("/", salidaHandler.Crear)
	salidas.Get("/", salidaHandler.List)
	salidas.Post("/planificar", salidaHandler.Planificar)
	salidas.Get("/:id", salidaHandler.GetByID)
	salidas.Post("/:id/lineas", salidaHandler.AgregarLinea)
	salidas.Delete("/:id/lineas/:lineaID", salidaHandler.QuitarLinea)
	salidas.Post("/:id/finalizar", salidaHandler.Finalizar)
	salidas.Post("/:id/anular", salidaHandler.Anular)
	salidas.Post("/:id/entrega", salidaHandler.ConfirmarEntrega)
	salidas.Get("/:id/remito", salidaHandler.Remito)

	// Inventario derivado (cualquier rol autenticado)
	inventarioHandler := NewInventarioHandler(deps.InventarioUC)
	inv := protected.Group("/inventario")
	inv.Get("/resumen", inventarioHandler.Resumen)
	inv.Get("/suficiencia", inventarioHandler.Suficiencia)
}
