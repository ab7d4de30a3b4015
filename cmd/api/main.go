package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mielsur/acopio-api/internal/application/auth"
	"github.com/mielsur/acopio-api/internal/application/catalogo"
	"github.com/mielsur/acopio-api/internal/application/entrada"
	"github.com/mielsur/acopio-api/internal/application/inventario"
	"github.com/mielsur/acopio-api/internal/application/salida"
	"github.com/mielsur/acopio-api/internal/application/tambor"
	infrapdf "github.com/mielsur/acopio-api/internal/infrastructure/pdf"
	"github.com/mielsur/acopio-api/internal/infrastructure/postgres"
	httpRouter "github.com/mielsur/acopio-api/internal/interfaces/http"
	"github.com/mielsur/acopio-api/pkg/config"
	"github.com/mielsur/acopio-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	tipoMielRepo := postgres.NewTipoMielRepository(pool)
	precioRepo := postgres.NewPrecioRepository(pool)
	loteRepo := postgres.NewLoteRepository(pool)
	entradaRepo := postgres.NewEntradaRepository(pool)
	tamborRepo := postgres.NewTamborRepository(pool)
	salidaRepo := postgres.NewSalidaRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	remitoGen := infrapdf.NewMarotoRemitoGenerator(cfg.App.Name)

	entradaUC := entrada.NewUseCase(txRunner, tipoMielRepo, precioRepo, loteRepo, entradaRepo)
	tamborUC := tambor.NewUseCase(txRunner, loteRepo, tamborRepo)
	salidaUC := salida.NewUseCase(txRunner, salidaRepo, loteRepo, remitoGen)
	inventarioUC := inventario.NewUseCase(loteRepo)
	catalogoUC := catalogo.NewUseCase(tipoMielRepo, precioRepo)
	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Acopio Miel API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		EntradaUC:    entradaUC,
		TamborUC:     tamborUC,
		SalidaUC:     salidaUC,
		InventarioUC: inventarioUC,
		CatalogoUC:   catalogoUC,
		AuthUC:       authUC,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
