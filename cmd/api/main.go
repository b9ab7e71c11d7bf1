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

	"github.com/jhoicas/Movimientos-api/internal/application/catalog"
	"github.com/jhoicas/Movimientos-api/internal/application/importer"
	"github.com/jhoicas/Movimientos-api/internal/application/movements"
	infrapdf "github.com/jhoicas/Movimientos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Movimientos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Movimientos-api/internal/interfaces/http"
	"github.com/jhoicas/Movimientos-api/pkg/config"
	"github.com/jhoicas/Movimientos-api/pkg/logger"
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

	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Sink transaccional: los lotes importados entran completos o no entran.
	sink := postgres.NewSink(txRunner)
	importLog := log.Component("importer")
	submitter := importer.NewBatchSubmitter(sink, importer.RetryConfig{
		MaxAttempts: cfg.Import.RetryAttempts,
		BaseDelay:   cfg.Import.RetryBase,
		MaxDelay:    cfg.Import.RetryMax,
	}, importLog)

	limits := importer.Limits{
		MaxFileBytes: int(cfg.Import.MaxFileBytes),
		MaxRows:      cfg.Import.MaxRows,
	}
	productImportUC := importer.NewProductImportUseCase(submitter, limits, importLog)
	movementImportUC := importer.NewMovementImportUseCase(
		submitter, productRepo, warehouseRepo, vehicleRepo, limits, importLog,
	)

	manifestGen := infrapdf.NewMarotoManifestGenerator()
	movementUC := movements.NewUseCase(
		movementRepo, productRepo, warehouseRepo, vehicleRepo, manifestGen, log.Component("movements"),
	)
	catalogUC := catalog.NewUseCase(productRepo, warehouseRepo, vehicleRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    limits.MaxFileBytes + 1<<20, // archivo + margen para el resto del form
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Movimientos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:   catalogUC,
		MovementUC:  movementUC,
		ProductImp:  productImportUC,
		MovementImp: movementImportUC,
		JWTSecret:   cfg.JWT.Secret,
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
