package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/invoicing-api/internal/application/invoicing"
	"github.com/jhoicas/invoicing-api/internal/application/stock"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	infrapdf "github.com/jhoicas/invoicing-api/internal/infrastructure/pdf"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/persistence"
	httpRouter "github.com/jhoicas/invoicing-api/internal/interfaces/http"
	"github.com/jhoicas/invoicing-api/pkg/config"
	"github.com/jhoicas/invoicing-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("aplicación finalizada con error")
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	db, err := persistence.Open(ctx, cfg.DB, log)
	if err != nil {
		return fmt.Errorf("conexión a la base de datos: %w", err)
	}
	defer db.Close()

	metrics := persistence.NewMetrics(prometheus.DefaultRegisterer)

	invoiceRepo, err := persistence.NewRepository[entity.Invoice](db.Gorm, log, metrics)
	if err != nil {
		return fmt.Errorf("repositorio de facturas: %w", err)
	}
	detailRepo, err := persistence.NewRepository[entity.InvoiceDetail](db.Gorm, log, metrics)
	if err != nil {
		return fmt.Errorf("repositorio de líneas de factura: %w", err)
	}
	movementRepo, err := persistence.NewRepository[entity.StockMovement](db.Gorm, log, metrics)
	if err != nil {
		return fmt.Errorf("repositorio de movimientos de stock: %w", err)
	}

	var opts []invoicing.Option
	if cfg.Invoice.AtomicWrites {
		opts = append(opts, invoicing.WithTxRunner(persistence.NewTxRunner(db.Gorm, log, metrics)))
	}
	invoiceSvc := invoicing.NewInvoiceService(invoiceRepo, detailRepo, log, opts...)
	invoicePDFUC := invoicing.NewPDFUseCase(invoiceRepo, infrapdf.NewMarotoPDFGenerator())
	movementSvc := stock.NewStockMovementService(movementRepo, log)
	log.Info().Bool("atomic_writes", invoiceSvc.Atomic()).Msg("servicio de facturas listo")

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.Docs.FilePath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.Docs.FilePath,
			Path:     "docs",
			Title:    "Invoicing API",
		}))
	} else {
		log.Warn().Str("path", cfg.Docs.FilePath).Msg("documento OpenAPI no encontrado, /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:    cfg.App.Name,
		Invoices:   invoiceSvc,
		InvoicePDF: invoicePDFUC,
		Movements:  movementSvc,
		Gatherer:   prometheus.DefaultGatherer,
		JWTSecret:  cfg.JWT.Secret,
		DB:         db,
	})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- app.Listen(cfg.HTTP.Addr())
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		return fmt.Errorf("servidor HTTP: %w", err)
	case <-quit:
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
	return nil
}
