package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/invoicing-api/docs"
	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/application/invoicing"
	"github.com/jhoicas/invoicing-api/internal/application/stock"
)

// Pinger comprueba la conexión con el almacenamiento.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName    string
	Invoices   *invoicing.InvoiceService
	InvoicePDF *invoicing.PDFUseCase
	Movements  *stock.StockMovementService
	// Gatherer expone /metrics; nil lo deshabilita.
	Gatherer prometheus.Gatherer
	// JWTSecret vacío deja /api sin autenticación.
	JWTSecret string
	// DB lo consulta /health; nil responde siempre ok.
	DB Pinger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(deps.AppName + " en ejecución")
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.DB != nil {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()
			if err := deps.DB.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).
					JSON(dto.HealthResponse{Status: "unavailable", Service: deps.AppName})
			}
		}
		return c.JSON(dto.HealthResponse{Status: "ok", Service: deps.AppName})
	})
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := docs.JSON()
		if err != nil {
			return writeError(c, err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(doc)
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
	}

	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Invoices, deps.InvoicePDF)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)

	movements := api.Group("/stock-movements")
	movementHandler := NewStockMovementHandler(deps.Movements)
	movements.Get("/", movementHandler.List)
	movements.Post("/", movementHandler.Create)
	movements.Post("/search", movementHandler.Search)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Put("/:id", movementHandler.Update)
	movements.Delete("/:id", movementHandler.Delete)
}
