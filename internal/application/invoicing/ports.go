package invoicing

import (
	"context"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

// InvoiceRepository y DetailRepository repositorios genéricos que usa el servicio.
type (
	InvoiceRepository = repository.Repository[entity.Invoice]
	DetailRepository  = repository.Repository[entity.InvoiceDetail]
)

// TxRunner ejecuta fn con repositorios atados a una misma transacción.
// Si fn devuelve error la transacción se revierte.
type TxRunner interface {
	RunInvoice(ctx context.Context, fn func(invoices InvoiceRepository, details DetailRepository) error) error
}

// InvoicePDFGenerator genera la representación gráfica de una factura con sus líneas cargadas.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error)
}
