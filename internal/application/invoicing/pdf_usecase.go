package invoicing

import (
	"context"
	"fmt"

	"github.com/jhoicas/invoicing-api/internal/domain"
)

// PDFUseCase genera el PDF de una factura con sus líneas.
type PDFUseCase struct {
	invoices  InvoiceRepository
	generator InvoicePDFGenerator
}

func NewPDFUseCase(invoices InvoiceRepository, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{invoices: invoices, generator: generator}
}

// RenderInvoicePDF devuelve los bytes del PDF y un nombre de archivo sugerido.
// domain.ErrNotFound si la factura no existe.
func (uc *PDFUseCase) RenderInvoicePDF(ctx context.Context, id string) ([]byte, string, error) {
	inv, err := uc.invoices.FindByIDWithOptions(ctx, id, withDetails())
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", fmt.Errorf("pdf: factura %s: %w", id, domain.ErrNotFound)
	}
	pdfBytes, err := uc.generator.GenerateInvoicePDF(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("factura_%s.pdf", inv.InvoiceNo), nil
}
