// Package pdf genera la representación gráfica de una factura con sus líneas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de documento + N° Factura │ Fecha / Vencimiento│
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Cuenta corriente / Sucursal / Bodega / Lista precios │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Cant | P.Unit | IVA | Desc. | Neto        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Neto / IVA / Descuento / TOTAL / Pagado / Saldo    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/invoicing-api/internal/application/invoicing"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

var _ invoicing.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// MarotoPDFGenerator implementa invoicing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador. Los importes se formatean según lang
// (por defecto español: 1.234,50).
func NewMarotoPDFGenerator(lang ...language.Tag) *MarotoPDFGenerator {
	tag := language.Spanish
	if len(lang) > 0 {
		tag = lang[0]
	}
	return &MarotoPDFGenerator{printer: message.NewPrinter(tag)}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes. invoice.Details debe venir cargado.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, invoice *entity.Invoice) ([]byte, error) {
	if invoice == nil {
		return nil, fmt.Errorf("pdf: factura nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+invoice.InvoiceNo, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.detailRows(invoice.Details)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(invoice))
	if invoice.Description != "" {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New(invoice.Description, props.Text{Size: 8, Color: colorGray, Top: 2}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// Money formatea un importe con dos decimales en el idioma del generador.
func (g *MarotoPDFGenerator) Money(d decimal.Decimal) string {
	return g.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func (g *MarotoPDFGenerator) quantity(d decimal.Decimal) string {
	return g.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(4)))
}

func headerRow(invoice *entity.Invoice) core.Row {
	due := "—"
	if !invoice.PaymentDate.IsZero() {
		due = invoice.PaymentDate.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(documentTitle(invoice), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Tipo: "+string(invoice.InvoiceType), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(invoice.InvoiceNo, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+invoice.InvoiceDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New(fmt.Sprintf("Vence: %s (%d días)", due, invoice.PaymentDay), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func documentTitle(invoice *entity.Invoice) string {
	switch invoice.DocumentType {
	case entity.DocumentTypeOrder:
		return "PEDIDO"
	case entity.DocumentTypeWaybill:
		return "REMISIÓN"
	case entity.DocumentTypeInvoice:
		return "FACTURA"
	default:
		return "DOCUMENTO"
	}
}

func partiesRow(invoice *entity.Invoice) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL DOCUMENTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Cuenta: %s   |   Empresa: %s   |   Sucursal: %s   |   Bodega: %s",
				nonEmpty(invoice.CurrentCode, "—"),
				nonEmpty(invoice.CompanyCode, "—"),
				nonEmpty(invoice.BranchCode, "—"),
				nonEmpty(invoice.WarehouseCode, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 3, align.Left),
		h("Cant.", 2, align.Center),
		h("Precio Unit.", 2, align.Right),
		h("IVA%", 1, align.Center),
		h("Desc.", 2, align.Right),
		h("Neto", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *MarotoPDFGenerator) detailRows(details []entity.InvoiceDetail) []core.Row {
	if len(details) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("Sin líneas", props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray}),
		))}
	}
	out := make([]core.Row, 0, len(details))
	for _, d := range details {
		out = append(out, row.New(7).Add(
			col.New(3).Add(text.New(d.ProductCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(g.quantity(d.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.Money(d.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(d.VatRate.StringFixed(0)+"%", props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.Money(d.Discount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(g.Money(d.NetPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func (g *MarotoPDFGenerator) totalsRow(invoice *entity.Invoice) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(d decimal.Decimal, top float64) core.Component {
		return text.New(g.Money(d), props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(34).Add(
		col.New(6),
		col.New(3).Add(
			label("Neto:", 0),
			label("IVA:", 5),
			label("Descuento:", 10),
			label("TOTAL:", 16),
			label("Pagado:", 22),
			label("Saldo:", 27),
		),
		col.New(3).Add(
			value(invoice.TotalNet, 0),
			value(invoice.TotalVat, 5),
			value(invoice.TotalDiscount, 10),
			value(invoice.TotalAmount, 16),
			value(invoice.TotalPaid, 22),
			value(invoice.TotalBalance, 27),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
