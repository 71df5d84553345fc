package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoicing-api/internal/application/dto"
	"github.com/jhoicas/invoicing-api/internal/application/invoicing"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// InvoiceHandler maneja las peticiones HTTP de facturas y sus líneas.
type InvoiceHandler struct {
	svc *invoicing.InvoiceService
	pdf *invoicing.PDFUseCase
}

// NewInvoiceHandler construye el handler. pdf puede ser nil si no se expone la descarga.
func NewInvoiceHandler(svc *invoicing.InvoiceService, pdf *invoicing.PDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{svc: svc, pdf: pdf}
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Produce      json
// @Param        include  query  string  false  "details para incluir las líneas"
// @Success      200  {array}   entity.Invoice
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var (
		rows []*entity.Invoice
		err  error
	)
	if includesDetails(c) {
		rows, err = h.svc.GetAllInvoicesWithRelations(c.Context())
	} else {
		rows, err = h.svc.GetAllInvoices(c.Context())
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(rows)
}

// GetByID godoc
// @Summary      Obtener factura por ID
// @Tags         invoices
// @Produce      json
// @Param        id       path   string  true   "ID de la factura"
// @Param        include  query  string  false  "details para incluir las líneas"
// @Success      200  {object}  entity.Invoice
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	var (
		inv *entity.Invoice
		err error
	)
	if includesDetails(c) {
		inv, err = h.svc.GetInvoiceWithRelationsByID(c.Context(), id)
	} else {
		inv, err = h.svc.GetInvoiceByID(c.Context(), id)
	}
	if err != nil {
		return writeError(c, err)
	}
	if inv == nil {
		return notFound(c, "factura no encontrada")
	}
	return c.JSON(inv)
}

// Create godoc
// @Summary      Crear factura con sus líneas
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "Factura y líneas"
// @Success      201   {object}  entity.Invoice
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := in.Validate(); err != nil {
		return writeError(c, err)
	}
	invoice, details := in.ToEntity(GetUserID(c))
	created, err := h.svc.CreateInvoiceWithRelations(c.Context(), invoice, details)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.svc.GetInvoiceWithRelationsByID(c.Context(), created.ID)
	if err != nil || out == nil {
		out = created
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar factura
// @Description  Con "details" en el body las líneas se reemplazan por completo.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la factura"
// @Param        body  body  dto.UpdateInvoiceRequest  true  "Campos a actualizar"
// @Success      200   {object}  entity.Invoice
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [put]
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := in.Validate(); err != nil {
		return writeError(c, err)
	}
	user := GetUserID(c)
	if !in.HasDetails() {
		updated, err := h.svc.UpdateInvoice(c.Context(), id, in.ToPatch(user))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(updated)
	}
	updated, err := h.svc.UpdateInvoiceWithRelations(c.Context(), id, in.ToPatch(user), in.DetailEntities(user))
	if err != nil {
		return writeError(c, err)
	}
	if withDetails, err := h.svc.GetInvoiceWithRelationsByID(c.Context(), id); err == nil && withDetails != nil {
		updated = withDetails
	}
	return c.JSON(updated)
}

// Delete godoc
// @Summary      Eliminar factura y sus líneas
// @Tags         invoices
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.DeleteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	ok, err := h.svc.DeleteInvoiceWithRelations(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeleteResponse{Deleted: ok})
}

// PDF godoc
// @Summary      Descargar PDF de la factura
// @Tags         invoices
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *fiber.Ctx) error {
	if h.pdf == nil {
		return notFound(c, "generación de PDF no disponible")
	}
	data, filename, err := h.pdf.RenderInvoicePDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(data)
}

func includesDetails(c *fiber.Ctx) bool {
	for _, part := range strings.Split(c.Query("include"), ",") {
		if strings.EqualFold(strings.TrimSpace(part), "details") {
			return true
		}
	}
	return false
}
