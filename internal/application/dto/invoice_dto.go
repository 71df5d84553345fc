package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
)

// InvoiceDetailRequest línea de factura. invoiceId lo asigna el servicio.
type InvoiceDetailRequest struct {
	ProductCode string          `json:"productCode"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	VatRate     decimal.Decimal `json:"vatRate"`
	Discount    decimal.Decimal `json:"discount"`
	NetPrice    decimal.Decimal `json:"netPrice"`
}

func (r InvoiceDetailRequest) toEntity(user string) entity.InvoiceDetail {
	return entity.InvoiceDetail{
		ProductCode: r.ProductCode,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		TotalPrice:  r.TotalPrice,
		VatRate:     r.VatRate,
		Discount:    r.Discount,
		NetPrice:    r.NetPrice,
		CreatedBy:   optional(user),
	}
}

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	InvoiceNo             string                 `json:"invoiceNo"`
	GibInvoiceNo          *string                `json:"gibInvoiceNo,omitempty"`
	InvoiceDate           time.Time              `json:"invoiceDate"`
	InvoiceType           entity.InvoiceType     `json:"invoiceType"`
	DocumentType          entity.DocumentType    `json:"documentType"`
	CurrentCode           string                 `json:"currentCode"`
	CompanyCode           string                 `json:"companyCode"`
	BranchCode            string                 `json:"branchCode"`
	OutBranchCode         *string                `json:"outBranchCode,omitempty"`
	WarehouseCode         string                 `json:"warehouseCode"`
	Description           string                 `json:"description"`
	GeneralDiscountAmount decimal.Decimal        `json:"generalDiscountAmount"`
	GeneralDiscountRate   decimal.Decimal        `json:"generalDiscountRate"`
	PaymentDate           time.Time              `json:"paymentDate"`
	PaymentDay            int                    `json:"paymentDay"`
	PriceListID           string                 `json:"priceListId"`
	TotalAmount           decimal.Decimal        `json:"totalAmount"`
	TotalVat              decimal.Decimal        `json:"totalVat"`
	TotalDiscount         decimal.Decimal        `json:"totalDiscount"`
	TotalNet              decimal.Decimal        `json:"totalNet"`
	TotalPaid             decimal.Decimal        `json:"totalPaid"`
	TotalDebt             decimal.Decimal        `json:"totalDebt"`
	TotalBalance          decimal.Decimal        `json:"totalBalance"`
	Details               []InvoiceDetailRequest `json:"details"`
}

// Validate comprueba los campos mínimos de la cabecera.
func (r CreateInvoiceRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.InvoiceNo) == "" {
		missing = append(missing, "invoiceNo")
	}
	if r.InvoiceDate.IsZero() {
		missing = append(missing, "invoiceDate")
	}
	if r.InvoiceType == "" {
		missing = append(missing, "invoiceType")
	}
	if r.DocumentType == "" {
		missing = append(missing, "documentType")
	}
	missing = append(missing, missingProductCodes(r.Details)...)
	if len(missing) > 0 {
		return fmt.Errorf("%w: faltan %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	return validTypes(&r.InvoiceType, &r.DocumentType)
}

func missingProductCodes(details []InvoiceDetailRequest) []string {
	var missing []string
	for i, d := range details {
		if d.ProductCode == "" {
			missing = append(missing, fmt.Sprintf("details[%d].productCode", i))
		}
	}
	return missing
}

// validTypes rechaza invoiceType/documentType fuera de los valores admitidos. nil no se comprueba.
func validTypes(it *entity.InvoiceType, dt *entity.DocumentType) error {
	if it != nil && !it.Valid() {
		return fmt.Errorf("%w: invoiceType %q no admitido (Purchase, Sales, Return, Cancel, Other)", domain.ErrInvalidInput, *it)
	}
	if dt != nil && !dt.Valid() {
		return fmt.Errorf("%w: documentType %q no admitido (Invoice, Order, Waybill, Other)", domain.ErrInvalidInput, *dt)
	}
	return nil
}

// ToEntity separa la cabecera y las líneas. user se graba como createdBy si no está vacío.
func (r CreateInvoiceRequest) ToEntity(user string) (*entity.Invoice, []entity.InvoiceDetail) {
	inv := &entity.Invoice{
		InvoiceNo:             r.InvoiceNo,
		GibInvoiceNo:          r.GibInvoiceNo,
		InvoiceDate:           r.InvoiceDate,
		InvoiceType:           r.InvoiceType,
		DocumentType:          r.DocumentType,
		CurrentCode:           r.CurrentCode,
		CompanyCode:           r.CompanyCode,
		BranchCode:            r.BranchCode,
		OutBranchCode:         r.OutBranchCode,
		WarehouseCode:         r.WarehouseCode,
		Description:           r.Description,
		GeneralDiscountAmount: r.GeneralDiscountAmount,
		GeneralDiscountRate:   r.GeneralDiscountRate,
		PaymentDate:           r.PaymentDate,
		PaymentDay:            r.PaymentDay,
		PriceListID:           r.PriceListID,
		TotalAmount:           r.TotalAmount,
		TotalVat:              r.TotalVat,
		TotalDiscount:         r.TotalDiscount,
		TotalNet:              r.TotalNet,
		TotalPaid:             r.TotalPaid,
		TotalDebt:             r.TotalDebt,
		TotalBalance:          r.TotalBalance,
		CreatedBy:             optional(user),
	}
	details := make([]entity.InvoiceDetail, 0, len(r.Details))
	for _, d := range r.Details {
		details = append(details, d.toEntity(user))
	}
	return inv, details
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id. Solo los campos presentes se actualizan.
// Si Details no es nil, las líneas de la factura se reemplazan por completo.
type UpdateInvoiceRequest struct {
	GibInvoiceNo          *string                 `json:"gibInvoiceNo,omitempty"`
	InvoiceDate           *time.Time              `json:"invoiceDate,omitempty"`
	InvoiceType           *entity.InvoiceType     `json:"invoiceType,omitempty"`
	DocumentType          *entity.DocumentType    `json:"documentType,omitempty"`
	CurrentCode           *string                 `json:"currentCode,omitempty"`
	CompanyCode           *string                 `json:"companyCode,omitempty"`
	BranchCode            *string                 `json:"branchCode,omitempty"`
	OutBranchCode         *string                 `json:"outBranchCode,omitempty"`
	WarehouseCode         *string                 `json:"warehouseCode,omitempty"`
	Description           *string                 `json:"description,omitempty"`
	GeneralDiscountAmount *decimal.Decimal        `json:"generalDiscountAmount,omitempty"`
	GeneralDiscountRate   *decimal.Decimal        `json:"generalDiscountRate,omitempty"`
	PaymentDate           *time.Time              `json:"paymentDate,omitempty"`
	PaymentDay            *int                    `json:"paymentDay,omitempty"`
	PriceListID           *string                 `json:"priceListId,omitempty"`
	TotalAmount           *decimal.Decimal        `json:"totalAmount,omitempty"`
	TotalVat              *decimal.Decimal        `json:"totalVat,omitempty"`
	TotalDiscount         *decimal.Decimal        `json:"totalDiscount,omitempty"`
	TotalNet              *decimal.Decimal        `json:"totalNet,omitempty"`
	TotalPaid             *decimal.Decimal        `json:"totalPaid,omitempty"`
	TotalDebt             *decimal.Decimal        `json:"totalDebt,omitempty"`
	TotalBalance          *decimal.Decimal        `json:"totalBalance,omitempty"`
	CanceledAt            *time.Time              `json:"canceledAt,omitempty"`
	Details               *[]InvoiceDetailRequest `json:"details,omitempty"`
}

// Validate comprueba los tipos presentes y las líneas, si vienen.
func (r UpdateInvoiceRequest) Validate() error {
	if r.Details != nil {
		if missing := missingProductCodes(*r.Details); len(missing) > 0 {
			return fmt.Errorf("%w: faltan %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
		}
	}
	return validTypes(r.InvoiceType, r.DocumentType)
}

// ToPatch devuelve los campos presentes con sus nombres JSON. user se graba como updatedBy.
func (r UpdateInvoiceRequest) ToPatch(user string) map[string]any {
	p := patch{}
	p.set("gibInvoiceNo", deref(r.GibInvoiceNo), r.GibInvoiceNo != nil)
	p.set("currentCode", deref(r.CurrentCode), r.CurrentCode != nil)
	p.set("companyCode", deref(r.CompanyCode), r.CompanyCode != nil)
	p.set("branchCode", deref(r.BranchCode), r.BranchCode != nil)
	p.set("outBranchCode", deref(r.OutBranchCode), r.OutBranchCode != nil)
	p.set("warehouseCode", deref(r.WarehouseCode), r.WarehouseCode != nil)
	p.set("description", deref(r.Description), r.Description != nil)
	p.set("priceListId", deref(r.PriceListID), r.PriceListID != nil)
	if r.InvoiceType != nil {
		p["invoiceType"] = string(*r.InvoiceType)
	}
	if r.DocumentType != nil {
		p["documentType"] = string(*r.DocumentType)
	}
	if r.PaymentDay != nil {
		p["paymentDay"] = *r.PaymentDay
	}
	for key, t := range map[string]*time.Time{
		"invoiceDate": r.InvoiceDate,
		"paymentDate": r.PaymentDate,
		"canceledAt":  r.CanceledAt,
	} {
		if t != nil {
			p[key] = *t
		}
	}
	for key, d := range map[string]*decimal.Decimal{
		"generalDiscountAmount": r.GeneralDiscountAmount,
		"generalDiscountRate":   r.GeneralDiscountRate,
		"totalAmount":           r.TotalAmount,
		"totalVat":              r.TotalVat,
		"totalDiscount":         r.TotalDiscount,
		"totalNet":              r.TotalNet,
		"totalPaid":             r.TotalPaid,
		"totalDebt":             r.TotalDebt,
		"totalBalance":          r.TotalBalance,
	} {
		if d != nil {
			p[key] = *d
		}
	}
	if user != "" {
		p["updatedBy"] = user
	}
	return p
}

// HasDetails indica si el body trae la colección de líneas (aunque sea vacía).
func (r UpdateInvoiceRequest) HasDetails() bool { return r.Details != nil }

// DetailEntities convierte las líneas del body; nil si no vienen.
func (r UpdateInvoiceRequest) DetailEntities(user string) []entity.InvoiceDetail {
	if r.Details == nil {
		return nil
	}
	out := make([]entity.InvoiceDetail, 0, len(*r.Details))
	for _, d := range *r.Details {
		out = append(out, d.toEntity(user))
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
