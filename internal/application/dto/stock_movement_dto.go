package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoicing-api/internal/application/stock"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/query"
)

// CreateStockMovementRequest body para POST /api/stock-movements.
type CreateStockMovementRequest struct {
	ProductCode      string          `json:"productCode"`
	WarehouseCode    *string         `json:"warehouseCode,omitempty"`
	OutWarehouseCode *string         `json:"outWarehouseCode,omitempty"`
	BranchCode       *string         `json:"branchCode,omitempty"`
	PriceListID      *string         `json:"priceListId,omitempty"`
	CurrentCode      *string         `json:"currentCode,omitempty"`
	MovementType     *string         `json:"movementType,omitempty"`
	InvoiceNo        *string         `json:"invoiceNo,omitempty"`
	GcCode           *string         `json:"gcCode,omitempty"`
	Type             *string         `json:"type,omitempty"`
	Description      *string         `json:"description,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
	InvoiceDate      *time.Time      `json:"invoiceDate,omitempty"`
}

// ToInput valida y convierte el body. user se graba como createdBy.
func (r CreateStockMovementRequest) ToInput(user string) (stock.CreateStockMovementInput, error) {
	if strings.TrimSpace(r.ProductCode) == "" {
		return stock.CreateStockMovementInput{}, fmt.Errorf("%w: productCode es requerido", domain.ErrInvalidInput)
	}
	return stock.CreateStockMovementInput{
		ProductCode:      r.ProductCode,
		WarehouseCode:    r.WarehouseCode,
		OutWarehouseCode: r.OutWarehouseCode,
		BranchCode:       r.BranchCode,
		PriceListID:      r.PriceListID,
		CurrentCode:      r.CurrentCode,
		MovementType:     r.MovementType,
		InvoiceNo:        r.InvoiceNo,
		GcCode:           r.GcCode,
		Type:             r.Type,
		Description:      r.Description,
		Quantity:         r.Quantity,
		UnitPrice:        r.UnitPrice,
		TotalPrice:       r.TotalPrice,
		InvoiceDate:      r.InvoiceDate,
		CreatedBy:        optional(user),
	}, nil
}

// UpdateStockMovementRequest body para PUT /api/stock-movements/:id.
type UpdateStockMovementRequest struct {
	CurrentCode  *string          `json:"currentCode,omitempty"`
	MovementType *string          `json:"movementType,omitempty"`
	InvoiceNo    *string          `json:"invoiceNo,omitempty"`
	GcCode       *string          `json:"gcCode,omitempty"`
	Type         *string          `json:"type,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice    *decimal.Decimal `json:"unitPrice,omitempty"`
	TotalPrice   *decimal.Decimal `json:"totalPrice,omitempty"`
	InvoiceDate  *time.Time       `json:"invoiceDate,omitempty"`
}

// ToPatch devuelve los campos presentes. user se graba como updatedBy.
func (r UpdateStockMovementRequest) ToPatch(user string) map[string]any {
	p := patch{}
	p.set("currentCode", deref(r.CurrentCode), r.CurrentCode != nil)
	p.set("movementType", deref(r.MovementType), r.MovementType != nil)
	p.set("invoiceNo", deref(r.InvoiceNo), r.InvoiceNo != nil)
	p.set("gcCode", deref(r.GcCode), r.GcCode != nil)
	p.set("type", deref(r.Type), r.Type != nil)
	p.set("description", deref(r.Description), r.Description != nil)
	if r.Quantity != nil {
		p["quantity"] = *r.Quantity
	}
	if r.UnitPrice != nil {
		p["unitPrice"] = *r.UnitPrice
	}
	if r.TotalPrice != nil {
		p["totalPrice"] = *r.TotalPrice
	}
	if r.InvoiceDate != nil {
		p["invoiceDate"] = *r.InvoiceDate
	}
	if user != "" {
		p["updatedBy"] = user
	}
	return p
}

// SearchRequest body para POST /api/stock-movements/search.
//
//	{"where": {"quantity": {"gt": 5}, "OR": [...]}, "orderBy": {"createdAt": "desc"}, "take": 10}
type SearchRequest struct {
	Where   map[string]any `json:"where,omitempty"`
	OrderBy any            `json:"orderBy,omitempty"`
	Take    int            `json:"take,omitempty"`
	Skip    int            `json:"skip,omitempty"`
	Include []string       `json:"include,omitempty"`
	Select  []string       `json:"select,omitempty"`
}

// ToQuery traduce el body al árbol de filtros y las opciones de búsqueda.
func (r SearchRequest) ToQuery() (query.Filter, query.FindOptions, error) {
	filter, err := query.ParseWhere(r.Where)
	if err != nil {
		return nil, query.FindOptions{}, err
	}
	order, err := query.ParseOrderBy(r.OrderBy)
	if err != nil {
		return nil, query.FindOptions{}, err
	}
	if r.Take < 0 || r.Skip < 0 {
		return nil, query.FindOptions{}, fmt.Errorf("%w: take/skip negativos", domain.ErrInvalidInput)
	}
	return filter, query.FindOptions{
		Include: r.Include,
		Select:  r.Select,
		OrderBy: order,
		Take:    r.Take,
		Skip:    r.Skip,
	}, nil
}
