package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceDetail representa una línea de detalle de una factura.
// InvoiceID siempre apunta a una factura existente; el servicio lo asigna desde la cabecera.
type InvoiceDetail struct {
	ID          string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	InvoiceID   string          `gorm:"type:varchar(36);not null;index" json:"invoiceId"`
	ProductCode string          `gorm:"size:50;not null;index" json:"productCode"`
	Quantity    decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"unitPrice"`
	TotalPrice  decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"totalPrice"`
	VatRate     decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"vatRate"`
	Discount    decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"discount"`
	NetPrice    decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"netPrice"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	CreatedBy   *string         `gorm:"size:100" json:"createdBy"`
	UpdatedBy   *string         `gorm:"size:100" json:"updatedBy"`

	Invoice   *Invoice   `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	StockCard *StockCard `gorm:"foreignKey:ProductCode;references:Code" json:"stockCard,omitempty"`
}

func (InvoiceDetail) TableName() string  { return "invoice_details" }
func (InvoiceDetail) PrimaryKey() string { return "id" }

func (d *InvoiceDetail) BeforeCreate(_ *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
