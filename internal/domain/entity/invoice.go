package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InvoiceType tipo comercial de la factura.
type InvoiceType string

const (
	InvoiceTypePurchase InvoiceType = "Purchase"
	InvoiceTypeSales    InvoiceType = "Sales"
	InvoiceTypeReturn   InvoiceType = "Return"
	InvoiceTypeCancel   InvoiceType = "Cancel"
	InvoiceTypeOther    InvoiceType = "Other"
)

// Valid indica si el tipo de factura es uno de los admitidos.
func (t InvoiceType) Valid() bool {
	switch t {
	case InvoiceTypePurchase, InvoiceTypeSales, InvoiceTypeReturn, InvoiceTypeCancel, InvoiceTypeOther:
		return true
	}
	return false
}

// DocumentType tipo de documento que respalda la factura.
type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "Invoice"
	DocumentTypeOrder   DocumentType = "Order"
	DocumentTypeWaybill DocumentType = "Waybill"
	DocumentTypeOther   DocumentType = "Other"
)

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeInvoice, DocumentTypeOrder, DocumentTypeWaybill, DocumentTypeOther:
		return true
	}
	return false
}

// InvoiceDetailsRelation nombre de la relación factura → líneas de detalle.
const InvoiceDetailsRelation = "Details"

// Invoice representa la cabecera de una factura.
// Las líneas viven en InvoiceDetail y se escriben siempre junto con la cabecera.
type Invoice struct {
	ID                    string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	InvoiceNo             string          `gorm:"size:50;not null;uniqueIndex" json:"invoiceNo"`
	GibInvoiceNo          *string         `gorm:"size:50" json:"gibInvoiceNo"`
	InvoiceDate           time.Time       `gorm:"not null" json:"invoiceDate"`
	InvoiceType           InvoiceType     `gorm:"size:20;not null" json:"invoiceType"`
	DocumentType          DocumentType    `gorm:"size:20;not null" json:"documentType"`
	CurrentCode           string          `gorm:"size:50" json:"currentCode"`
	CompanyCode           string          `gorm:"size:50" json:"companyCode"`
	BranchCode            string          `gorm:"size:50" json:"branchCode"`
	OutBranchCode         *string         `gorm:"size:50" json:"outBranchCode"`
	WarehouseCode         string          `gorm:"size:50" json:"warehouseCode"`
	Description           string          `gorm:"type:text" json:"description"`
	GeneralDiscountAmount decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"generalDiscountAmount"`
	GeneralDiscountRate   decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"generalDiscountRate"`
	PaymentDate           time.Time       `json:"paymentDate"`
	PaymentDay            int             `gorm:"not null" json:"paymentDay"`
	PriceListID           string          `gorm:"type:varchar(36)" json:"priceListId"`
	TotalAmount           decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"totalAmount"`
	TotalVat              decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"totalVat"`
	TotalDiscount         decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"totalDiscount"`
	TotalNet              decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"totalNet"`
	TotalPaid             decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"totalPaid"`
	TotalDebt             decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"totalDebt"`
	TotalBalance          decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"totalBalance"`
	CanceledAt            *time.Time      `json:"canceledAt"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
	CreatedBy             *string         `gorm:"size:100" json:"createdBy"`
	UpdatedBy             *string         `gorm:"size:100" json:"updatedBy"`

	Details []InvoiceDetail `gorm:"foreignKey:InvoiceID" json:"details,omitempty"`
}

func (Invoice) TableName() string  { return "invoices" }
func (Invoice) PrimaryKey() string { return "id" }

// BeforeCreate asigna el identificador si el llamador no lo trae.
func (i *Invoice) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
