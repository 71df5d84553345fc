package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Nombres de las relaciones de un movimiento (clave de CreateInput.Relations).
const (
	RelationWarehouse    = "warehouse"
	RelationOutWarehouse = "outWarehouse"
	RelationBranch       = "branch"
	RelationStockCard    = "stockCard"
	RelationPriceList    = "priceList"
)

// StockMovement representa un movimiento de inventario asociado a una tarjeta de stock.
// Las claves foráneas usan los códigos naturales (productCode, warehouseCode, branchCode).
type StockMovement struct {
	ID               string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	ProductCode      string          `gorm:"size:50;not null;index" json:"productCode"`
	WarehouseCode    *string         `gorm:"size:50;index" json:"warehouseCode"`
	OutWarehouseCode *string         `gorm:"size:50" json:"outWarehouseCode"`
	BranchCode       *string         `gorm:"size:50" json:"branchCode"`
	PriceListID      *string         `gorm:"type:varchar(36)" json:"priceListId"`
	CurrentCode      *string         `gorm:"size:50" json:"currentCode"`
	MovementType     *string         `gorm:"size:30" json:"movementType"`
	InvoiceNo        *string         `gorm:"size:50;index" json:"invoiceNo"`
	GcCode           *string         `gorm:"size:10" json:"gcCode"`
	Type             *string         `gorm:"size:30" json:"type"`
	Description      *string         `gorm:"type:text" json:"description"`
	Quantity         decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"unitPrice"`
	TotalPrice       decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"totalPrice"`
	InvoiceDate      *time.Time      `json:"invoiceDate"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	CreatedBy        *string         `gorm:"size:100" json:"createdBy"`
	UpdatedBy        *string         `gorm:"size:100" json:"updatedBy"`

	Warehouse    *Warehouse `gorm:"foreignKey:WarehouseCode;references:Code" json:"warehouse,omitempty"`
	OutWarehouse *Warehouse `gorm:"foreignKey:OutWarehouseCode;references:Code" json:"outWarehouse,omitempty"`
	Branch       *Branch    `gorm:"foreignKey:BranchCode;references:Code" json:"branch,omitempty"`
	StockCard    *StockCard `gorm:"foreignKey:ProductCode;references:Code" json:"stockCard,omitempty"`
	PriceList    *PriceList `gorm:"foreignKey:PriceListID" json:"priceList,omitempty"`
}

func (StockMovement) TableName() string  { return "stock_movements" }
func (StockMovement) PrimaryKey() string { return "id" }

func (m *StockMovement) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
