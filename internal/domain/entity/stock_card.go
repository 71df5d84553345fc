package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockCard tarjeta de producto. productCode es la clave natural que usan detalles y movimientos.
type StockCard struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Code          string    `gorm:"column:product_code;size:50;not null;uniqueIndex" json:"productCode"`
	Name          string    `gorm:"column:product_name;size:200;not null" json:"productName"`
	ProductType   string    `gorm:"size:30" json:"productType"`
	UnitOfMeasure *string   `gorm:"size:20" json:"unitOfMeasure"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (StockCard) TableName() string  { return "stock_cards" }
func (StockCard) PrimaryKey() string { return "id" }

func (s *StockCard) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// PriceList lista de precios.
type PriceList struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	Currency  string    `gorm:"size:3;not null" json:"currency"`
	IsActive  bool      `gorm:"not null" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (PriceList) TableName() string  { return "price_lists" }
func (PriceList) PrimaryKey() string { return "id" }

func (p *PriceList) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
