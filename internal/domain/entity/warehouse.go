package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Warehouse representa una bodega. Los movimientos la referencian por su código.
type Warehouse struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Code       string    `gorm:"column:warehouse_code;size:50;not null;uniqueIndex" json:"warehouseCode"`
	Name       string    `gorm:"column:warehouse_name;size:150;not null" json:"warehouseName"`
	BranchCode *string   `gorm:"size:50" json:"branchCode"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Warehouse) TableName() string  { return "warehouses" }
func (Warehouse) PrimaryKey() string { return "id" }

func (w *Warehouse) BeforeCreate(_ *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// Branch sucursal de la empresa.
type Branch struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Code      string    `gorm:"column:branch_code;size:50;not null;uniqueIndex" json:"branchCode"`
	Name      string    `gorm:"column:branch_name;size:150;not null" json:"branchName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Branch) TableName() string  { return "branches" }
func (Branch) PrimaryKey() string { return "id" }

func (b *Branch) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
