package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/persistence"
)

var fixedDate = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

// newTestDB abre una base SQLite en memoria, aislada por test, con el esquema migrado.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := persistence.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.Gorm
}

func seedStockCard(t *testing.T, db *gorm.DB, code string) *entity.StockCard {
	t.Helper()
	card := &entity.StockCard{Code: code, Name: "Producto " + code, ProductType: "goods"}
	require.NoError(t, db.Create(card).Error)
	return card
}

func seedWarehouse(t *testing.T, db *gorm.DB, code string) *entity.Warehouse {
	t.Helper()
	w := &entity.Warehouse{Code: code, Name: "Bodega " + code}
	require.NoError(t, db.Create(w).Error)
	return w
}

func newInvoice(no string) *entity.Invoice {
	return &entity.Invoice{
		InvoiceNo:     no,
		InvoiceDate:   fixedDate,
		InvoiceType:   entity.InvoiceTypeSales,
		DocumentType:  entity.DocumentTypeInvoice,
		CurrentCode:   "C001",
		BranchCode:    "B01",
		WarehouseCode: "W01",
		PaymentDate:   fixedDate.AddDate(0, 0, 30),
		PaymentDay:    30,
		TotalAmount:   decimal.RequireFromString("118.50"),
		TotalVat:      decimal.RequireFromString("18.50"),
		TotalNet:      decimal.NewFromInt(100),
	}
}

func newDetail(productCode string, qty int64) entity.InvoiceDetail {
	price := decimal.NewFromInt(10)
	return entity.InvoiceDetail{
		ProductCode: productCode,
		Quantity:    decimal.NewFromInt(qty),
		UnitPrice:   price,
		TotalPrice:  price.Mul(decimal.NewFromInt(qty)),
		VatRate:     decimal.NewFromInt(18),
		NetPrice:    price.Mul(decimal.NewFromInt(qty)),
	}
}

func ptr[T any](v T) *T { return &v }

func ctx() context.Context { return context.Background() }
