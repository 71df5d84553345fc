package persistence_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/query"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/persistence"
)

func movement(productCode string) *entity.StockMovement {
	return &entity.StockMovement{
		ProductCode: productCode,
		Quantity:    decimal.NewFromInt(5),
		UnitPrice:   decimal.NewFromInt(10),
		TotalPrice:  decimal.NewFromInt(50),
	}
}

func TestCreateWithRelations_ConnectAsignaClaves(t *testing.T) {
	db := newTestDB(t)
	repo, err := persistence.NewRepository[entity.StockMovement](db, nil, nil)
	require.NoError(t, err)
	seedStockCard(t, db, "P1")
	seedWarehouse(t, db, "W1")
	seedWarehouse(t, db, "W2")
	prices := &entity.PriceList{Name: "Mayorista", Currency: "TRY", IsActive: true}
	require.NoError(t, db.Create(prices).Error)

	created, err := repo.CreateWithRelations(ctx(), query.CreateInput[entity.StockMovement]{
		Data: movement("P1"),
		Relations: map[string]query.RelationInput{
			"stockCard":    query.ConnectBy("productCode", "P1"),
			"warehouse":    query.ConnectBy("warehouseCode", "W1"),
			"outWarehouse": query.ConnectBy("warehouseCode", "W2"),
			"priceList":    query.ConnectBy("id", prices.ID),
			"branch":       {},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := repo.FindByIDWithOptions(ctx(), created.ID, query.FindOptions{
		Include: []string{"stockCard", "warehouse", "outWarehouse", "priceList", "branch"},
	})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "P1", got.ProductCode)
	require.NotNil(t, got.WarehouseCode)
	assert.Equal(t, "W1", *got.WarehouseCode)
	require.NotNil(t, got.OutWarehouseCode)
	assert.Equal(t, "W2", *got.OutWarehouseCode)
	require.NotNil(t, got.PriceListID)
	assert.Equal(t, prices.ID, *got.PriceListID)
	assert.Nil(t, got.BranchCode, "un objeto de relación vacío no conecta nada")

	require.NotNil(t, got.StockCard)
	assert.Equal(t, "Producto P1", got.StockCard.Name)
	require.NotNil(t, got.OutWarehouse)
	assert.Equal(t, "W2", got.OutWarehouse.Code)
	assert.Nil(t, got.Branch)
}

func TestCreateWithRelations_DestinoInexistente(t *testing.T) {
	db := newTestDB(t)
	repo, err := persistence.NewRepository[entity.StockMovement](db, nil, nil)
	require.NoError(t, err)
	seedStockCard(t, db, "P1")

	_, err = repo.CreateWithRelations(ctx(), query.CreateInput[entity.StockMovement]{
		Data: movement("P1"),
		Relations: map[string]query.RelationInput{
			"stockCard": query.ConnectBy("productCode", "P1"),
			"warehouse": query.ConnectBy("warehouseCode", "NO-EXISTE"),
		},
	})
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)

	_, err = repo.CreateWithRelations(ctx(), query.CreateInput[entity.StockMovement]{
		Data:      movement("P-NO"),
		Relations: map[string]query.RelationInput{"stockCard": query.ConnectBy("productCode", "P-NO")},
	})
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)

	rows, err := repo.FindAll(ctx())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCreateWithRelations_RelacionDesconocida(t *testing.T) {
	db := newTestDB(t)
	repo, err := persistence.NewRepository[entity.StockMovement](db, nil, nil)
	require.NoError(t, err)

	_, err = repo.CreateWithRelations(ctx(), query.CreateInput[entity.StockMovement]{
		Data:      movement("P1"),
		Relations: map[string]query.RelationInput{"customer": {}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = repo.CreateWithRelations(ctx(), query.CreateInput[entity.StockMovement]{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_SinRelacionRequerida(t *testing.T) {
	db := newTestDB(t)
	repo, err := persistence.NewRepository[entity.StockMovement](db, nil, nil)
	require.NoError(t, err)

	_, err = repo.Create(ctx(), movement("SIN-TARJETA"))
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
}
