package stock_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/application/stock"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/query"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/persistence"
)

func strptr(s string) *string { return &s }

func baseInput() stock.CreateStockMovementInput {
	return stock.CreateStockMovementInput{
		ProductCode: "P1",
		Quantity:    decimal.NewFromInt(3),
		UnitPrice:   decimal.NewFromInt(7),
		TotalPrice:  decimal.NewFromInt(21),
	}
}

func TestBuildCreateInput_SinCodigosOpcionales(t *testing.T) {
	in := stock.BuildCreateInput(baseInput())

	require.NotNil(t, in.Data)
	assert.Equal(t, "P1", in.Data.ProductCode)
	assert.Nil(t, in.Data.WarehouseCode)
	assert.Nil(t, in.Data.BranchCode)

	assert.Equal(t, query.ConnectBy("productCode", "P1"), in.Relations[entity.RelationStockCard])

	wh, ok := in.Relations[entity.RelationWarehouse]
	require.True(t, ok, "warehouse siempre está presente")
	assert.True(t, wh.IsEmpty())
	br, ok := in.Relations[entity.RelationBranch]
	require.True(t, ok, "branch siempre está presente")
	assert.True(t, br.IsEmpty())

	_, ok = in.Relations[entity.RelationOutWarehouse]
	assert.False(t, ok, "outWarehouse se omite")
	_, ok = in.Relations[entity.RelationPriceList]
	assert.False(t, ok, "priceList se omite")
	assert.Len(t, in.Relations, 3)
}

func TestBuildCreateInput_CodigosVaciosCuentanComoAusentes(t *testing.T) {
	raw := baseInput()
	raw.WarehouseCode = strptr("")
	raw.OutWarehouseCode = strptr("")
	raw.PriceListID = strptr("")

	in := stock.BuildCreateInput(raw)
	assert.Nil(t, in.Data.WarehouseCode)
	assert.True(t, in.Relations[entity.RelationWarehouse].IsEmpty())
	assert.NotContains(t, in.Relations, entity.RelationOutWarehouse)
	assert.NotContains(t, in.Relations, entity.RelationPriceList)
}

func TestBuildCreateInput_TodosLosCodigos(t *testing.T) {
	raw := baseInput()
	raw.WarehouseCode = strptr("W1")
	raw.OutWarehouseCode = strptr("W2")
	raw.BranchCode = strptr("B1")
	raw.PriceListID = strptr("pl-1")
	raw.Description = strptr("traspaso")

	in := stock.BuildCreateInput(raw)
	assert.Equal(t, query.ConnectBy("warehouseCode", "W1"), in.Relations[entity.RelationWarehouse])
	assert.Equal(t, query.ConnectBy("warehouseCode", "W2"), in.Relations[entity.RelationOutWarehouse])
	assert.Equal(t, query.ConnectBy("branchCode", "B1"), in.Relations[entity.RelationBranch])
	assert.Equal(t, query.ConnectBy("id", "pl-1"), in.Relations[entity.RelationPriceList])
	require.NotNil(t, in.Data.Description)
	assert.Equal(t, "traspaso", *in.Data.Description)
}

// capturingRepo registra el payload de CreateWithRelations sin tocar almacenamiento.
type capturingRepo struct {
	stock.StockMovementRepository
	got query.CreateInput[entity.StockMovement]
}

func (r *capturingRepo) CreateWithRelations(_ context.Context, in query.CreateInput[entity.StockMovement]) (*entity.StockMovement, error) {
	r.got = in
	out := *in.Data
	out.ID = "mov-1"
	return &out, nil
}

func TestCreateStockMovement_PayloadSinCodigosOpcionales(t *testing.T) {
	repo := &capturingRepo{}
	svc := stock.NewStockMovementService(repo, nil)

	in := baseInput()
	in.Quantity = decimal.NewFromInt(5)
	in.UnitPrice = decimal.NewFromInt(10)
	in.TotalPrice = decimal.NewFromInt(50)
	created, err := svc.CreateStockMovement(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "mov-1", created.ID)

	rels := repo.got.Relations
	assert.Equal(t, map[string]any{"productCode": "P1"}, rels[entity.RelationStockCard].Connect)
	assert.Equal(t, query.RelationInput{}, rels[entity.RelationWarehouse])
	assert.Contains(t, rels, entity.RelationBranch)
	assert.NotContains(t, rels, entity.RelationOutWarehouse)
	assert.NotContains(t, rels, entity.RelationPriceList)
	assert.True(t, decimal.NewFromInt(50).Equal(repo.got.Data.TotalPrice))
}

func newService(t *testing.T) (*stock.StockMovementService, *persistence.Database) {
	t.Helper()
	db, err := persistence.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Gorm.Create(&entity.StockCard{Code: "P1", Name: "Tornillo"}).Error)
	require.NoError(t, db.Gorm.Create(&entity.Warehouse{Code: "W1", Name: "Central"}).Error)
	require.NoError(t, db.Gorm.Create(&entity.Warehouse{Code: "W2", Name: "Norte"}).Error)
	require.NoError(t, db.Gorm.Create(&entity.Branch{Code: "B1", Name: "Sucursal 1"}).Error)

	repo, err := persistence.NewRepository[entity.StockMovement](db.Gorm, nil, nil)
	require.NoError(t, err)
	return stock.NewStockMovementService(repo, nil), db
}

func TestCreateStockMovement_Conecta(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	raw := baseInput()
	raw.WarehouseCode = strptr("W1")
	raw.OutWarehouseCode = strptr("W2")
	raw.BranchCode = strptr("B1")
	created, err := svc.CreateStockMovement(ctx, raw)
	require.NoError(t, err)

	got, err := svc.GetStockMovementByID(ctx, created.ID, query.FindOptions{Include: []string{"stockCard", "warehouse", "outWarehouse", "branch"}})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.StockCard)
	assert.Equal(t, "Tornillo", got.StockCard.Name)
	require.NotNil(t, got.Warehouse)
	assert.Equal(t, "Central", got.Warehouse.Name)
	require.NotNil(t, got.OutWarehouse)
	assert.Equal(t, "Norte", got.OutWarehouse.Name)
	require.NotNil(t, got.Branch)
	assert.Equal(t, "Sucursal 1", got.Branch.Name)
}

func TestCreateStockMovement_SoloProducto(t *testing.T) {
	svc, _ := newService(t)
	created, err := svc.CreateStockMovement(context.Background(), baseInput())
	require.NoError(t, err)
	assert.Nil(t, created.WarehouseCode)
	assert.Nil(t, created.OutWarehouseCode)
	assert.Nil(t, created.PriceListID)
}

func TestCreateStockMovement_ProductoInexistente(t *testing.T) {
	svc, _ := newService(t)
	raw := baseInput()
	raw.ProductCode = "NO-EXISTE"
	_, err := svc.CreateStockMovement(context.Background(), raw)
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)
}

func TestStockMovement_ConsultasYEscrituras(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a := baseInput()
	a.WarehouseCode = strptr("W1")
	b := baseInput()
	b.WarehouseCode = strptr("W2")
	b.Quantity = decimal.NewFromInt(10)
	ma, err := svc.CreateStockMovement(ctx, a)
	require.NoError(t, err)
	_, err = svc.CreateStockMovement(ctx, b)
	require.NoError(t, err)

	all, err := svc.GetAllStockMovements(ctx, query.FindOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	big, err := svc.GetStockMovementsWithFilters(ctx, query.Gt("quantity", 5), query.FindOptions{})
	require.NoError(t, err)
	require.Len(t, big, 1)
	assert.Equal(t, "W2", *big[0].WarehouseCode)

	updated, err := svc.UpdateStockMovement(ctx, ma.ID, map[string]any{"description": "ajuste"})
	require.NoError(t, err)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "ajuste", *updated.Description)

	ok, err := svc.DeleteStockMovement(ctx, ma.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = svc.DeleteStockMovement(ctx, ma.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	missing, err := svc.GetStockMovementByID(ctx, ma.ID, query.FindOptions{})
	require.NoError(t, err)
	assert.Nil(t, missing)
}
