package stock

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/query"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
	"github.com/jhoicas/invoicing-api/pkg/logger"
)

// StockMovementRepository repositorio genérico de movimientos.
type StockMovementRepository = repository.Repository[entity.StockMovement]

// CreateStockMovementInput datos de entrada de un movimiento. Los códigos opcionales
// se consideran presentes solo si no son nil ni vacíos.
type CreateStockMovementInput struct {
	ProductCode      string
	WarehouseCode    *string
	OutWarehouseCode *string
	BranchCode       *string
	PriceListID      *string
	CurrentCode      *string
	MovementType     *string
	InvoiceNo        *string
	GcCode           *string
	Type             *string
	Description      *string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	TotalPrice       decimal.Decimal
	InvoiceDate      *time.Time
	CreatedBy        *string
}

// StockMovementService casos de uso de movimientos de inventario.
type StockMovementService struct {
	movements StockMovementRepository
	log       *logger.Logger
}

func NewStockMovementService(movements StockMovementRepository, log *logger.Logger) *StockMovementService {
	if log == nil {
		log = logger.Nop()
	}
	return &StockMovementService{movements: movements, log: log.Component("stock_movement_service")}
}

// CreateStockMovement crea el movimiento conectando sus relaciones por código natural.
//
// stockCard se conecta siempre por productCode. warehouse y branch reciben un objeto de
// relación vacío cuando falta el código; outWarehouse y priceList se omiten.
func (s *StockMovementService) CreateStockMovement(ctx context.Context, in CreateStockMovementInput) (*entity.StockMovement, error) {
	created, err := s.movements.CreateWithRelations(ctx, BuildCreateInput(in))
	if err != nil {
		s.log.Error().Err(err).Str("operation", "createStockMovement").Str("product_code", in.ProductCode).Msg("error creando movimiento de stock")
		return nil, err
	}
	return created, nil
}

// BuildCreateInput arma el payload de creación a partir de la entrada.
func BuildCreateInput(in CreateStockMovementInput) query.CreateInput[entity.StockMovement] {
	data := &entity.StockMovement{
		ProductCode:   in.ProductCode,
		WarehouseCode: orNil(in.WarehouseCode),
		BranchCode:    orNil(in.BranchCode),
		CurrentCode:   in.CurrentCode,
		MovementType:  in.MovementType,
		InvoiceNo:     in.InvoiceNo,
		GcCode:        in.GcCode,
		Type:          in.Type,
		Description:   in.Description,
		Quantity:      in.Quantity,
		UnitPrice:     in.UnitPrice,
		TotalPrice:    in.TotalPrice,
		InvoiceDate:   in.InvoiceDate,
		CreatedBy:     in.CreatedBy,
	}

	relations := map[string]query.RelationInput{
		entity.RelationStockCard: query.ConnectBy("productCode", in.ProductCode),
		entity.RelationWarehouse: {},
		entity.RelationBranch:    {},
	}
	if present(in.WarehouseCode) {
		relations[entity.RelationWarehouse] = query.ConnectBy("warehouseCode", *in.WarehouseCode)
	}
	if present(in.BranchCode) {
		relations[entity.RelationBranch] = query.ConnectBy("branchCode", *in.BranchCode)
	}
	if present(in.OutWarehouseCode) {
		relations[entity.RelationOutWarehouse] = query.ConnectBy("warehouseCode", *in.OutWarehouseCode)
	}
	if present(in.PriceListID) {
		relations[entity.RelationPriceList] = query.ConnectBy("id", *in.PriceListID)
	}
	return query.CreateInput[entity.StockMovement]{Data: data, Relations: relations}
}

func (s *StockMovementService) UpdateStockMovement(ctx context.Context, id string, patch map[string]any) (*entity.StockMovement, error) {
	updated, err := s.movements.Update(ctx, id, patch)
	if err != nil {
		s.fail(err, "updateStockMovement", id)
		return nil, err
	}
	return updated, nil
}

func (s *StockMovementService) DeleteStockMovement(ctx context.Context, id string) (bool, error) {
	ok, err := s.movements.Delete(ctx, id)
	if err != nil {
		s.fail(err, "deleteStockMovement", id)
		return false, err
	}
	return ok, nil
}

// GetStockMovementByID devuelve nil, nil si no existe.
func (s *StockMovementService) GetStockMovementByID(ctx context.Context, id string, opts query.FindOptions) (*entity.StockMovement, error) {
	m, err := s.movements.FindByIDWithOptions(ctx, id, opts)
	if err != nil {
		s.fail(err, "getStockMovementById", id)
		return nil, err
	}
	return m, nil
}

func (s *StockMovementService) GetAllStockMovements(ctx context.Context, opts query.FindOptions) ([]*entity.StockMovement, error) {
	rows, err := s.movements.FindAll(ctx, opts)
	if err != nil {
		s.fail(err, "getAllStockMovements", "")
		return nil, err
	}
	return rows, nil
}

func (s *StockMovementService) GetStockMovementsWithFilters(ctx context.Context, filter query.Filter, opts query.FindOptions) ([]*entity.StockMovement, error) {
	rows, err := s.movements.FindWithFilters(ctx, filter, opts)
	if err != nil {
		s.fail(err, "getStockMovementsWithFilters", "")
		return nil, err
	}
	return rows, nil
}

func (s *StockMovementService) fail(err error, op, id string) {
	ev := s.log.Error().Err(err).Str("operation", op)
	if id != "" {
		ev = ev.Str("stock_movement_id", id)
	}
	ev.Msg("error en servicio de movimientos de stock")
}

func present(s *string) bool { return s != nil && *s != "" }

func orNil(s *string) *string {
	if !present(s) {
		return nil
	}
	return s
}
