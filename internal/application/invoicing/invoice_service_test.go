package invoicing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jhoicas/invoicing-api/internal/application/invoicing"
	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/query"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/persistence"
)

type fixture struct {
	db       *gorm.DB
	invoices *persistence.BaseRepository[entity.Invoice]
	details  *persistence.BaseRepository[entity.InvoiceDetail]
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db, err := persistence.OpenSQLite("file:"+uuid.NewString()+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	invoices, err := persistence.NewRepository[entity.Invoice](db.Gorm, nil, nil)
	require.NoError(t, err)
	details, err := persistence.NewRepository[entity.InvoiceDetail](db.Gorm, nil, nil)
	require.NoError(t, err)

	for _, code := range []string{"P1", "P2", "P3"} {
		require.NoError(t, db.Gorm.Create(&entity.StockCard{Code: code, Name: "Producto " + code}).Error)
	}
	return fixture{db: db.Gorm, invoices: invoices, details: details}
}

func (f fixture) service(opts ...invoicing.Option) *invoicing.InvoiceService {
	return invoicing.NewInvoiceService(f.invoices, f.details, nil, opts...)
}

func (f fixture) detailsOf(t *testing.T, invoiceID string) []*entity.InvoiceDetail {
	t.Helper()
	rows, err := f.details.FindWithFilters(context.Background(), query.Eq("invoiceId", invoiceID))
	require.NoError(t, err)
	return rows
}

func sampleInvoice(no string) *entity.Invoice {
	date := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	return &entity.Invoice{
		InvoiceNo:     no,
		InvoiceDate:   date,
		InvoiceType:   entity.InvoiceTypeSales,
		DocumentType:  entity.DocumentTypeInvoice,
		CurrentCode:   "C001",
		BranchCode:    "B01",
		WarehouseCode: "W01",
		PaymentDate:   date.AddDate(0, 0, 15),
		PaymentDay:    15,
		TotalAmount:   decimal.NewFromInt(236),
		TotalVat:      decimal.NewFromInt(36),
		TotalNet:      decimal.NewFromInt(200),
	}
}

func line(productCode string, qty int64) entity.InvoiceDetail {
	price := decimal.NewFromInt(20)
	total := price.Mul(decimal.NewFromInt(qty))
	return entity.InvoiceDetail{
		ProductCode: productCode,
		Quantity:    decimal.NewFromInt(qty),
		UnitPrice:   price,
		TotalPrice:  total,
		VatRate:     decimal.NewFromInt(18),
		NetPrice:    total,
	}
}

func TestCreateInvoiceWithRelations_LineasApuntanALaFactura(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	ctx := context.Background()

	created, err := svc.CreateInvoiceWithRelations(ctx, sampleInvoice("F-001"), []entity.InvoiceDetail{line("P1", 2), line("P2", 3)})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	details := f.detailsOf(t, created.ID)
	require.Len(t, details, 2)
	for _, d := range details {
		assert.Equal(t, created.ID, d.InvoiceID)
	}

	got, err := svc.GetInvoiceWithRelationsByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Details, 2)
}

func TestCreateInvoiceWithRelations_SinLineas(t *testing.T) {
	f := newFixture(t)
	created, err := f.service().CreateInvoiceWithRelations(context.Background(), sampleInvoice("F-002"), nil)
	require.NoError(t, err)
	assert.Empty(t, f.detailsOf(t, created.ID))
}

func TestCreateInvoiceWithRelations_FalloParcialPersiste(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service().CreateInvoiceWithRelations(ctx, sampleInvoice("F-003"),
		[]entity.InvoiceDetail{line("P1", 1), line("NO-EXISTE", 1), line("P2", 1)})
	require.ErrorIs(t, err, domain.ErrConstraintViolation)

	rows, err := f.invoices.FindWithFilters(ctx, query.Eq("invoiceNo", "F-003"))
	require.NoError(t, err)
	require.Len(t, rows, 1, "la cabecera queda escrita")
	details := f.detailsOf(t, rows[0].ID)
	require.Len(t, details, 1, "solo la línea anterior al fallo")
	assert.Equal(t, "P1", details[0].ProductCode)
}

func TestCreateInvoiceWithRelations_AtomicoRevierte(t *testing.T) {
	f := newFixture(t)
	svc := f.service(invoicing.WithTxRunner(persistence.NewTxRunner(f.db, nil, nil)))
	require.True(t, svc.Atomic())
	ctx := context.Background()

	_, err := svc.CreateInvoiceWithRelations(ctx, sampleInvoice("F-004"),
		[]entity.InvoiceDetail{line("P1", 1), line("NO-EXISTE", 1)})
	require.ErrorIs(t, err, domain.ErrConstraintViolation)

	rows, err := f.invoices.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
	all, err := f.details.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateInvoiceWithRelations_ReemplazaLineas(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	ctx := context.Background()

	created, err := svc.CreateInvoiceWithRelations(ctx, sampleInvoice("F-005"), []entity.InvoiceDetail{line("P1", 1), line("P2", 1)})
	require.NoError(t, err)

	updated, err := svc.UpdateInvoiceWithRelations(ctx, created.ID,
		map[string]any{"description": "corregida"}, []entity.InvoiceDetail{line("P3", 4)})
	require.NoError(t, err)
	assert.Equal(t, "corregida", updated.Description)
	assert.Equal(t, "F-005", updated.InvoiceNo)

	details := f.detailsOf(t, created.ID)
	require.Len(t, details, 1)
	assert.Equal(t, "P3", details[0].ProductCode)
	assert.True(t, decimal.NewFromInt(4).Equal(details[0].Quantity))

	_, err = svc.UpdateInvoiceWithRelations(ctx, created.ID, map[string]any{}, nil)
	require.NoError(t, err)
	assert.Empty(t, f.detailsOf(t, created.ID))
}

func TestUpdateInvoiceWithRelations_Inexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.service().UpdateInvoiceWithRelations(context.Background(), "no-existe", map[string]any{"description": "x"}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteInvoiceWithRelations(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	ctx := context.Background()

	created, err := svc.CreateInvoiceWithRelations(ctx, sampleInvoice("F-006"), []entity.InvoiceDetail{line("P1", 1), line("P2", 2)})
	require.NoError(t, err)

	ok, err := svc.DeleteInvoiceWithRelations(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := svc.GetInvoiceByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, f.detailsOf(t, created.ID))

	_, err = svc.DeleteInvoiceWithRelations(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// failingDelete envuelve un repositorio real y hace fallar Delete.
type failingDelete struct {
	invoicing.InvoiceRepository
	err error
}

func (f failingDelete) Delete(context.Context, string) (bool, error) { return false, f.err }

func TestDeleteInvoiceWithRelations_LineasBorradasAunqueFalleCabecera(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.service().CreateInvoiceWithRelations(ctx, sampleInvoice("F-007"), []entity.InvoiceDetail{line("P1", 1)})
	require.NoError(t, err)

	errBoom := errors.New("fallo de almacenamiento")
	svc := invoicing.NewInvoiceService(failingDelete{InvoiceRepository: f.invoices, err: errBoom}, f.details, nil)

	ok, err := svc.DeleteInvoiceWithRelations(ctx, created.ID)
	assert.False(t, ok)
	assert.ErrorIs(t, err, errBoom)

	got, err := f.invoices.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "la cabecera sigue existiendo")
	assert.Empty(t, f.detailsOf(t, created.ID), "las líneas ya se borraron")
}

func TestGetAllInvoices(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	ctx := context.Background()

	empty, err := svc.GetAllInvoices(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = svc.CreateInvoiceWithRelations(ctx, sampleInvoice("F-008"), []entity.InvoiceDetail{line("P1", 1)})
	require.NoError(t, err)
	_, err = svc.CreateInvoice(ctx, sampleInvoice("F-009"))
	require.NoError(t, err)

	first, err := svc.GetAllInvoices(ctx)
	require.NoError(t, err)
	second, err := svc.GetAllInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[1].ID, second[1].ID)
	assert.Empty(t, first[0].Details, "sin include no se cargan líneas")

	withRel, err := svc.GetAllInvoicesWithRelations(ctx)
	require.NoError(t, err)
	require.Len(t, withRel, 2)
	lines := 0
	for _, inv := range withRel {
		lines += len(inv.Details)
	}
	assert.Equal(t, 1, lines)

	again, err := svc.GetAllInvoicesWithRelations(ctx)
	require.NoError(t, err)
	assert.Equal(t, withRel, again)
}

func TestInvoiceCRUD(t *testing.T) {
	f := newFixture(t)
	svc := f.service()
	ctx := context.Background()

	created, err := svc.CreateInvoice(ctx, sampleInvoice("F-010"))
	require.NoError(t, err)

	_, err = svc.CreateInvoice(ctx, sampleInvoice("F-010"))
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)

	updated, err := svc.UpdateInvoice(ctx, created.ID, map[string]any{"totalPaid": decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(updated.TotalPaid))

	_, err = svc.UpdateInvoice(ctx, "no-existe", map[string]any{"description": "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ok, err := svc.DeleteInvoice(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.DeleteInvoice(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// callLog registra en orden las escrituras que el servicio hace sobre ambos repositorios.
type callLog struct {
	calls []string
}

type recordingInvoices struct {
	invoicing.InvoiceRepository
	log *callLog
}

func (r recordingInvoices) Create(ctx context.Context, inv *entity.Invoice) (*entity.Invoice, error) {
	r.log.calls = append(r.log.calls, "invoices.Create")
	return r.InvoiceRepository.Create(ctx, inv)
}

func (r recordingInvoices) Update(ctx context.Context, id string, patch map[string]any) (*entity.Invoice, error) {
	r.log.calls = append(r.log.calls, "invoices.Update")
	return r.InvoiceRepository.Update(ctx, id, patch)
}

func (r recordingInvoices) Delete(ctx context.Context, id string) (bool, error) {
	r.log.calls = append(r.log.calls, "invoices.Delete")
	return r.InvoiceRepository.Delete(ctx, id)
}

type recordingDetails struct {
	invoicing.DetailRepository
	log *callLog
}

func (r recordingDetails) Create(ctx context.Context, d *entity.InvoiceDetail) (*entity.InvoiceDetail, error) {
	r.log.calls = append(r.log.calls, "details.Create "+d.ProductCode)
	return r.DetailRepository.Create(ctx, d)
}

func (r recordingDetails) DeleteWithFilters(ctx context.Context, filter query.Filter) (int64, error) {
	r.log.calls = append(r.log.calls, "details.DeleteWithFilters")
	return r.DetailRepository.DeleteWithFilters(ctx, filter)
}

func TestWithRelations_OrdenDeLlamadas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	log := &callLog{}
	svc := invoicing.NewInvoiceService(
		recordingInvoices{InvoiceRepository: f.invoices, log: log},
		recordingDetails{DetailRepository: f.details, log: log},
		nil,
	)

	created, err := svc.CreateInvoiceWithRelations(ctx, sampleInvoice("F-ORD"),
		[]entity.InvoiceDetail{line("P3", 1), line("P1", 2), line("P2", 3)})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"invoices.Create",
		"details.Create P3",
		"details.Create P1",
		"details.Create P2",
	}, log.calls)

	log.calls = nil
	_, err = svc.UpdateInvoiceWithRelations(ctx, created.ID, map[string]any{"description": "v2"},
		[]entity.InvoiceDetail{line("P2", 1), line("P3", 1)})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"details.DeleteWithFilters",
		"details.Create P2",
		"details.Create P3",
		"invoices.Update",
	}, log.calls)

	log.calls = nil
	_, err = svc.DeleteInvoiceWithRelations(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"details.DeleteWithFilters", "invoices.Delete"}, log.calls)
}
