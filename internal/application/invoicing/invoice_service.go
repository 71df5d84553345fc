package invoicing

import (
	"context"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/query"
	"github.com/jhoicas/invoicing-api/pkg/logger"
)

// InvoiceService orquesta la factura y sus líneas como un agregado.
//
// Las escrituras *WithRelations son secuencias de llamadas independientes: si una falla
// a mitad de camino, lo ya escrito queda persistido y el error se devuelve sin cambios.
// Con WithTxRunner las mismas secuencias corren dentro de una transacción.
type InvoiceService struct {
	invoices InvoiceRepository
	details  DetailRepository
	tx       TxRunner
	log      *logger.Logger
}

// Option configura el servicio.
type Option func(*InvoiceService)

// WithTxRunner hace atómicas las escrituras create/update/delete con relaciones.
func WithTxRunner(tx TxRunner) Option {
	return func(s *InvoiceService) { s.tx = tx }
}

// NewInvoiceService construye el servicio con los repositorios de factura y detalle.
func NewInvoiceService(invoices InvoiceRepository, details DetailRepository, log *logger.Logger, opts ...Option) *InvoiceService {
	if log == nil {
		log = logger.Nop()
	}
	s := &InvoiceService{invoices: invoices, details: details, log: log.Component("invoice_service")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Atomic indica si las escrituras con relaciones corren en transacción.
func (s *InvoiceService) Atomic() bool { return s.tx != nil }

func (s *InvoiceService) GetAllInvoices(ctx context.Context) ([]*entity.Invoice, error) {
	rows, err := s.invoices.FindAll(ctx)
	if err != nil {
		s.fail(err, "getAllInvoices", "")
		return nil, err
	}
	return rows, nil
}

// GetInvoiceByID devuelve nil, nil si la factura no existe.
func (s *InvoiceService) GetInvoiceByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := s.invoices.FindByID(ctx, id)
	if err != nil {
		s.fail(err, "getInvoiceById", id)
		return nil, err
	}
	return inv, nil
}

func (s *InvoiceService) CreateInvoice(ctx context.Context, invoice *entity.Invoice) (*entity.Invoice, error) {
	created, err := s.invoices.Create(ctx, invoice)
	if err != nil {
		s.fail(err, "createInvoice", "")
		return nil, err
	}
	return created, nil
}

func (s *InvoiceService) UpdateInvoice(ctx context.Context, id string, patch map[string]any) (*entity.Invoice, error) {
	updated, err := s.invoices.Update(ctx, id, patch)
	if err != nil {
		s.fail(err, "updateInvoice", id)
		return nil, err
	}
	return updated, nil
}

func (s *InvoiceService) DeleteInvoice(ctx context.Context, id string) (bool, error) {
	ok, err := s.invoices.Delete(ctx, id)
	if err != nil {
		s.fail(err, "deleteInvoice", id)
		return false, err
	}
	return ok, nil
}

// CreateInvoiceWithRelations crea la factura y después cada línea, en orden y una a una,
// con InvoiceID igual al id generado.
func (s *InvoiceService) CreateInvoiceWithRelations(ctx context.Context, invoice *entity.Invoice, details []entity.InvoiceDetail) (*entity.Invoice, error) {
	var created *entity.Invoice
	err := s.write(ctx, func(invoices InvoiceRepository, detailRepo DetailRepository) error {
		inv, err := invoices.Create(ctx, invoice)
		if err != nil {
			return err
		}
		if err := createDetails(ctx, detailRepo, inv.ID, details); err != nil {
			return err
		}
		created = inv
		return nil
	})
	if err != nil {
		s.fail(err, "createInvoiceWithRelations", "")
		return nil, err
	}
	return created, nil
}

// UpdateInvoiceWithRelations borra todas las líneas de id, crea las nuevas y aplica patch a la cabecera.
// Con details vacío la factura queda sin líneas.
func (s *InvoiceService) UpdateInvoiceWithRelations(ctx context.Context, id string, patch map[string]any, details []entity.InvoiceDetail) (*entity.Invoice, error) {
	var updated *entity.Invoice
	err := s.write(ctx, func(invoices InvoiceRepository, detailRepo DetailRepository) error {
		if _, err := detailRepo.DeleteWithFilters(ctx, byInvoice(id)); err != nil {
			return err
		}
		if err := createDetails(ctx, detailRepo, id, details); err != nil {
			return err
		}
		inv, err := invoices.Update(ctx, id, patch)
		if err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		s.fail(err, "updateInvoiceWithRelations", id)
		return nil, err
	}
	return updated, nil
}

// DeleteInvoiceWithRelations borra las líneas de id y luego la cabecera.
// Sin transacción, si falla el borrado de la cabecera las líneas ya no existen.
func (s *InvoiceService) DeleteInvoiceWithRelations(ctx context.Context, id string) (bool, error) {
	err := s.write(ctx, func(invoices InvoiceRepository, detailRepo DetailRepository) error {
		if _, err := detailRepo.DeleteWithFilters(ctx, byInvoice(id)); err != nil {
			return err
		}
		_, err := invoices.Delete(ctx, id)
		return err
	})
	if err != nil {
		s.fail(err, "deleteInvoiceWithRelations", id)
		return false, err
	}
	return true, nil
}

func (s *InvoiceService) GetAllInvoicesWithRelations(ctx context.Context) ([]*entity.Invoice, error) {
	rows, err := s.invoices.FindAll(ctx, withDetails())
	if err != nil {
		s.fail(err, "getAllInvoicesWithRelations", "")
		return nil, err
	}
	return rows, nil
}

// GetInvoiceWithRelationsByID devuelve nil, nil si la factura no existe.
func (s *InvoiceService) GetInvoiceWithRelationsByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := s.invoices.FindByIDWithOptions(ctx, id, withDetails())
	if err != nil {
		s.fail(err, "getInvoiceWithRelationsById", id)
		return nil, err
	}
	return inv, nil
}

func (s *InvoiceService) write(ctx context.Context, fn func(InvoiceRepository, DetailRepository) error) error {
	if s.tx != nil {
		return s.tx.RunInvoice(ctx, fn)
	}
	return fn(s.invoices, s.details)
}

func (s *InvoiceService) fail(err error, op, id string) {
	ev := s.log.Error().Err(err).Str("operation", op)
	if id != "" {
		ev = ev.Str("invoice_id", id)
	}
	ev.Msg("error en servicio de facturas")
}

func createDetails(ctx context.Context, repo DetailRepository, invoiceID string, details []entity.InvoiceDetail) error {
	for i := range details {
		d := details[i]
		d.InvoiceID = invoiceID
		if _, err := repo.Create(ctx, &d); err != nil {
			return err
		}
	}
	return nil
}

func byInvoice(id string) query.Filter {
	return query.Eq("invoiceId", id)
}

func withDetails() query.FindOptions {
	return query.FindOptions{Include: []string{entity.InvoiceDetailsRelation}}
}
