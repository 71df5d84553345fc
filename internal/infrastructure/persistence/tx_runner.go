package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/jhoicas/invoicing-api/internal/application/invoicing"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/pkg/logger"
)

var _ invoicing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción GORM.
type TxRunner struct {
	db      *gorm.DB
	log     *logger.Logger
	metrics *Metrics
}

// NewTxRunner construye el runner; los repositorios creados dentro de la tx comparten log y métricas.
func NewTxRunner(db *gorm.DB, log *logger.Logger, metrics *Metrics) *TxRunner {
	return &TxRunner{db: db, log: log, metrics: metrics}
}

// RunInvoice abre una transacción, ejecuta fn con repos de factura y detalle atados a ella
// y hace Commit si fn no devuelve error; en otro caso Rollback.
func (r *TxRunner) RunInvoice(ctx context.Context, fn func(invoices invoicing.InvoiceRepository, details invoicing.DetailRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoices, err := NewRepository[entity.Invoice](tx, r.log, r.metrics)
		if err != nil {
			return err
		}
		details, err := NewRepository[entity.InvoiceDetail](tx, r.log, r.metrics)
		if err != nil {
			return err
		}
		return fn(invoices, details)
	})
}
