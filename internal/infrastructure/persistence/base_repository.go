package persistence

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/query"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
	"github.com/jhoicas/invoicing-api/pkg/logger"
)

var (
	_ repository.Repository[entity.Invoice]       = (*BaseRepository[entity.Invoice])(nil)
	_ repository.Repository[entity.InvoiceDetail] = (*BaseRepository[entity.InvoiceDetail])(nil)
	_ repository.Repository[entity.StockMovement] = (*BaseRepository[entity.StockMovement])(nil)
)

// BaseRepository implementa repository.Repository[T] sobre una colección.
// Cada fallo se registra con colección, operación e id y se devuelve sin modificar.
type BaseRepository[T repository.Entity] struct {
	coll    repository.Collection[T]
	log     *logger.Logger
	metrics *Metrics
}

// NewBaseRepository construye el repositorio. log nil descarta los logs; metrics nil no mide.
func NewBaseRepository[T repository.Entity](coll repository.Collection[T], log *logger.Logger, metrics *Metrics) *BaseRepository[T] {
	if log == nil {
		log = logger.Nop()
	}
	return &BaseRepository[T]{coll: coll, log: log.Component("repository"), metrics: metrics}
}

// NewRepository atajo: colección GORM sobre db + repositorio base.
func NewRepository[T repository.Entity](db *gorm.DB, log *logger.Logger, metrics *Metrics) (*BaseRepository[T], error) {
	coll, err := NewCollection[T](db)
	if err != nil {
		return nil, err
	}
	return NewBaseRepository[T](coll, log, metrics), nil
}

func (r *BaseRepository[T]) FindAll(ctx context.Context, opts ...query.FindOptions) ([]*T, error) {
	start := time.Now()
	rows, err := r.coll.FindMany(ctx, nil, query.MergeOptions(opts...))
	r.observe("findAll", "", start, err)
	return rows, err
}

// FindByID devuelve nil, nil si no existe.
func (r *BaseRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return r.findByID(ctx, "findById", id, query.FindOptions{})
}

func (r *BaseRepository[T]) FindByIDWithOptions(ctx context.Context, id string, opts query.FindOptions) (*T, error) {
	return r.findByID(ctx, "findByIdWithOptions", id, opts)
}

func (r *BaseRepository[T]) findByID(ctx context.Context, op, id string, opts query.FindOptions) (*T, error) {
	start := time.Now()
	row, err := r.coll.FindUnique(ctx, id, opts)
	r.observe(op, id, start, err)
	return row, err
}

func (r *BaseRepository[T]) FindWithFilters(ctx context.Context, filter query.Filter, opts ...query.FindOptions) ([]*T, error) {
	start := time.Now()
	rows, err := r.coll.FindMany(ctx, filter, query.MergeOptions(opts...))
	r.observe("findWithFilters", "", start, err)
	return rows, err
}

func (r *BaseRepository[T]) Create(ctx context.Context, e *T) (*T, error) {
	start := time.Now()
	created, err := r.coll.Create(ctx, e)
	r.observe("create", "", start, err)
	return created, err
}

func (r *BaseRepository[T]) CreateWithRelations(ctx context.Context, in query.CreateInput[T]) (*T, error) {
	start := time.Now()
	created, err := r.coll.CreateWithRelations(ctx, in)
	r.observe("createWithRelations", "", start, err)
	return created, err
}

func (r *BaseRepository[T]) Update(ctx context.Context, id string, patch map[string]any) (*T, error) {
	start := time.Now()
	updated, err := r.coll.Update(ctx, id, patch)
	r.observe("update", id, start, err)
	return updated, err
}

func (r *BaseRepository[T]) Delete(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	err := r.coll.Delete(ctx, id)
	r.observe("delete", id, start, err)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *BaseRepository[T]) DeleteWithFilters(ctx context.Context, filter query.Filter) (int64, error) {
	start := time.Now()
	n, err := r.coll.DeleteMany(ctx, filter)
	r.observe("deleteWithFilters", "", start, err)
	return n, err
}

func (r *BaseRepository[T]) observe(op, id string, start time.Time, err error) {
	r.metrics.Observe(r.coll.Name(), op, start, err)
	if err == nil {
		return
	}
	ev := r.log.Error().Err(err).Str("collection", r.coll.Name()).Str("operation", op)
	if id != "" {
		ev = ev.Str("id", id)
	}
	ev.Msg("operación de repositorio fallida")
}
