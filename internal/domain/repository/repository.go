package repository

import (
	"context"

	"github.com/jhoicas/invoicing-api/internal/domain/query"
)

// Entity capacidades que una entidad necesita para el repositorio genérico (DIP):
// el nombre de su colección y el campo identidad.
type Entity interface {
	TableName() string
	PrimaryKey() string
}

// Collection define el puerto del driver de almacenamiento para una colección.
// Los errores son *domain.StorageError clasificados como NotFound, ConstraintViolation,
// InvalidInput o Unknown.
type Collection[T Entity] interface {
	Name() string
	FindMany(ctx context.Context, filter query.Filter, opts query.FindOptions) ([]*T, error)
	// FindUnique devuelve nil, nil si no existe.
	FindUnique(ctx context.Context, id string, opts query.FindOptions) (*T, error)
	Create(ctx context.Context, data *T) (*T, error)
	// CreateWithRelations crea resolviendo los connect de cada relación; un objeto de
	// relación vacío no hace nada y un connect sin fila destino es ConstraintViolation.
	CreateWithRelations(ctx context.Context, in query.CreateInput[T]) (*T, error)
	Update(ctx context.Context, id string, patch map[string]any) (*T, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, filter query.Filter) (int64, error)
}

// Repository superficie CRUD uniforme sobre cualquier Entity.
type Repository[T Entity] interface {
	FindAll(ctx context.Context, opts ...query.FindOptions) ([]*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	FindByIDWithOptions(ctx context.Context, id string, opts query.FindOptions) (*T, error)
	FindWithFilters(ctx context.Context, filter query.Filter, opts ...query.FindOptions) ([]*T, error)
	Create(ctx context.Context, entity *T) (*T, error)
	CreateWithRelations(ctx context.Context, in query.CreateInput[T]) (*T, error)
	Update(ctx context.Context, id string, patch map[string]any) (*T, error)
	Delete(ctx context.Context, id string) (bool, error)
	// DeleteWithFilters borra en bloque; un filtro vacío borra todas las filas.
	DeleteWithFilters(ctx context.Context, filter query.Filter) (int64, error)
}
