package persistence

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/domain/query"
	"github.com/jhoicas/invoicing-api/internal/domain/repository"
)

var (
	_ repository.Collection[entity.Invoice]       = (*GormCollection[entity.Invoice])(nil)
	_ repository.Collection[entity.InvoiceDetail] = (*GormCollection[entity.InvoiceDetail])(nil)
	_ repository.Collection[entity.StockMovement] = (*GormCollection[entity.StockMovement])(nil)
)

var schemaCache sync.Map

// GormCollection implementa repository.Collection[T] sobre GORM.
type GormCollection[T repository.Entity] struct {
	db     *gorm.DB
	schema *schema.Schema
	pk     *schema.Field
}

// NewCollection construye la colección para T con el esquema GORM de la entidad.
func NewCollection[T repository.Entity](db *gorm.DB) (*GormCollection[T], error) {
	sch, err := schema.Parse(new(T), &schemaCache, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	var zero T
	pk := sch.LookUpField(zero.PrimaryKey())
	if pk == nil {
		return nil, fmt.Errorf("%s: primary key %q not found", sch.Table, zero.PrimaryKey())
	}
	return &GormCollection[T]{db: db, schema: sch, pk: pk}, nil
}

func (c *GormCollection[T]) Name() string { return c.schema.Table }

func (c *GormCollection[T]) FindMany(ctx context.Context, filter query.Filter, opts query.FindOptions) ([]*T, error) {
	tx, err := c.scope(ctx, filter, opts, true)
	if err != nil {
		return nil, c.fail("findMany", err)
	}
	rows := make([]*T, 0)
	if err := tx.Find(&rows).Error; err != nil {
		return nil, c.fail("findMany", err)
	}
	return rows, nil
}

func (c *GormCollection[T]) FindUnique(ctx context.Context, id string, opts query.FindOptions) (*T, error) {
	opts.OrderBy, opts.Take, opts.Skip = nil, 0, 0
	tx, err := c.scope(ctx, query.Eq(c.pk.Name, id), opts, false)
	if err != nil {
		return nil, c.fail("findUnique", err)
	}
	row := new(T)
	if err := tx.Take(row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, c.fail("findUnique", err)
	}
	return row, nil
}

func (c *GormCollection[T]) Create(ctx context.Context, data *T) (*T, error) {
	if data == nil {
		return nil, c.fail("create", fmt.Errorf("%w: datos vacíos", domain.ErrInvalidInput))
	}
	if err := c.db.WithContext(ctx).Omit(clause.Associations).Create(data).Error; err != nil {
		return nil, c.fail("create", err)
	}
	return data, nil
}

func (c *GormCollection[T]) CreateWithRelations(ctx context.Context, in query.CreateInput[T]) (*T, error) {
	if in.Data == nil {
		return nil, c.fail("create", fmt.Errorf("%w: datos vacíos", domain.ErrInvalidInput))
	}
	owner := reflect.ValueOf(in.Data).Elem()

	names := make([]string, 0, len(in.Relations))
	for name := range in.Relations {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rel, err := lookupRelation(c.schema, name)
		if err != nil {
			return nil, c.fail("create", err)
		}
		input := in.Relations[name]
		if input.IsEmpty() {
			continue
		}
		if err := c.connect(ctx, owner, rel, input.Connect); err != nil {
			return nil, c.fail("create", err)
		}
	}
	return c.Create(ctx, in.Data)
}

// connect busca la fila destino de una relación belongs-to y copia su clave referenciada en la FK del dueño.
func (c *GormCollection[T]) connect(ctx context.Context, owner reflect.Value, rel *schema.Relationship, where map[string]any) error {
	if rel.Type != schema.BelongsTo || len(rel.References) != 1 {
		return fmt.Errorf("%w: la relación %s no admite connect", domain.ErrInvalidInput, rel.Name)
	}
	ref := rel.References[0]

	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	preds := make(query.And, 0, len(keys))
	for _, k := range keys {
		preds = append(preds, query.Eq(k, where[k]))
	}
	expr, err := compileFilter(rel.FieldSchema, preds)
	if err != nil {
		return err
	}

	target := reflect.New(rel.FieldSchema.ModelType)
	err = c.db.WithContext(ctx).
		Model(target.Interface()).
		Clauses(clause.Where{Exprs: []clause.Expression{expr}}).
		Take(target.Interface()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %v no existe", domain.ErrConstraintViolation, rel.Name, where)
	}
	if err != nil {
		return fmt.Errorf("connect %s: %w", rel.Name, err)
	}

	value := target.Elem().FieldByIndex(ref.PrimaryKey.StructField.Index)
	return assign(owner.FieldByIndex(ref.ForeignKey.StructField.Index), value)
}

func (c *GormCollection[T]) Update(ctx context.Context, id string, patch map[string]any) (*T, error) {
	values, err := c.columns(patch)
	if err != nil {
		return nil, c.fail("update", err)
	}
	if len(values) > 0 {
		res := c.db.WithContext(ctx).Model(new(T)).Clauses(c.byID(id)).Updates(values)
		if res.Error != nil {
			return nil, c.fail("update", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, c.fail("update", fmt.Errorf("%s %s: %w", c.Name(), id, domain.ErrNotFound))
		}
	}
	row, err := c.FindUnique(ctx, id, query.FindOptions{})
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, c.fail("update", fmt.Errorf("%s %s: %w", c.Name(), id, domain.ErrNotFound))
	}
	return row, nil
}

func (c *GormCollection[T]) Delete(ctx context.Context, id string) error {
	res := c.db.WithContext(ctx).Clauses(c.byID(id)).Delete(new(T))
	if res.Error != nil {
		return c.fail("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return c.fail("delete", fmt.Errorf("%s %s: %w", c.Name(), id, domain.ErrNotFound))
	}
	return nil
}

func (c *GormCollection[T]) DeleteMany(ctx context.Context, filter query.Filter) (int64, error) {
	tx := c.db.WithContext(ctx)
	if query.IsEmpty(filter) {
		tx = tx.Session(&gorm.Session{AllowGlobalUpdate: true})
	} else {
		expr, err := compileFilter(c.schema, filter)
		if err != nil {
			return 0, c.fail("deleteMany", err)
		}
		if expr == nil {
			tx = tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		} else {
			tx = tx.Clauses(clause.Where{Exprs: []clause.Expression{expr}})
		}
	}
	res := tx.Delete(new(T))
	if res.Error != nil {
		return 0, c.fail("deleteMany", res.Error)
	}
	return res.RowsAffected, nil
}

func (c *GormCollection[T]) scope(ctx context.Context, filter query.Filter, opts query.FindOptions, ordered bool) (*gorm.DB, error) {
	tx := c.db.WithContext(ctx).Model(new(T))

	expr, err := compileFilter(c.schema, filter)
	if err != nil {
		return nil, err
	}
	if expr != nil {
		tx = tx.Clauses(clause.Where{Exprs: []clause.Expression{expr}})
	}

	if len(opts.Select) > 0 && len(opts.Include) > 0 {
		return nil, fmt.Errorf("%w: select e include no se combinan", domain.ErrInvalidInput)
	}
	if len(opts.Select) > 0 {
		cols := []string{c.pk.DBName}
		for _, name := range opts.Select {
			f, err := lookupField(c.schema, name)
			if err != nil {
				return nil, err
			}
			if f.DBName != c.pk.DBName {
				cols = append(cols, f.DBName)
			}
		}
		tx = tx.Select(cols)
	}
	for _, name := range opts.Include {
		rel, err := lookupRelation(c.schema, name)
		if err != nil {
			return nil, err
		}
		related := rel.FieldSchema
		tx = tx.Preload(rel.Name, func(db *gorm.DB) *gorm.DB {
			for _, col := range orderColumns(related) {
				db = db.Order(col)
			}
			return db
		})
	}

	if !ordered {
		return tx, nil
	}
	if len(opts.OrderBy) == 0 {
		for _, col := range orderColumns(c.schema) {
			tx = tx.Order(col)
		}
	}
	for _, o := range opts.OrderBy {
		f, err := lookupField(c.schema, o.Field)
		if err != nil {
			return nil, err
		}
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: f.DBName}, Desc: o.Desc})
	}
	if opts.Take > 0 {
		tx = tx.Limit(opts.Take)
	}
	if opts.Skip > 0 {
		tx = tx.Offset(opts.Skip)
	}
	return tx, nil
}

// columns valida el patch y lo traduce a columnas. La identidad y createdAt no se modifican.
func (c *GormCollection[T]) columns(patch map[string]any) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(patch))
	for name, v := range patch {
		f, err := lookupField(c.schema, name)
		if err != nil {
			return nil, err
		}
		if f.PrimaryKey {
			return nil, fmt.Errorf("%w: %s no se puede modificar", domain.ErrInvalidInput, name)
		}
		if f.AutoCreateTime > 0 {
			continue
		}
		out[f.DBName] = v
	}
	return out, nil
}

func (c *GormCollection[T]) byID(id string) clause.Where {
	return clause.Where{Exprs: []clause.Expression{
		clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: c.pk.DBName}, Value: id},
	}}
}

func (c *GormCollection[T]) fail(op string, err error) error {
	return storageError(op, c.Name(), err)
}

// assign copia src en dst resolviendo punteros (string -> *string y viceversa).
func assign(dst, src reflect.Value) error {
	if src.Kind() == reflect.Ptr && dst.Kind() != reflect.Ptr {
		if src.IsNil() {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		src = src.Elem()
	}
	if dst.Kind() == reflect.Ptr && src.Kind() != reflect.Ptr {
		p := reflect.New(dst.Type().Elem())
		if err := assign(p.Elem(), src); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	}
	if !src.Type().ConvertibleTo(dst.Type()) {
		return fmt.Errorf("cannot assign %s to %s", src.Type(), dst.Type())
	}
	dst.Set(src.Convert(dst.Type()))
	return nil
}
