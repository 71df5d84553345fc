package persistence

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/query"
)

// alwaysFalse condición que no coincide con ninguna fila (OR vacío, IN vacío).
var alwaysFalse = clause.Expr{SQL: "1 = 0"}

// negation NOT (expr). Se arma a mano para que NOT de un grupo niegue el grupo completo.
type negation struct {
	expr clause.Expression
}

func (n negation) Build(builder clause.Builder) {
	_, _ = builder.WriteString("NOT (")
	n.expr.Build(builder)
	_ = builder.WriteByte(')')
}

// compileFilter traduce el árbol de filtros a una expresión GORM sobre sch.
// Devuelve nil cuando el filtro no restringe ninguna fila.
func compileFilter(sch *schema.Schema, f query.Filter) (clause.Expression, error) {
	switch n := f.(type) {
	case nil:
		return nil, nil
	case query.Field:
		return compileField(sch, n)
	case query.And:
		exprs := make([]clause.Expression, 0, len(n))
		for _, child := range n {
			e, err := compileFilter(sch, child)
			if err != nil {
				return nil, err
			}
			if e != nil {
				exprs = append(exprs, e)
			}
		}
		return joinAnd(exprs), nil
	case query.Or:
		if len(n) == 0 {
			return alwaysFalse, nil
		}
		exprs := make([]clause.Expression, 0, len(n))
		matchAll := false
		for _, child := range n {
			e, err := compileFilter(sch, child)
			if err != nil {
				return nil, err
			}
			if e == nil {
				matchAll = true
				continue
			}
			exprs = append(exprs, e)
		}
		if matchAll {
			return nil, nil
		}
		if len(exprs) == 1 {
			// un OrConditions de un solo elemento GORM lo encadena con OR al resto del WHERE
			return exprs[0], nil
		}
		return clause.Or(exprs...), nil
	case query.Not:
		exprs := make([]clause.Expression, 0, len(n))
		for _, child := range n {
			e, err := compileFilter(sch, child)
			if err != nil {
				return nil, err
			}
			if e == nil {
				return alwaysFalse, nil
			}
			exprs = append(exprs, negation{expr: e})
		}
		return joinAnd(exprs), nil
	}
	return nil, fmt.Errorf("%w: filtro %T no soportado", domain.ErrInvalidInput, f)
}

func joinAnd(exprs []clause.Expression) clause.Expression {
	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	}
	return clause.And(exprs...)
}

func compileField(sch *schema.Schema, f query.Field) (clause.Expression, error) {
	field, err := lookupField(sch, f.Name)
	if err != nil {
		return nil, err
	}
	col := clause.Column{Table: clause.CurrentTable, Name: field.DBName}

	switch f.Op {
	case query.OpEq, "", query.OpNot, query.OpGt, query.OpGte, query.OpLt, query.OpLte:
		v, err := coerceValue(field, f.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", domain.ErrInvalidInput, f.Name, f.Op, err)
		}
		switch f.Op {
		case query.OpNot:
			return clause.Neq{Column: col, Value: v}, nil
		case query.OpGt:
			return clause.Gt{Column: col, Value: v}, nil
		case query.OpGte:
			return clause.Gte{Column: col, Value: v}, nil
		case query.OpLt:
			return clause.Lt{Column: col, Value: v}, nil
		case query.OpLte:
			return clause.Lte{Column: col, Value: v}, nil
		}
		return clause.Eq{Column: col, Value: v}, nil
	case query.OpIn, query.OpNotIn:
		values, err := toValues(f.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %v", domain.ErrInvalidInput, f.Name, f.Op, err)
		}
		for i := range values {
			if values[i], err = coerceValue(field, values[i]); err != nil {
				return nil, fmt.Errorf("%w: %s.%s: %v", domain.ErrInvalidInput, f.Name, f.Op, err)
			}
		}
		if len(values) == 0 {
			if f.Op == query.OpIn {
				return alwaysFalse, nil
			}
			return nil, nil
		}
		in := clause.IN{Column: col, Values: values}
		if f.Op == query.OpNotIn {
			return negation{expr: in}, nil
		}
		return in, nil
	case query.OpContains, query.OpStartsWith, query.OpEndsWith:
		s, ok := f.Value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s requiere texto", domain.ErrInvalidInput, f.Name, f.Op)
		}
		pattern := escapeLike(s)
		switch f.Op {
		case query.OpContains:
			pattern = "%" + pattern + "%"
		case query.OpStartsWith:
			pattern += "%"
		default:
			pattern = "%" + pattern
		}
		return clause.Expr{SQL: "? LIKE ? ESCAPE '!'", Vars: []interface{}{col, pattern}}, nil
	}
	return nil, fmt.Errorf("%w: operador %q no soportado", domain.ErrInvalidInput, f.Op)
}

var timeType = reflect.TypeOf(time.Time{})

// coerceValue adapta un valor decodificado de JSON al tipo de la columna.
// Las fechas llegan como texto RFC 3339 y se comparan como time.Time en UTC. Objetos y listas no son escalares.
func coerceValue(field *schema.Field, v any) (any, error) {
	switch t := v.(type) {
	case map[string]any, []any:
		return nil, fmt.Errorf("se esperaba un valor escalar, llegó %T", v)
	case string:
		ft := field.FieldType
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft != timeType {
			return v, nil
		}
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			return ts.UTC(), nil
		}
		ts, err := time.Parse(time.DateOnly, t)
		if err != nil {
			return nil, fmt.Errorf("fecha %q inválida, se espera RFC 3339", t)
		}
		return ts, nil
	}
	return v, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func toValues(v any) ([]interface{}, error) {
	if vs, ok := v.([]interface{}); ok {
		return vs, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("se esperaba una lista, llegó %T", v)
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// lookupField resuelve un campo por nombre Go, columna o nombre JSON (sin distinguir mayúsculas en el nombre Go).
func lookupField(sch *schema.Schema, name string) (*schema.Field, error) {
	if f := sch.LookUpField(name); f != nil && f.DBName != "" {
		return f, nil
	}
	for _, f := range sch.Fields {
		if f.DBName == "" {
			continue
		}
		if jsonName(f.Tag) == name || strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: campo %q desconocido en %s", domain.ErrInvalidInput, name, sch.Table)
}

// lookupRelation resuelve una relación por nombre Go o nombre JSON.
func lookupRelation(sch *schema.Schema, name string) (*schema.Relationship, error) {
	if rel, ok := sch.Relationships.Relations[name]; ok {
		return rel, nil
	}
	names := make([]string, 0, len(sch.Relationships.Relations))
	for k := range sch.Relationships.Relations {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		rel := sch.Relationships.Relations[k]
		if strings.EqualFold(k, name) || jsonName(rel.Field.Tag) == name {
			return rel, nil
		}
	}
	return nil, fmt.Errorf("%w: relación %q desconocida en %s", domain.ErrInvalidInput, name, sch.Table)
}

func jsonName(tag reflect.StructTag) string {
	name, _, _ := strings.Cut(tag.Get("json"), ",")
	return name
}

// orderColumns orden por defecto: createdAt y luego la identidad, para listados deterministas.
func orderColumns(sch *schema.Schema) []clause.OrderByColumn {
	var cols []clause.OrderByColumn
	for _, f := range sch.Fields {
		if f.AutoCreateTime > 0 && f.DBName != "" {
			cols = append(cols, clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: f.DBName}})
			break
		}
	}
	for _, f := range sch.PrimaryFields {
		cols = append(cols, clause.OrderByColumn{Column: clause.Column{Table: clause.CurrentTable, Name: f.DBName}})
	}
	return cols
}
