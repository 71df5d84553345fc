// Package query modela las consultas que los repositorios entienden sin depender del ORM:
// un árbol de filtros recursivo, opciones de lectura y el payload de escritura con relaciones.
package query

// Op operador de comparación de un predicado de campo.
type Op string

const (
	OpEq         Op = "equals"
	OpNot        Op = "not"
	OpGt         Op = "gt"
	OpGte        Op = "gte"
	OpLt         Op = "lt"
	OpLte        Op = "lte"
	OpIn         Op = "in"
	OpNotIn      Op = "notIn"
	OpContains   Op = "contains"
	OpStartsWith Op = "startsWith"
	OpEndsWith   Op = "endsWith"
)

// Valid indica si el operador es conocido.
func (o Op) Valid() bool {
	switch o {
	case OpEq, OpNot, OpGt, OpGte, OpLt, OpLte, OpIn, OpNotIn, OpContains, OpStartsWith, OpEndsWith:
		return true
	}
	return false
}

// Filter nodo del árbol de filtros. Variantes: Field, And, Or y Not.
// Un Filter nil no restringe nada.
type Filter interface {
	isFilter()
}

// Field predicado sobre un campo de la entidad (nombre Go, JSON o columna).
// Value nil con OpEq/OpNot se traduce a IS NULL / IS NOT NULL.
type Field struct {
	Name  string
	Op    Op
	Value any
}

// And se cumple si se cumplen todos sus hijos; vacío se cumple siempre.
type And []Filter

// Or se cumple si se cumple alguno de sus hijos; vacío no se cumple nunca.
type Or []Filter

// Not se cumple si no se cumple ninguno de sus hijos; vacío se cumple siempre.
type Not []Filter

func (Field) isFilter() {}
func (And) isFilter()   {}
func (Or) isFilter()    {}
func (Not) isFilter()   {}

func Eq(name string, v any) Field        { return Field{Name: name, Op: OpEq, Value: v} }
func Neq(name string, v any) Field       { return Field{Name: name, Op: OpNot, Value: v} }
func Gt(name string, v any) Field        { return Field{Name: name, Op: OpGt, Value: v} }
func Gte(name string, v any) Field       { return Field{Name: name, Op: OpGte, Value: v} }
func Lt(name string, v any) Field        { return Field{Name: name, Op: OpLt, Value: v} }
func Lte(name string, v any) Field       { return Field{Name: name, Op: OpLte, Value: v} }
func In(name string, vs ...any) Field    { return Field{Name: name, Op: OpIn, Value: vs} }
func NotIn(name string, vs ...any) Field { return Field{Name: name, Op: OpNotIn, Value: vs} }
func Contains(name, s string) Field      { return Field{Name: name, Op: OpContains, Value: s} }
func StartsWith(name, s string) Field    { return Field{Name: name, Op: OpStartsWith, Value: s} }
func EndsWith(name, s string) Field      { return Field{Name: name, Op: OpEndsWith, Value: s} }

// IsEmpty indica si f no restringe ninguna fila.
func IsEmpty(f Filter) bool {
	switch n := f.(type) {
	case nil:
		return true
	case And:
		for _, c := range n {
			if !IsEmpty(c) {
				return false
			}
		}
		return true
	case Not:
		return len(n) == 0
	}
	return false
}
