package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/invoicing-api/internal/domain"
)

// ParseWhere convierte un where con forma Prisma (JSON decodificado) en un Filter.
//
//	{"productCode": "P1", "quantity": {"gte": 10}, "OR": [{"type": "in"}, {"type": "out"}]}
//
// Las claves se combinan con AND en orden alfabético. Un where vacío devuelve And{}.
func ParseWhere(raw map[string]any) (Filter, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make(And, 0, len(keys))
	for _, k := range keys {
		f, err := parseClause(k, raw[k])
		if err != nil {
			return nil, err
		}
		parts = append(parts, f)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return parts, nil
}

func parseClause(key string, v any) (Filter, error) {
	switch key {
	case "AND":
		children, err := parseChildren(key, v)
		if err != nil {
			return nil, err
		}
		return And(children), nil
	case "OR":
		children, err := parseChildren(key, v)
		if err != nil {
			return nil, err
		}
		return Or(children), nil
	case "NOT":
		children, err := parseChildren(key, v)
		if err != nil {
			return nil, err
		}
		return Not(children), nil
	}

	ops, ok := v.(map[string]any)
	if !ok {
		return Eq(key, v), nil
	}
	names := make([]string, 0, len(ops))
	for op := range ops {
		names = append(names, op)
	}
	sort.Strings(names)

	preds := make(And, 0, len(names))
	for _, name := range names {
		op := Op(name)
		if !op.Valid() {
			return nil, fmt.Errorf("%w: operador %q no soportado en %q", domain.ErrInvalidInput, name, key)
		}
		val := ops[name]
		if nested, ok := val.(map[string]any); ok && op == OpNot {
			inner, err := parseClause(key, nested)
			if err != nil {
				return nil, err
			}
			preds = append(preds, Not{inner})
			continue
		}
		if op == OpIn || op == OpNotIn {
			list, ok := val.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s.%s requiere un arreglo", domain.ErrInvalidInput, key, name)
			}
			val = list
		}
		preds = append(preds, Field{Name: key, Op: op, Value: val})
	}
	if len(preds) == 1 {
		return preds[0], nil
	}
	return preds, nil
}

func parseChildren(key string, v any) ([]Filter, error) {
	switch t := v.(type) {
	case map[string]any:
		f, err := ParseWhere(t)
		if err != nil {
			return nil, err
		}
		return []Filter{f}, nil
	case []any:
		out := make([]Filter, 0, len(t))
		for _, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s espera objetos", domain.ErrInvalidInput, key)
			}
			f, err := ParseWhere(m)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s espera un objeto o arreglo", domain.ErrInvalidInput, key)
}

// ParseOrderBy acepta {"campo": "asc"|"desc"} o un arreglo de esos objetos.
func ParseOrderBy(raw any) ([]Order, error) {
	switch t := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]Order, 0, len(keys))
		for _, k := range keys {
			o, err := parseDirection(k, t[k])
			if err != nil {
				return nil, err
			}
			out = append(out, o)
		}
		return out, nil
	case []any:
		var out []Order
		for _, item := range t {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: orderBy espera objetos", domain.ErrInvalidInput)
			}
			part, err := ParseOrderBy(m)
			if err != nil {
				return nil, err
			}
			out = append(out, part...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: orderBy inválido", domain.ErrInvalidInput)
}

func parseDirection(field string, v any) (Order, error) {
	s, _ := v.(string)
	switch strings.ToLower(s) {
	case "asc":
		return Order{Field: field}, nil
	case "desc":
		return Order{Field: field, Desc: true}, nil
	}
	return Order{}, fmt.Errorf("%w: dirección %v inválida para %q", domain.ErrInvalidInput, v, field)
}
