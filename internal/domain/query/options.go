package query

// Order criterio de ordenamiento por campo.
type Order struct {
	Field string
	Desc  bool
}

// FindOptions opciones de lectura: relaciones a incluir, proyección, orden y paginación.
// Take/Skip en cero no limitan. Select e Include no se combinan.
type FindOptions struct {
	Include []string
	Select  []string
	OrderBy []Order
	Take    int
	Skip    int
}

// MergeOptions combina opciones variádicas; los valores posteriores no vacíos ganan.
func MergeOptions(opts ...FindOptions) FindOptions {
	var out FindOptions
	for _, o := range opts {
		if len(o.Include) > 0 {
			out.Include = o.Include
		}
		if len(o.Select) > 0 {
			out.Select = o.Select
		}
		if len(o.OrderBy) > 0 {
			out.OrderBy = o.OrderBy
		}
		if o.Take > 0 {
			out.Take = o.Take
		}
		if o.Skip > 0 {
			out.Skip = o.Skip
		}
	}
	return out
}

// RelationInput fragmento de escritura de una relación. Sin Connect es un objeto
// vacío y no modifica la relación.
type RelationInput struct {
	Connect map[string]any `json:"connect,omitempty"`
}

// ConnectBy conecta con la fila relacionada cuyo campo key vale v.
func ConnectBy(key string, v any) RelationInput {
	return RelationInput{Connect: map[string]any{key: v}}
}

// IsEmpty indica si el fragmento no pide conectar nada.
func (r RelationInput) IsEmpty() bool { return len(r.Connect) == 0 }

// CreateInput payload de creación: campos escalares en Data y relaciones por nombre.
type CreateInput[T any] struct {
	Data      *T
	Relations map[string]RelationInput
}
