package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DeleteResponse resultado de un borrado.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// HealthResponse cuerpo de GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
}

// patch acumula solo los campos presentes (no nil) de un body de actualización.
type patch map[string]any

func (p patch) set(key string, v any, present bool) {
	if present {
		p[key] = v
	}
}
