package persistence

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/invoicing-api/internal/domain"
)

// Metrics contadores e histogramas de las operaciones de repositorio.
// Un *Metrics nil no registra nada.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics crea las métricas y las registra en reg (prometheus.DefaultRegisterer si es nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invoicing",
			Subsystem: "repository",
			Name:      "operations_total",
			Help:      "Repository operations by collection, operation and outcome.",
		}, []string{"collection", "operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "invoicing",
			Subsystem: "repository",
			Name:      "operation_duration_seconds",
			Help:      "Repository operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collection", "operation"}),
	}
	reg.MustRegister(m.operations, m.duration)
	return m
}

// Observe registra una operación terminada.
func (m *Metrics) Observe(collection, operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(collection, operation, outcome(err)).Inc()
	m.duration.WithLabelValues(collection, operation).Observe(time.Since(started).Seconds())
}

func outcome(err error) string {
	switch domain.KindOf(err) {
	case nil:
		return "ok"
	case domain.ErrNotFound:
		return "not_found"
	case domain.ErrConstraintViolation:
		return "constraint_violation"
	case domain.ErrInvalidInput:
		return "invalid_input"
	default:
		return "error"
	}
}
