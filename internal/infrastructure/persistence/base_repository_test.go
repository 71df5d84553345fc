package persistence_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoicing-api/internal/domain"
	"github.com/jhoicas/invoicing-api/internal/domain/entity"
	"github.com/jhoicas/invoicing-api/internal/infrastructure/persistence"
	"github.com/jhoicas/invoicing-api/pkg/logger"
)

func TestBaseRepository_MetricasPorOperacion(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := persistence.NewMetrics(reg)
	repo, err := persistence.NewRepository[entity.StockCard](newTestDB(t), nil, metrics)
	require.NoError(t, err)

	card, err := repo.Create(ctx(), &entity.StockCard{Code: "M1", Name: "Medido"})
	require.NoError(t, err)
	_, err = repo.FindByID(ctx(), card.ID)
	require.NoError(t, err)
	_, err = repo.Update(ctx(), "no-existe", map[string]any{"productName": "x"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	expected := `
# HELP invoicing_repository_operations_total Repository operations by collection, operation and outcome.
# TYPE invoicing_repository_operations_total counter
invoicing_repository_operations_total{collection="stock_cards",operation="create",outcome="ok"} 1
invoicing_repository_operations_total{collection="stock_cards",operation="findById",outcome="ok"} 1
invoicing_repository_operations_total{collection="stock_cards",operation="update",outcome="not_found"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "invoicing_repository_operations_total"))
}

func TestBaseRepository_RegistraFallos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "test", Level: "error", Writer: &buf})
	repo, err := persistence.NewRepository[entity.Invoice](newTestDB(t), log, nil)
	require.NoError(t, err)

	_, err = repo.Delete(ctx(), "inexistente")
	require.Error(t, err)

	out := buf.String()
	assert.Contains(t, out, `"collection":"invoices"`)
	assert.Contains(t, out, `"operation":"delete"`)
	assert.Contains(t, out, `"id":"inexistente"`)

	buf.Reset()
	_, err = repo.FindByID(ctx(), "inexistente")
	require.NoError(t, err)
	assert.Empty(t, buf.String(), "la ausencia no es un fallo")
}
