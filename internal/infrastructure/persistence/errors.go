package persistence

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/jhoicas/invoicing-api/internal/domain"
)

// storageError envuelve err en un *domain.StorageError clasificado. Si err ya es uno, lo devuelve tal cual.
func storageError(op, collection string, err error) error {
	var se *domain.StorageError
	if errors.As(err, &se) {
		return err
	}
	return &domain.StorageError{Op: op, Collection: collection, Kind: classify(err), Err: err}
}

func classify(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return domain.ErrInvalidInput
	case errors.Is(err, domain.ErrConstraintViolation):
		return domain.ErrConstraintViolation
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case isConstraintViolation(err):
		return domain.ErrConstraintViolation
	default:
		return domain.ErrUnknown
	}
}

// isConstraintViolation reconoce violaciones de unicidad, clave foránea, NOT NULL y CHECK
// tanto traducidas por GORM como en bruto (códigos 23xxx de PostgreSQL o mensajes de SQLite).
func isConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23503", "23502", "23514":
			return true
		}
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "duplicate key value")
}
