package persistence

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/gorm"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/schema.sql
var migrationsFS embed.FS

// RunMigrations aplica las migraciones SQL embebidas sobre pool (PostgreSQL).
// ErrNoChange no es error. Usa su propio *sql.DB y lo cierra al terminar, devolviendo
// la conexión reservada por el driver de migrate al pool.
func RunMigrations(pool *pgxpool.Pool) error {
	if pool == nil {
		return errors.New("migration pool is required")
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return migrateUp(db)
}

func migrateUp(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		_ = source.Close()
		return fmt.Errorf("create migration driver: %w", err)
	}
	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = source.Close()
		_ = driver.Close()
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() { _, _ = migrator.Close() }()

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// ApplySQLiteSchema crea las tablas en SQLite (modo desarrollo y tests). Es idempotente.
func ApplySQLiteSchema(db *gorm.DB) error {
	raw, err := migrationsFS.ReadFile("migrations/sqlite/schema.sql")
	if err != nil {
		return fmt.Errorf("read sqlite schema: %w", err)
	}
	for _, stmt := range strings.Split(string(raw), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}
