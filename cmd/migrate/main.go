// Comando migrate aplica las migraciones SQL embebidas y termina.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"

	"github.com/jhoicas/invoicing-api/internal/infrastructure/persistence"
	"github.com/jhoicas/invoicing-api/pkg/config"
	"github.com/jhoicas/invoicing-api/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}).Component("migrate")

	if err := run(cfg.DB, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones fallidas")
	}
}

func run(cfg config.DBConfig, log *logger.Logger) error {
	if cfg.Driver == config.DriverSQLite {
		db, err := persistence.OpenSQLite(cfg.SQLitePath, nil)
		if err != nil {
			return fmt.Errorf("esquema SQLite en %s: %w", cfg.SQLitePath, err)
		}
		_ = db.Close()
		log.Info().Str("path", cfg.SQLitePath).Msg("esquema SQLite aplicado")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := persistence.NewPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	if err := persistence.RunMigrations(pool); err != nil {
		return err
	}
	log.Info().Msg("migraciones aplicadas")
	return nil
}
