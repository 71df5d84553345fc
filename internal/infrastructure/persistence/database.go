package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jhoicas/invoicing-api/pkg/config"
	"github.com/jhoicas/invoicing-api/pkg/logger"
)

// Database handle único de almacenamiento compartido por todos los repositorios.
type Database struct {
	Gorm  *gorm.DB
	SQL   *sql.DB
	pool  *pgxpool.Pool
	close func() error
}

// Open abre la base de datos según cfg.Driver.
// postgres: pgxpool -> *sql.DB -> GORM, con migraciones si cfg.AutoMigrate.
// sqlite: GORM sobre glebarez/sqlite con claves foráneas activas y el esquema embebido.
func Open(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*Database, error) {
	gormCfg := &gorm.Config{
		Logger:         newGormLogger(log),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		return OpenSQLite(cfg.SQLitePath, gormCfg)
	case config.DriverPostgres, "":
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	pool, err := NewPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := RunMigrations(pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	sqlDB := stdlib.OpenDBFromPool(pool)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)
	if err != nil {
		_ = sqlDB.Close()
		pool.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}
	return &Database{Gorm: db, SQL: sqlDB, pool: pool, close: sqlDB.Close}, nil
}

// OpenSQLite abre (o crea) una base SQLite; path ":memory:" crea una base en memoria compartida.
func OpenSQLite(path string, gormCfg *gorm.Config) (*Database, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{TranslateError: true, Logger: gormlogger.Discard}
	}
	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// SQLite: una sola conexión de escritura.
	sqlDB.SetMaxOpenConns(1)
	if err := ApplySQLiteSchema(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &Database{Gorm: db, SQL: sqlDB, close: sqlDB.Close}, nil
}

// Ping verifica la conexión.
func (d *Database) Ping(ctx context.Context) error {
	return d.SQL.PingContext(ctx)
}

// Close libera el handle y, en postgres, el pool.
func (d *Database) Close() error {
	var err error
	if d.close != nil {
		err = d.close()
	}
	if d.pool != nil {
		d.pool.Close()
	}
	return err
}

func sqliteDSN(path string) string {
	if path == "" || path == ":memory:" {
		return "file::memory:?cache=shared&_pragma=foreign_keys(1)"
	}
	if strings.Contains(path, "_pragma=foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}

type gormWriter struct {
	log *logger.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Debug().Msgf(format, args...)
}

// newGormLogger redirige el log de GORM a zerolog: consultas lentas y errores distintos de "record not found".
func newGormLogger(log *logger.Logger) gormlogger.Interface {
	if log == nil {
		return gormlogger.Discard
	}
	return gormlogger.New(gormWriter{log: log.Component("gorm")}, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
