package repository

import (
	"context"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	_ "modernc.org/sqlite"

	"todo/internal/config"
	"todo/migrations"
)

type Database struct {
	db     *sqlx.DB
	driver string
}

type dialect struct {
	sqlDriver     string
	bindName      string
	gooseDialect  string
	migrationsDir string
}

var dialects = map[string]dialect{
	config.DriverSQLite: {
		sqlDriver:     "sqlite",
		bindName:      "sqlite3",
		gooseDialect:  "sqlite3",
		migrationsDir: "sqlite",
	},
	config.DriverPostgres: {
		sqlDriver:     "postgres",
		bindName:      "postgres",
		gooseDialect:  "postgres",
		migrationsDir: "postgres",
	},
}

// New opens the configured store, creating the sqlite file when it does not
// exist yet, and brings the schema up to date. The handle holds a single
// connection for the lifetime of the process.
func New(cfg *config.Config) (*Database, error) {
	d, ok := dialects[cfg.Database.Driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	system := semconv.DBSystemSqlite
	if cfg.Database.Driver == config.DriverPostgres {
		system = semconv.DBSystemPostgreSQL
	}

	sqlDB, err := otelsql.Open(d.sqlDriver, cfg.DSN(),
		otelsql.WithAttributes(system),
		otelsql.WithSpanOptions(otelsql.SpanOptions{
			DisableErrSkip: true,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db := sqlx.NewDb(sqlDB, d.bindName)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrate(db, d); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &Database{db: db, driver: cfg.Database.Driver}, nil
}

func migrate(db *sqlx.DB, d dialect) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(d.gooseDialect); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}
	return goose.Up(db.DB, d.migrationsDir)
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) DB() *sqlx.DB {
	return d.db
}

func (d *Database) Driver() string {
	return d.driver
}

func (d *Database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}
