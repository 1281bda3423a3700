package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/squirrel"

	_ "github.com/mattn/go-sqlite3"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/rs/zerolog"
)

type DB struct {
	*sql.DB
	QueryBuilder *squirrel.StatementBuilderType
}

// NewDB opens the sqlite database at DATABASE_PATH (default catalog.db),
// runs pending migrations and wraps the driver with otel tracing and
// zerolog query logging.
func NewDB() (*DB, error) {
	dbPath := os.Getenv("DATABASE_PATH")

	if dbPath == "" {
		dbPath = "catalog.db"
	}

	migrationDB, err := sql.Open("sqlite3", dbPath)

	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	migrationsPath := os.Getenv("MIGRATIONS_PATH")

	if migrationsPath == "" {
		migrationsPath = "db/migrations"
	}

	if err := RunMigrations(migrationDB, migrationsPath); err != nil {
		migrationDB.Close()
		return nil, err
	}

	migrationDB.Close()

	sqlDB, err := otelsql.Open("sqlite3", dbPath,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("shopcatalog"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, fmt.Errorf("open instrumented sqlite: %w", err)
	}

	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	loggedDB := sqldblogger.OpenDriver(dbPath, sqlDB.Driver(), zerologadapter.New(logger))

	return NewWithDB(loggedDB), nil
}

// NewWithDB wraps an already open handle; used by the test helper with an
// in-memory database.
func NewWithDB(sqlDB *sql.DB) *DB {
	queryBuilder := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

	return &DB{
		DB:           sqlDB,
		QueryBuilder: &queryBuilder,
	}
}

func RunMigrations(db *sql.DB, migrationsPath string) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://"+migrationsPath,
		"sqlite3",
		driver,
	)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
