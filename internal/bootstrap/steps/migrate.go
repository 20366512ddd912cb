package steps

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type migrateStep struct {
	dsn        string
	migrations fs.FS
	dir        string
}

// NewMigrate applies every pending up migration found in dir of migrations.
func NewMigrate(dsn string, migrations fs.FS, dir string) (Step, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn is empty")
	}
	if migrations == nil {
		return nil, fmt.Errorf("migrations is nil")
	}

	return &migrateStep{
		dsn:        dsn,
		migrations: migrations,
		dir:        dir,
	}, nil
}

func (s *migrateStep) Name() string {
	return "migrate"
}

func (s *migrateStep) Run(ctx context.Context, dataCtx DataContext) error {
	sqlDB, err := sql.Open("pgx", s.dsn)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlDB.PingContext: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("postgres.WithInstance: %w", err)
	}

	source, err := iofs.New(s.migrations, s.dir)
	if err != nil {
		return fmt.Errorf("iofs.New: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("migrate.NewWithInstance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("m.Up: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("m.Version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty", version)
	}

	dataCtx[SchemaVersionKey] = strconv.FormatUint(uint64(version), 10)

	slog.Info("schema migrated", "method", "migrateStep.Run", "version", version)

	return nil
}
