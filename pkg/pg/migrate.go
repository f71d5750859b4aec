package pg

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const embeddedMigrationsDir = "migrations"

// MigrationLogger receives goose progress output. *slog.Logger satisfies it.
type MigrationLogger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// Migrate applies the session schema with goose. The migrations embedded in
// the binary are used unless cfg.MigrationsPath points at a directory.
func Migrate(ctx context.Context, pool *pgxpool.Pool, cfg Config, log MigrationLogger) error {
	var (
		fsys fs.FS = embeddedMigrations
		dir        = embeddedMigrationsDir
	)
	if cfg.MigrationsPath != "" {
		if _, err := os.Stat(cfg.MigrationsPath); err != nil {
			if os.IsNotExist(err) {
				return errors.Join(ErrMigrationsNotFound, err)
			}
			return errors.Join(ErrMigrationFailed, err)
		}
		fsys, dir = nil, cfg.MigrationsPath
	}

	// goose works on database/sql; share the pool's connections through stdlib.
	db := stdlib.OpenDBFromPool(pool)
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			log.ErrorContext(ctx, "failed to close migration connection", "error", err)
		}
	}(db)

	goose.SetBaseFS(fsys)
	goose.SetLogger(newSlogAdapter(log))
	if cfg.MigrationsTable != "" {
		goose.SetTableName(cfg.MigrationsTable)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	return nil
}

// migrateSlogAdapter routes goose output through the application logger.
type migrateSlogAdapter struct {
	log MigrationLogger
}

func newSlogAdapter(log MigrationLogger) goose.Logger {
	return &migrateSlogAdapter{
		log: log,
	}
}

func (a *migrateSlogAdapter) Fatalf(format string, v ...any) {
	a.log.ErrorContext(context.Background(), fmt.Sprintf(format, v...))
}

func (a *migrateSlogAdapter) Printf(format string, v ...any) {
	a.log.InfoContext(context.Background(), fmt.Sprintf(format, v...))
}
