package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidConnString  = errors.New("pg: invalid connection string")
	ErrNotReady           = errors.New("pg: database not ready")
	ErrUnhealthy          = errors.New("pg: session table unreachable")
	ErrMigrationFailed    = errors.New("pg: migration failed")
	ErrMigrationsNotFound = errors.New("pg: migrations directory not found")
	ErrStoreFailed        = errors.New("pg: session store operation failed")
)

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
