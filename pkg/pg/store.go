package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/sessionstack/pkg/session"
)

// DB is the subset of *pgxpool.Pool (and pgx.Tx) the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	existsQuery = `SELECT EXISTS (
	SELECT 1 FROM session_frames
	WHERE lookup_key = $1 AND (expires_at IS NULL OR expires_at > now())
)`

	getQuery = `SELECT payload FROM session_frames
WHERE lookup_key = $1 AND (expires_at IS NULL OR expires_at > now())`

	putQuery = `INSERT INTO session_frames (lookup_key, payload, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (lookup_key) DO UPDATE
SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at`

	// An expired row under the same key does not block a new frame.
	putIfAbsentQuery = `INSERT INTO session_frames (lookup_key, payload, expires_at)
VALUES ($1, $2, $3)
ON CONFLICT (lookup_key) DO UPDATE
SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at, created_at = now()
WHERE session_frames.expires_at IS NOT NULL AND session_frames.expires_at <= now()`

	deleteQuery = `DELETE FROM session_frames WHERE lookup_key = $1`

	pingQuery = `SELECT 1 FROM session_frames LIMIT 1`

	deleteExpiredQuery = `DELETE FROM session_frames
WHERE expires_at IS NOT NULL AND expires_at <= now()`
)

// Store keeps session frame records in the session_frames table created by
// Migrate. Payloads are the JSON form of session.Record.
type Store struct {
	db DB
}

func NewStore(db DB) *Store {
	return &Store{db: db}
}

// Ping fails when the database is unreachable or the session_frames table
// is missing.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	err := s.db.QueryRow(ctx, pingQuery).Scan(&one)
	if err != nil && !isNoRows(err) {
		return errors.Join(ErrUnhealthy, err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, existsQuery, key).Scan(&exists); err != nil {
		return false, errors.Join(ErrStoreFailed, err)
	}
	return exists, nil
}

// Get returns session.ErrRecordNotFound for missing and expired rows.
func (s *Store) Get(ctx context.Context, key string) (*session.Record, error) {
	var payload []byte
	if err := s.db.QueryRow(ctx, getQuery, key).Scan(&payload); err != nil {
		if isNoRows(err) {
			return nil, session.ErrRecordNotFound
		}
		return nil, errors.Join(ErrStoreFailed, err)
	}
	return session.UnmarshalRecord(payload)
}

func (s *Store) Put(ctx context.Context, key string, record *session.Record) error {
	payload, err := encode(record)
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, putQuery, key, payload, expiresAt(record)); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

// PutIfAbsent inserts the row unless a live row already holds key.
func (s *Store) PutIfAbsent(ctx context.Context, key string, record *session.Record) (bool, error) {
	payload, err := encode(record)
	if err != nil {
		return false, err
	}
	tag, err := s.db.Exec(ctx, putIfAbsentQuery, key, payload, expiresAt(record))
	if err != nil {
		return false, errors.Join(ErrStoreFailed, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, deleteQuery, key); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

// DeleteExpired removes expired rows and returns how many were deleted.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, deleteExpiredQuery)
	if err != nil {
		return 0, errors.Join(ErrStoreFailed, err)
	}
	return tag.RowsAffected(), nil
}

func encode(record *session.Record) ([]byte, error) {
	if record == nil {
		return nil, session.ErrInvalidRecord
	}
	return session.MarshalRecord(record)
}

func expiresAt(record *session.Record) *time.Time {
	if record.ExpiresAt.IsZero() {
		return nil
	}
	t := record.ExpiresAt.UTC()
	return &t
}
