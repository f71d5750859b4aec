package pg_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionstack/pkg/pg"
	"github.com/dmitrymomot/sessionstack/pkg/session"
)

func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	connURL := os.Getenv("PG_CONN_URL")
	if connURL == "" {
		t.Skip("PG_CONN_URL is not set")
	}

	ctx := context.Background()
	cfg := pg.Config{
		ConnectionString: connURL,
		MaxOpenConns:     4,
		MaxIdleConns:     1,
		RetryAttempts:    1,
		RetryInterval:    time.Millisecond,
		MigrationsTable:  "schema_migrations",
	}

	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pg.Migrate(ctx, pool, cfg, slog.New(slog.DiscardHandler)))
	require.NoError(t, pg.NewStore(pool).Ping(ctx))
	return pool
}

func newRecord(t *testing.T, expiresAt time.Time) *session.Record {
	t.Helper()

	keys, err := session.NewKeyMaterial()
	require.NoError(t, err)
	id, err := session.NewID()
	require.NoError(t, err)
	ct, err := keys.Encrypt(id)
	require.NoError(t, err)

	return &session.Record{
		LookupKey: session.LookupKey(ct),
		ID:        id,
		Key:       keys.Key,
		IV:        keys.IV,
		Stack:     session.Stack{id},
		Active:    true,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
}

func TestStore(t *testing.T) {
	pool := setupPool(t)
	store := pg.NewStore(pool)
	ctx := context.Background()

	t.Run("put get delete", func(t *testing.T) {
		record := newRecord(t, time.Now().Add(time.Hour))
		require.NoError(t, store.Put(ctx, record.LookupKey, record))

		exists, err := store.Exists(ctx, record.LookupKey)
		require.NoError(t, err)
		assert.True(t, exists)

		got, err := store.Get(ctx, record.LookupKey)
		require.NoError(t, err)
		assert.Equal(t, record.ID, got.ID)
		assert.Equal(t, record.KeyMaterial(), got.KeyMaterial())

		record.Active = false
		require.NoError(t, store.Put(ctx, record.LookupKey, record))
		got, err = store.Get(ctx, record.LookupKey)
		require.NoError(t, err)
		assert.False(t, got.Active)

		require.NoError(t, store.Delete(ctx, record.LookupKey))
		_, err = store.Get(ctx, record.LookupKey)
		assert.ErrorIs(t, err, session.ErrRecordNotFound)
	})

	t.Run("put if absent", func(t *testing.T) {
		record := newRecord(t, time.Time{})
		t.Cleanup(func() { _ = store.Delete(ctx, record.LookupKey) })

		ok, err := store.PutIfAbsent(ctx, record.LookupKey, record)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.PutIfAbsent(ctx, record.LookupKey, record)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired rows", func(t *testing.T) {
		record := newRecord(t, time.Now().Add(-time.Minute))
		t.Cleanup(func() { _ = store.Delete(ctx, record.LookupKey) })
		require.NoError(t, store.Put(ctx, record.LookupKey, record))

		exists, err := store.Exists(ctx, record.LookupKey)
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = store.Get(ctx, record.LookupKey)
		assert.ErrorIs(t, err, session.ErrRecordNotFound)

		deleted, err := store.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, deleted, int64(1))

		fresh := newRecord(t, time.Now().Add(time.Hour))
		fresh.LookupKey = record.LookupKey
		require.NoError(t, store.Put(ctx, record.LookupKey, record))
		ok, err := store.PutIfAbsent(ctx, record.LookupKey, fresh)
		require.NoError(t, err)
		assert.True(t, ok, "expired row does not block the key")
	})

	t.Run("manager round trip", func(t *testing.T) {
		manager, err := session.New(store, session.WithExpireAfter(time.Hour))
		require.NoError(t, err)

		sess := manager.NewSession()
		a, err := sess.Push(ctx)
		require.NoError(t, err)
		_, err = sess.Push(ctx)
		require.NoError(t, err)

		value, err := sess.Cookie()
		require.NoError(t, err)
		_, err = manager.Verify(ctx, value, sess.Stack())
		require.NoError(t, err)

		_, err = sess.Pop(ctx)
		require.NoError(t, err)
		assert.Equal(t, a, sess.ID())
		require.NoError(t, sess.ResetStack(ctx))
		_, err = sess.Pop(ctx)
		require.NoError(t, err)
	})
}

func TestMigrateMissingDirectory(t *testing.T) {
	err := pg.Migrate(context.Background(), nil, pg.Config{MigrationsPath: "/does/not/exist"}, slog.New(slog.DiscardHandler))
	assert.ErrorIs(t, err, pg.ErrMigrationsNotFound)
}

func TestConnectInvalidConfig(t *testing.T) {
	_, err := pg.Connect(context.Background(), pg.Config{ConnectionString: "postgres://%zz"})
	assert.ErrorIs(t, err, pg.ErrInvalidConnString)
}
