package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionstack/pkg/secrets"
	"github.com/dmitrymomot/sessionstack/pkg/session"
)

func newSealedStore(t *testing.T) (*session.SealedStore, *session.MemoryStore) {
	t.Helper()

	masterKey, err := secrets.GenerateKey()
	require.NoError(t, err)

	inner := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = inner.Close() })

	sealed, err := session.NewSealedStore(inner, masterKey)
	require.NoError(t, err)
	return sealed, inner
}

func TestSealedStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("key material is encrypted at rest", func(t *testing.T) {
		sealed, inner := newSealedStore(t)
		record := newTestRecord(t, nil)

		require.NoError(t, sealed.Put(ctx, record.LookupKey, record))

		raw, err := inner.Get(ctx, record.LookupKey)
		require.NoError(t, err)
		assert.NotEqual(t, record.Key, raw.Key)
		assert.NotEqual(t, record.IV, raw.IV)
		assert.Equal(t, record.ID, raw.ID)

		got, err := sealed.Get(ctx, record.LookupKey)
		require.NoError(t, err)
		assert.Equal(t, record.Key, got.Key)
		assert.Equal(t, record.IV, got.IV)
	})

	t.Run("record moved to another key does not open", func(t *testing.T) {
		sealed, inner := newSealedStore(t)
		record := newTestRecord(t, nil)
		require.NoError(t, sealed.Put(ctx, record.LookupKey, record))

		raw, err := inner.Get(ctx, record.LookupKey)
		require.NoError(t, err)
		require.NoError(t, inner.Put(ctx, "elsewhere", raw))

		_, err = sealed.Get(ctx, "elsewhere")
		assert.ErrorIs(t, err, session.ErrInvalidRecord)
	})

	t.Run("put if absent", func(t *testing.T) {
		sealed, _ := newSealedStore(t)
		record := newTestRecord(t, nil)

		ok, err := sealed.PutIfAbsent(ctx, record.LookupKey, record)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = sealed.PutIfAbsent(ctx, record.LookupKey, record)
		require.NoError(t, err)
		assert.False(t, ok)

		exists, err := sealed.Exists(ctx, record.LookupKey)
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, sealed.Delete(ctx, record.LookupKey))
		_, err = sealed.Get(ctx, record.LookupKey)
		assert.ErrorIs(t, err, session.ErrRecordNotFound)
	})

	t.Run("invalid construction", func(t *testing.T) {
		_, err := session.NewSealedStore(nil, make([]byte, 32))
		assert.ErrorIs(t, err, session.ErrNoStore)

		_, err = session.NewSealedStore(session.NewMemoryStore(0), []byte("short"))
		assert.ErrorIs(t, err, session.ErrInvalidConfig)
	})

	t.Run("manager round trip", func(t *testing.T) {
		sealed, _ := newSealedStore(t)
		manager, err := session.New(sealed)
		require.NoError(t, err)

		sess := loadFresh(t, manager)
		_, err = sess.Push(ctx)
		require.NoError(t, err)

		loaded := loadWith(t, manager, cookieValue(t, sess))
		assert.Equal(t, sess.Stack(), loaded.Stack())

		_, err = loaded.Pop(ctx)
		require.NoError(t, err)
		assert.Equal(t, sess.Stack()[0], loaded.ID())
	})
}
