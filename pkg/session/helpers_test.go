package session_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionstack/pkg/session"
)

func setupManager(t *testing.T, opts ...session.Option) (*session.Manager, *session.MemoryStore) {
	t.Helper()

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	manager, err := session.New(store, opts...)
	require.NoError(t, err)
	return manager, store
}

// loadFresh loads a session for a request without a cookie.
func loadFresh(t *testing.T, manager *session.Manager) *session.Session {
	t.Helper()

	sess, err := manager.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	return sess
}

// loadWith loads a session for a request carrying value as the session cookie.
func loadWith(t *testing.T, manager *session.Manager, value string) *session.Session {
	t.Helper()

	sess, err := manager.Load(context.Background(), loadRequest(manager, value))
	require.NoError(t, err)
	return sess
}

func loadRequest(manager *session.Manager, value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: manager.Config().CookieName, Value: value})
	return r
}

func cookieValue(t *testing.T, sess *session.Session) string {
	t.Helper()

	value, err := sess.Cookie()
	require.NoError(t, err)
	return value
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var errStoreDown = errors.New("store down")

// stubStore is a plain Store whose behaviour is set per test.
type stubStore struct {
	existsCalls atomic.Int32
	exists      bool
	err         error
}

func (s *stubStore) Exists(ctx context.Context, key string) (bool, error) {
	s.existsCalls.Add(1)
	return s.exists, s.err
}

func (s *stubStore) Get(ctx context.Context, key string) (*session.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return nil, session.ErrRecordNotFound
}

func (s *stubStore) Put(ctx context.Context, key string, record *session.Record) error {
	return s.err
}

func (s *stubStore) Delete(ctx context.Context, key string) error {
	return s.err
}

// testClock is a settable time source shared by a manager and its store.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Now()}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// setupClockedManager wires the same clock into the manager and its store.
func setupClockedManager(t *testing.T, clock *testClock, opts ...session.Option) *session.Manager {
	t.Helper()

	store := session.NewMemoryStore(0, session.WithMemoryClock(clock.Now))
	t.Cleanup(func() { _ = store.Close() })

	manager, err := session.New(store, append(opts, session.WithClock(clock.Now))...)
	require.NoError(t, err)
	return manager
}

// faultyStore is a MemoryStore whose reads and deletes fail on demand.
type faultyStore struct {
	*session.MemoryStore
	getErr    error
	deleteErr error
}

func newFaultyStore(t *testing.T) *faultyStore {
	t.Helper()

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })
	return &faultyStore{MemoryStore: store}
}

func (s *faultyStore) Get(ctx context.Context, key string) (*session.Record, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *faultyStore) Delete(ctx context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.MemoryStore.Delete(ctx, key)
}
