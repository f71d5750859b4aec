package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionstack/pkg/cookie"
	"github.com/dmitrymomot/sessionstack/pkg/logger"
	"github.com/dmitrymomot/sessionstack/pkg/secrets"
)

const defaultMaxCollisionRetries = 8

// Manager runs the session protocol against a Store. It is safe for
// concurrent use; the *Session values it returns are not.
type Manager struct {
	store   Store
	config  Config
	digest  secrets.HashFunc
	ivKey   []byte
	cookies *cookie.Manager
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a session manager backed by store.
func New(store Store, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, ErrNoStore
	}

	m := &Manager{
		store:  store,
		config: DefaultConfig(),
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.config.CookieName == "" {
		m.config.CookieName = DefaultConfig().CookieName
	}
	if m.config.MaxCollisionRetries <= 0 {
		m.config.MaxCollisionRetries = defaultMaxCollisionRetries
	}

	digest, err := secrets.DigestByName(m.config.Digest)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	m.digest = digest

	if m.ivKey != nil {
		if err := secrets.ValidateKey(m.ivKey); err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
	}

	if m.cookies == nil {
		m.cookies = cookie.New()
	}

	return m, nil
}

// Config returns the effective configuration.
func (m *Manager) Config() Config {
	return m.config
}

// NewSession returns an empty session bound to the manager.
func (m *Manager) NewSession() *Session {
	return &Session{m: m}
}

// Load resolves the session for a request. A cookie that verifies restores
// its stack and extends its expiry when needed; anything else (no cookie, malformed, tampered, unknown or
// covered frame) yields a fresh stack with one frame. Only store and crypto
// failures are returned as errors.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	s := m.NewSession()

	value, err := m.cookies.Get(r, m.config.CookieName)
	if err == nil {
		record, err := m.verify(ctx, value, func(record *Record) (Stack, bool) {
			return record.Stack, record.Active
		})
		switch {
		case err == nil:
			if err := m.extend(ctx, record); err != nil {
				return nil, err
			}
			s.restore(record)
			return s, nil
		case errors.Is(err, ErrVerificationFailed):
			m.logger.DebugContext(ctx, "session cookie rejected", logger.Error(err))
		default:
			return nil, err
		}
	}

	if err := s.ResetStack(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// Commit writes the session cookie for the current state of s. The cookie
// expires together with the current frame record. An empty session deletes
// the cookie.
func (m *Manager) Commit(w http.ResponseWriter, s *Session) error {
	if s == nil || s.IsEmpty() {
		m.cookies.Delete(w, m.config.CookieName, m.cookieOptions()...)
		return nil
	}

	value, err := s.Cookie()
	if err != nil {
		return err
	}

	return m.cookies.Set(w, m.config.CookieName, value,
		m.cookieOptions(cookie.WithExpiry(s.expiresAt, m.now()))...)
}

// Verify checks a cookie value against an expected stack. It returns the
// frame record on success and ErrVerificationFailed on any mismatch.
func (m *Manager) Verify(ctx context.Context, value string, expected Stack) (*Record, error) {
	return m.verify(ctx, value, func(*Record) (Stack, bool) {
		return expected, true
	})
}

// cookieOptions layers the session settings over the cookie manager's
// defaults. Unset fields keep whatever the cookie manager was built with.
func (m *Manager) cookieOptions(extra ...cookie.Option) []cookie.Option {
	var opts []cookie.Option
	if m.config.Path != "" {
		opts = append(opts, cookie.WithPath(m.config.Path))
	}
	if m.config.SecureCookies {
		opts = append(opts, cookie.WithSecure(true))
	}
	if m.config.Domain != "" {
		opts = append(opts, cookie.WithDomain(m.config.Domain))
	}
	return append(opts, extra...)
}

// expiry returns the record expiry for a record written at now.
func (m *Manager) expiry(now time.Time) time.Time {
	if m.config.ExpireAfter <= 0 {
		return time.Time{}
	}
	return now.Add(m.config.ExpireAfter)
}
