package session

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionstack/pkg/cookie"
)

// Option is a functional option for configuring the Manager
type Option func(*Manager)

// WithConfig sets custom configuration
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithCookieName sets the session cookie name
func WithCookieName(name string) Option {
	return func(m *Manager) {
		m.config.CookieName = name
	}
}

// WithDomain sets the session cookie domain
func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.config.Domain = domain
	}
}

// WithPath sets the session cookie path, overriding the cookie manager
func WithPath(path string) Option {
	return func(m *Manager) {
		m.config.Path = path
	}
}

// WithExpireAfter sets the cookie lifetime and the record TTL
func WithExpireAfter(d time.Duration) Option {
	return func(m *Manager) {
		m.config.ExpireAfter = d
	}
}

// WithSecureCookies forces the Secure cookie flag when secure is true
func WithSecureCookies(secure bool) Option {
	return func(m *Manager) {
		m.config.SecureCookies = secure
	}
}

// WithAutoRepush makes Pop push a replacement frame when it empties the stack
func WithAutoRepush(enabled bool) Option {
	return func(m *Manager) {
		m.config.AutoRepush = enabled
	}
}

// WithMaxCollisionRetries bounds identifier generation attempts per push
func WithMaxCollisionRetries(n int) Option {
	return func(m *Manager) {
		m.config.MaxCollisionRetries = n
	}
}

// WithDigest selects the stack HMAC hash by name ("sha256" or "sha1")
func WithDigest(name string) Option {
	return func(m *Manager) {
		m.config.Digest = name
	}
}

// WithIVCipherKey wraps every IV with AES-ECB under key before it is persisted.
// The key must be 16, 24 or 32 bytes.
func WithIVCipherKey(key []byte) Option {
	return func(m *Manager) {
		m.ivKey = append([]byte(nil), key...)
	}
}

// WithCookieManager sets the cookie manager used to read and write the session cookie
func WithCookieManager(cookieMgr *cookie.Manager) Option {
	return func(m *Manager) {
		m.cookies = cookieMgr
	}
}

// WithLogger sets the logger; a discarding logger is used by default
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides the time source used for record timestamps
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}
