package session

import "time"

// Config holds session configuration
type Config struct {
	// CookieName is the name of the session cookie (default: "sid")
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"sid"`

	// Domain is the cookie domain; empty means host-only
	Domain string `env:"SESSION_COOKIE_DOMAIN" envDefault:""`

	// Path overrides the cookie manager's path when set
	Path string `env:"SESSION_COOKIE_PATH" envDefault:""`

	// ExpireAfter sets the cookie expiry and the record TTL; 0 means browser-session cookies
	ExpireAfter time.Duration `env:"SESSION_EXPIRE_AFTER" envDefault:"0"`

	// SecureCookies forces the Secure flag; false leaves the cookie manager's setting
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`

	// AutoRepush makes popping the last frame push a replacement immediately
	AutoRepush bool `env:"SESSION_AUTO_REPUSH" envDefault:"false"`

	// MaxCollisionRetries bounds identifier generation attempts per push
	MaxCollisionRetries int `env:"SESSION_MAX_COLLISION_RETRIES" envDefault:"8"`

	// Digest selects the stack HMAC hash: "sha256" or "sha1"
	Digest string `env:"SESSION_DIGEST" envDefault:"sha256"`
}

// DefaultConfig returns default session configuration
func DefaultConfig() Config {
	return Config{
		CookieName:          "sid",
		MaxCollisionRetries: 8,
		Digest:              "sha256",
	}
}

// NewFromConfig creates a new Manager from the provided Config.
func NewFromConfig(store Store, cfg Config, opts ...Option) (*Manager, error) {
	configOpts := []Option{
		WithConfig(cfg),
	}

	configOpts = append(configOpts, opts...)

	return New(store, configOpts...)
}
