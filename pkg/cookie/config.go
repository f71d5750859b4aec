package cookie

import (
	"errors"
	"net/http"
	"strings"
)

// Config carries the attributes shared by every cookie the service writes.
type Config struct {
	Path     string `env:"COOKIE_PATH" envDefault:"/"`
	Domain   string `env:"COOKIE_DOMAIN"`
	Secure   bool   `env:"COOKIE_SECURE" envDefault:"false"`
	HttpOnly bool   `env:"COOKIE_HTTP_ONLY" envDefault:"true"`
	SameSite string `env:"COOKIE_SAME_SITE" envDefault:"lax"` // lax, strict, none or default
}

func DefaultConfig() Config {
	return Config{
		Path:     "/",
		HttpOnly: true,
		SameSite: "lax",
	}
}

// NewFromConfig builds a Manager from cfg, then applies opts.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	mode, err := ParseSameSite(cfg.SameSite)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithDomain(cfg.Domain),
		WithSecure(cfg.Secure),
		WithHTTPOnly(cfg.HttpOnly),
		WithSameSite(mode),
	}
	if cfg.Path != "" {
		base = append(base, WithPath(cfg.Path))
	}
	return New(append(base, opts...)...), nil
}

// ParseSameSite maps a config value to http.SameSite. Empty means lax.
func ParseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	case "default":
		return http.SameSiteDefaultMode, nil
	default:
		return 0, errors.Join(ErrInvalidSameSite, errors.New(s))
	}
}
