package httpserver

import "time"

// Config is bound to HTTP_* environment variables.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// DefaultConfig mirrors the envDefault tags.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// NewFromConfig starts from DefaultConfig, overrides it with the non-zero
// fields of cfg and then applies opts.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	merged := DefaultConfig()
	if cfg.Addr != "" {
		merged.Addr = cfg.Addr
	}
	if cfg.ReadTimeout > 0 {
		merged.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		merged.WriteTimeout = cfg.WriteTimeout
	}
	if cfg.IdleTimeout > 0 {
		merged.IdleTimeout = cfg.IdleTimeout
	}
	if cfg.ShutdownTimeout > 0 {
		merged.ShutdownTimeout = cfg.ShutdownTimeout
	}
	return newServer(merged, opts)
}
