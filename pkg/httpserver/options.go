package httpserver

import (
	"log/slog"
	"net"
	"time"
)

// Option configures a Server. Options given invalid values panic at
// construction time.
type Option func(*Server)

func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: WithAddr: empty address")
	}
	return func(s *Server) { s.cfg.Addr = addr }
}

func WithReadTimeout(d time.Duration) Option {
	mustPositive("WithReadTimeout", d)
	return func(s *Server) { s.cfg.ReadTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	mustPositive("WithWriteTimeout", d)
	return func(s *Server) { s.cfg.WriteTimeout = d }
}

func WithIdleTimeout(d time.Duration) Option {
	mustPositive("WithIdleTimeout", d)
	return func(s *Server) { s.cfg.IdleTimeout = d }
}

// WithShutdownTimeout bounds how long Shutdown waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	mustPositive("WithShutdownTimeout", d)
	return func(s *Server) { s.cfg.ShutdownTimeout = d }
}

// WithLogger sets the logger for lifecycle events. Nil keeps the discard logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithReadyHook registers fn to run once the listener is bound, with the
// address actually in use. Useful with port 0.
func WithReadyHook(fn func(addr net.Addr)) Option {
	if fn == nil {
		panic("httpserver: WithReadyHook: nil hook")
	}
	return func(s *Server) { s.onReady = append(s.onReady, fn) }
}

func mustPositive(name string, d time.Duration) {
	if d <= 0 {
		panic("httpserver: " + name + ": duration must be positive")
	}
}
