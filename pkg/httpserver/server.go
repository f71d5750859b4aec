package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrymomot/sessionstack/pkg/logger"
)

// Server serves one handler until its context ends, SIGINT or SIGTERM
// arrives, or Shutdown is called.
type Server struct {
	cfg     Config
	log     *slog.Logger
	onReady []func(net.Addr)

	mu       sync.Mutex
	srv      *http.Server
	stopOnce sync.Once
	stopErr  error
}

func New(opts ...Option) *Server {
	return newServer(DefaultConfig(), opts)
}

func newServer(cfg Config, opts []Option) *Server {
	s := &Server{
		cfg: cfg,
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run binds the listener and blocks until the server stops. A bind or serve
// failure is wrapped in ErrStart; a clean stop returns the Shutdown result.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	srv := &http.Server{
		Handler:           handler,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		ErrorLog:          slog.NewLogLogger(s.log.Handler(), slog.LevelError),
	}
	s.srv = srv
	s.mu.Unlock()

	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Join(ErrStart, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.log.Info("http server listening", slog.String("addr", ln.Addr().String()))
	for _, fn := range s.onReady {
		fn(ln.Addr())
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ln) }()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Join(ErrStart, err)
	case <-ctx.Done():
	}

	err = s.Shutdown(context.Background())
	<-serveErr
	return err
}

// Shutdown drains in-flight requests within the configured ShutdownTimeout.
// Only the first call does any work; later calls return its result.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.stopOnce.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			s.stopErr = errors.Join(ErrShutdown, err)
		}
		s.log.Info("http server stopped", logger.Error(s.stopErr))
	})
	return s.stopErr
}
