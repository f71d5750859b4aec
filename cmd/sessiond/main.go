// Command sessiond serves the overlapping-session protocol over HTTP. It
// exposes the current session and push, pop and reset operations on it,
// backed by the store selected with SESSION_STORE.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/sessionstack/pkg/config"
	"github.com/dmitrymomot/sessionstack/pkg/cookie"
	"github.com/dmitrymomot/sessionstack/pkg/httpserver"
	"github.com/dmitrymomot/sessionstack/pkg/logger"
	"github.com/dmitrymomot/sessionstack/pkg/requestid"
	"github.com/dmitrymomot/sessionstack/pkg/session"
)

type appConfig struct {
	Env             string        `env:"APP_ENV" envDefault:"development"`
	ServiceName     string        `env:"APP_NAME" envDefault:"sessiond"`
	Store           string        `env:"SESSION_STORE" envDefault:"memory"`          // memory, redis, postgres or mongo
	MasterKey       string        `env:"SESSION_MASTER_KEY"`                         // hex, 32 bytes; seals key material at rest when set
	IVCipherKey     string        `env:"SESSION_IV_CIPHER_KEY"`                      // hex, 16/24/32 bytes; wraps stored IVs when set
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1m"` // expired record sweep for memory and postgres
}

var errInvalidKey = errors.New("invalid hex key")

func main() {
	_ = config.LoadEnv()

	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(
		logger.WithEnvironment(cfg.Env, cfg.ServiceName),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("sessiond stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	store, checks, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	manager, err := newManager(store, cfg, log)
	if err != nil {
		return err
	}

	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, newRouter(manager, log, checks...))
}

func newManager(store session.Store, cfg appConfig, log *slog.Logger) (*session.Manager, error) {
	var sessCfg session.Config
	if err := config.Load(&sessCfg); err != nil {
		return nil, err
	}
	var cookieCfg cookie.Config
	if err := config.Load(&cookieCfg); err != nil {
		return nil, err
	}

	cookies, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		return nil, err
	}

	opts := []session.Option{
		session.WithLogger(log),
		session.WithCookieManager(cookies),
	}
	if cfg.IVCipherKey != "" {
		key, err := decodeKey(cfg.IVCipherKey)
		if err != nil {
			return nil, err
		}
		opts = append(opts, session.WithIVCipherKey(key))
	}

	return session.NewFromConfig(store, sessCfg, opts...)
}

func decodeKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Join(errInvalidKey, err)
	}
	return key, nil
}
