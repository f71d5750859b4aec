package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/sessionstack/pkg/config"
	"github.com/dmitrymomot/sessionstack/pkg/httpserver"
	"github.com/dmitrymomot/sessionstack/pkg/logger"
	"github.com/dmitrymomot/sessionstack/pkg/mongo"
	"github.com/dmitrymomot/sessionstack/pkg/pg"
	"github.com/dmitrymomot/sessionstack/pkg/redis"
	"github.com/dmitrymomot/sessionstack/pkg/session"
)

var errUnknownStore = errors.New("unknown session store")

// openStore connects the backend named by cfg.Store. The returned func
// releases its connections and background workers.
func openStore(ctx context.Context, cfg appConfig, log *slog.Logger) (session.Store, []httpserver.Check, func(), error) {
	var (
		store   session.Store
		checks  []httpserver.Check
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	kind := strings.ToLower(strings.TrimSpace(cfg.Store))
	switch kind {
	case "", "memory":
		kind = "memory"
		mem := session.NewMemoryStore(cfg.CleanupInterval)
		store = mem
		closers = append(closers, func() { _ = mem.Close() })

	case "redis":
		var rc redis.Config
		if err := config.Load(&rc); err != nil {
			return nil, nil, nil, err
		}
		client, err := redis.Connect(ctx, rc)
		if err != nil {
			return nil, nil, nil, err
		}
		redisStore := redis.NewStoreFromConfig(client, rc)
		store = redisStore
		checks = append(checks, httpserver.Check{Name: "redis", Probe: redisStore.Ping})
		closers = append(closers, func() { _ = client.Close() })

	case "postgres", "pg":
		kind = "postgres"
		var pc pg.Config
		if err := config.Load(&pc); err != nil {
			return nil, nil, nil, err
		}
		pool, err := pg.Connect(ctx, pc)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, pool.Close)
		if err := pg.Migrate(ctx, pool, pc, log); err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		pgStore := pg.NewStore(pool)
		store = pgStore
		checks = append(checks, httpserver.Check{Name: "postgres", Probe: pgStore.Ping})
		closers = append(closers, sweepExpired(cfg.CleanupInterval, pgStore.DeleteExpired, log))

	case "mongo", "mongodb":
		kind = "mongo"
		var mc mongo.Config
		if err := config.Load(&mc); err != nil {
			return nil, nil, nil, err
		}
		db, err := mongo.NewWithDatabase(ctx, mc, mc.Database)
		if err != nil {
			return nil, nil, nil, err
		}
		closers = append(closers, func() { _ = db.Client().Disconnect(context.Background()) })
		mongoStore := mongo.NewStore(db, mc.Collection)
		if err := mongoStore.EnsureIndexes(ctx); err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		store = mongoStore
		checks = append(checks, httpserver.Check{Name: "mongo", Probe: mongoStore.Ping})

	default:
		return nil, nil, nil, errors.Join(errUnknownStore, errors.New(cfg.Store))
	}

	if cfg.MasterKey != "" {
		key, err := decodeKey(cfg.MasterKey)
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		sealed, err := session.NewSealedStore(store, key)
		if err != nil {
			closeAll()
			return nil, nil, nil, err
		}
		store = sealed
	}

	log.Info("session store ready", logger.Store(kind), slog.Bool("sealed", cfg.MasterKey != ""))
	return store, checks, closeAll, nil
}

// sweepExpired runs purge every interval until the returned stop func is called.
func sweepExpired(interval time.Duration, purge func(context.Context) (int64, error), log *slog.Logger) func() {
	if interval <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := purge(ctx)
				if err != nil {
					log.ErrorContext(ctx, "expired session sweep failed", logger.Error(err))
					continue
				}
				if n > 0 {
					log.DebugContext(ctx, "expired sessions removed", slog.Int64("count", n))
				}
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}
