package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sessionstack/pkg/session"
)

// DefaultKeyPrefix namespaces frame records when no prefix is configured.
const DefaultKeyPrefix = "session:frame:"

// Store persists session frame records as JSON values. Records with an
// expiry get a matching key TTL, so Redis evicts them on its own.
type Store struct {
	db     redis.UniversalClient
	prefix string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// NewStore wraps a connected client.
func NewStore(client redis.UniversalClient, opts ...StoreOption) *Store {
	s := &Store{
		db:     client,
		prefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStoreFromConfig applies cfg.KeyPrefix when it is set.
func NewStoreFromConfig(client redis.UniversalClient, cfg Config) *Store {
	if cfg.KeyPrefix == "" {
		return NewStore(client)
	}
	return NewStore(client, WithKeyPrefix(cfg.KeyPrefix))
}

// Ping reports whether the server is reachable, for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrUnhealthy, err)
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.db.Exists(ctx, s.prefix+key).Result()
	if err != nil {
		return false, errors.Join(ErrStoreFailed, err)
	}
	return n > 0, nil
}

// Get returns session.ErrRecordNotFound for missing or evicted keys.
func (s *Store) Get(ctx context.Context, key string) (*session.Record, error) {
	data, err := s.db.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, session.ErrRecordNotFound
	}
	if err != nil {
		return nil, errors.Join(ErrStoreFailed, err)
	}
	return session.UnmarshalRecord(data)
}

// Put overwrites the record. A record whose expiry has already passed is
// removed instead.
func (s *Store) Put(ctx context.Context, key string, record *session.Record) error {
	data, ttl, err := encode(record)
	if err != nil {
		return err
	}
	if ttl < 0 {
		return s.Delete(ctx, key)
	}
	if err := s.db.Set(ctx, s.prefix+key, data, ttl).Err(); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

// PutIfAbsent relies on SET NX, so concurrent claims of the same key have
// exactly one winner.
func (s *Store) PutIfAbsent(ctx context.Context, key string, record *session.Record) (bool, error) {
	data, ttl, err := encode(record)
	if err != nil {
		return false, err
	}
	if ttl < 0 {
		return false, session.ErrInvalidRecord
	}
	ok, err := s.db.SetNX(ctx, s.prefix+key, data, ttl).Result()
	if err != nil {
		return false, errors.Join(ErrStoreFailed, err)
	}
	return ok, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.db.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Join(ErrStoreFailed, err)
	}
	return nil
}

// encode returns the payload and the key TTL: zero for records without an
// expiry, negative for records that are already expired.
func encode(record *session.Record) ([]byte, time.Duration, error) {
	if record == nil {
		return nil, 0, session.ErrInvalidRecord
	}
	data, err := session.MarshalRecord(record)
	if err != nil {
		return nil, 0, err
	}
	if record.ExpiresAt.IsZero() {
		return data, 0, nil
	}
	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return data, -1, nil
	}
	return data, ttl, nil
}
