package session

import (
	"context"
	"errors"

	"github.com/dmitrymomot/sessionstack/pkg/secrets"
)

// SealedStore encrypts the key material of every record before handing it to
// the wrapped store. The lookup key is bound into each seal, so a record
// copied under another key fails to open.
type SealedStore struct {
	next      Store
	masterKey []byte
}

// NewSealedStore wraps next. masterKey must be 32 bytes.
func NewSealedStore(next Store, masterKey []byte) (*SealedStore, error) {
	if next == nil {
		return nil, ErrNoStore
	}
	if err := secrets.ValidateMasterKey(masterKey); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	return &SealedStore{next: next, masterKey: append([]byte(nil), masterKey...)}, nil
}

func (s *SealedStore) Exists(ctx context.Context, key string) (bool, error) {
	return s.next.Exists(ctx, key)
}

func (s *SealedStore) Get(ctx context.Context, key string) (*Record, error) {
	record, err := s.next.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.open(key, record)
}

func (s *SealedStore) Put(ctx context.Context, key string, record *Record) error {
	sealed, err := s.seal(key, record)
	if err != nil {
		return err
	}
	return s.next.Put(ctx, key, sealed)
}

// PutIfAbsent uses the wrapped store's atomic insert when it has one.
func (s *SealedStore) PutIfAbsent(ctx context.Context, key string, record *Record) (bool, error) {
	sealed, err := s.seal(key, record)
	if err != nil {
		return false, err
	}

	if atomic, ok := s.next.(AtomicStore); ok {
		return atomic.PutIfAbsent(ctx, key, sealed)
	}

	exists, err := s.next.Exists(ctx, key)
	if err != nil || exists {
		return false, err
	}
	return true, s.next.Put(ctx, key, sealed)
}

func (s *SealedStore) Delete(ctx context.Context, key string) error {
	return s.next.Delete(ctx, key)
}

func (s *SealedStore) seal(key string, record *Record) (*Record, error) {
	if record == nil {
		return nil, ErrInvalidRecord
	}

	sealed := record.Clone()
	var err error
	if sealed.Key, err = secrets.EncryptBytes(s.masterKey, []byte(key), record.Key); err != nil {
		return nil, errors.Join(ErrCryptoFailure, err)
	}
	if sealed.IV, err = secrets.EncryptBytes(s.masterKey, []byte(key), record.IV); err != nil {
		return nil, errors.Join(ErrCryptoFailure, err)
	}
	return sealed, nil
}

func (s *SealedStore) open(key string, record *Record) (*Record, error) {
	opened := record.Clone()
	var err error
	if opened.Key, err = secrets.DecryptBytes(s.masterKey, []byte(key), record.Key); err != nil {
		return nil, errors.Join(ErrInvalidRecord, err)
	}
	if opened.IV, err = secrets.DecryptBytes(s.masterKey, []byte(key), record.IV); err != nil {
		return nil, errors.Join(ErrInvalidRecord, err)
	}
	return opened, nil
}
