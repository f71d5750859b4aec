package session

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/sessionstack/pkg/logger"
	"github.com/dmitrymomot/sessionstack/pkg/secrets"
)

// claimFrame generates an identifier for keys and persists its record.
// The key material is generated once by the caller and reused across
// attempts; a candidate is rejected when its lookup key is taken or when it
// already appears in the stack.
func (m *Manager) claimFrame(ctx context.Context, keys KeyMaterial, below Stack, parent string) (*Record, error) {
	for attempt := range m.config.MaxCollisionRetries {
		id, err := NewID()
		if err != nil {
			return nil, err
		}

		ciphertext, err := keys.Encrypt(id)
		if err != nil {
			return nil, err
		}

		now := m.now()
		record := &Record{
			LookupKey: LookupKey(ciphertext),
			ID:        id,
			Key:       keys.Key,
			IV:        keys.IV,
			Stack:     below.with(id),
			Parent:    parent,
			Active:    true,
			CreatedAt: now,
			ExpiresAt: m.expiry(now),
		}

		if !below.Contains(id) {
			inserted, err := m.insertRecord(ctx, record)
			if err != nil {
				return nil, err
			}
			if inserted {
				return record, nil
			}
		}

		m.logger.WarnContext(ctx, "session identifier collision",
			logger.Component("session"),
			logger.LookupKey(record.LookupKey),
			logger.RetryCount(attempt+1),
		)
	}

	return nil, ErrCollisionExhausted
}

// insertRecord persists a new record unless its lookup key is taken.
func (m *Manager) insertRecord(ctx context.Context, record *Record) (bool, error) {
	stored, err := m.sealIV(record)
	if err != nil {
		return false, err
	}

	if atomic, ok := m.store.(AtomicStore); ok {
		return atomic.PutIfAbsent(ctx, record.LookupKey, stored)
	}

	// Not atomic: a concurrent insert of the same key can slip in between.
	// The 128-bit identifier space keeps that window theoretical.
	exists, err := m.store.Exists(ctx, record.LookupKey)
	if err != nil || exists {
		return false, err
	}
	return true, m.store.Put(ctx, record.LookupKey, stored)
}

func (m *Manager) putRecord(ctx context.Context, record *Record) error {
	stored, err := m.sealIV(record)
	if err != nil {
		return err
	}
	return m.store.Put(ctx, record.LookupKey, stored)
}

func (m *Manager) getRecord(ctx context.Context, key string) (*Record, error) {
	record, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	record, err = m.openIV(record)
	if err != nil {
		return nil, err
	}
	if record.LookupKey != key {
		return nil, ErrInvalidRecord
	}
	if err := record.Validate(); err != nil {
		return nil, err
	}
	if record.isExpiredAt(m.now()) {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

// setActive flips the Active flag of a stored record. A missing record is
// not an error: it may have expired.
func (m *Manager) setActive(ctx context.Context, key string, active bool) (*Record, error) {
	record, err := m.getRecord(ctx, key)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	record.Active = active
	if err := m.putRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// stampFrames walks up to depth records along the parent chain starting at
// key and sets their expiry to expiresAt. With cover set, the first record
// is also marked inactive. The walk ends early at a missing record.
//
// Every frame of a stack carries the expiry of its top, so a frame waiting
// below a newer one lives exactly as long as the stack does.
func (m *Manager) stampFrames(ctx context.Context, key string, depth int, expiresAt time.Time, cover bool) error {
	for ; key != "" && depth > 0; depth-- {
		record, err := m.getRecord(ctx, key)
		if errors.Is(err, ErrRecordNotFound) || errors.Is(err, ErrInvalidRecord) {
			return nil
		}
		if err != nil {
			return err
		}

		record.ExpiresAt = expiresAt
		if cover {
			record.Active = false
			cover = false
		}
		if err := m.putRecord(ctx, record); err != nil {
			return err
		}
		key = record.Parent
	}
	return nil
}

// extend slides the expiry of a loaded stack once less than half of
// ExpireAfter is left. top is updated in place.
//
// Store has no compare-and-swap: an extension racing a push or pop on the
// same stack may write back the Active flag it read. Extending at most once
// per half lifetime keeps that to one write per frame per window.
func (m *Manager) extend(ctx context.Context, top *Record) error {
	if m.config.ExpireAfter <= 0 {
		return nil
	}

	now := m.now()
	if !top.ExpiresAt.IsZero() && top.ExpiresAt.Sub(now) >= m.config.ExpireAfter/2 {
		return nil
	}

	top.ExpiresAt = m.expiry(now)
	if err := m.putRecord(ctx, top); err != nil {
		return err
	}
	if err := m.stampFrames(ctx, top.Parent, top.Stack.Len()-1, top.ExpiresAt, false); err != nil {
		return err
	}

	m.logger.DebugContext(ctx, "session expiry extended",
		logger.LookupKey(top.LookupKey),
		logger.StackDepth(top.Stack.Len()),
	)
	return nil
}

// sealIV returns the record as it is persisted: with the IV wrapped when an
// IV cipher key is configured.
func (m *Manager) sealIV(record *Record) (*Record, error) {
	if m.ivKey == nil {
		return record, nil
	}
	stored := record.Clone()
	iv, err := secrets.EncryptECB(m.ivKey, record.IV)
	if err != nil {
		return nil, errors.Join(ErrCryptoFailure, err)
	}
	stored.IV = iv
	return stored, nil
}

func (m *Manager) openIV(record *Record) (*Record, error) {
	if m.ivKey == nil {
		return record, nil
	}
	iv, err := secrets.DecryptECB(m.ivKey, record.IV)
	if err != nil {
		return nil, errors.Join(ErrInvalidRecord, err)
	}
	record.IV = iv
	return record, nil
}
