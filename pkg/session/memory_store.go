package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an AtomicStore backed by a map. Records are cloned on the
// way in and out so callers never share state with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	stopped  sync.WaitGroup
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMemoryClock sets the time source expiry is checked against. Share it
// with the Manager's WithClock when driving time in tests.
func WithMemoryClock(now func() time.Time) MemoryStoreOption {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryStore returns an empty store. A positive cleanupInterval starts a
// goroutine that evicts expired records until Close is called.
func NewMemoryStore(cleanupInterval time.Duration, opts ...MemoryStoreOption) *MemoryStore {
	m := &MemoryStore{
		records: make(map[string]*Record),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	if cleanupInterval > 0 {
		m.stopped.Add(1)
		go m.cleanupLoop(cleanupInterval)
	}
	return m
}

func (m *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[key]
	return ok && !record.isExpiredAt(m.now()), nil
}

// Get returns ErrRecordNotFound for missing and expired records; an expired
// record is evicted on the way.
func (m *MemoryStore) Get(ctx context.Context, key string) (*Record, error) {
	m.mu.RLock()
	record, ok := m.records[key]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrRecordNotFound
	}
	if !record.isExpiredAt(m.now()) {
		return record.Clone(), nil
	}

	m.mu.Lock()
	if current, ok := m.records[key]; ok && current.isExpiredAt(m.now()) {
		delete(m.records, key)
	}
	m.mu.Unlock()
	return nil, ErrRecordNotFound
}

func (m *MemoryStore) Put(ctx context.Context, key string, record *Record) error {
	if key == "" || record == nil {
		return ErrInvalidRecord
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[key] = record.Clone()
	return nil
}

// PutIfAbsent stores record unless a live record already uses key.
func (m *MemoryStore) PutIfAbsent(ctx context.Context, key string, record *Record) (bool, error) {
	if key == "" || record == nil {
		return false, ErrInvalidRecord
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.records[key]; ok && !existing.isExpiredAt(m.now()) {
		return false, nil
	}
	m.records[key] = record.Clone()
	return true, nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, key)
	return nil
}

// DeleteExpired evicts every expired record and reports how many went.
func (m *MemoryStore) DeleteExpired(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	now := m.now()
	for key, record := range m.records {
		if record.isExpiredAt(now) {
			delete(m.records, key)
			n++
		}
	}
	return n, nil
}

// Len counts stored records, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.records)
}

// Close stops the cleanup goroutine and waits for it to exit. It is safe to
// call more than once.
func (m *MemoryStore) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	m.stopped.Wait()
	return nil
}

func (m *MemoryStore) cleanupLoop(interval time.Duration) {
	defer m.stopped.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = m.DeleteExpired(context.Background())
		case <-m.stop:
			return
		}
	}
}
