package session

import "context"

// Store defines the persistence port for frame records. Keys are lookup keys
// (see LookupKey). Implementations must be safe for concurrent use.
type Store interface {
	// Exists reports whether a record is stored under key
	Exists(ctx context.Context, key string) (bool, error)

	// Get retrieves a record, ErrRecordNotFound if there is none
	Get(ctx context.Context, key string) (*Record, error)

	// Put creates or replaces a record
	Put(ctx context.Context, key string, record *Record) error

	// Delete removes a record; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}

// AtomicStore is implemented by stores that can insert without a separate
// existence check. The manager prefers it when claiming new identifiers.
type AtomicStore interface {
	Store
	// PutIfAbsent stores record unless key is taken and reports whether it did
	PutIfAbsent(ctx context.Context, key string, record *Record) (bool, error)
}
