package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"slices"
	"time"
)

// Record is the persisted state of one frame.
type Record struct {
	// LookupKey is the encrypted identifier the record is stored under.
	LookupKey string `json:"lookup_key"`
	ID        ID     `json:"id"`
	Key       []byte `json:"key"`
	IV        []byte `json:"iv"`
	// Stack is the whole stack as it was when this frame was pushed, this frame on top.
	Stack Stack `json:"stack"`
	// Parent is the lookup key of the frame below, empty for the bottom frame.
	Parent string `json:"parent,omitempty"`
	// Active is true while the frame is the top of its stack.
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// KeyMaterial returns a copy of the frame's key material.
func (r *Record) KeyMaterial() KeyMaterial {
	return KeyMaterial{Key: bytes.Clone(r.Key), IV: bytes.Clone(r.IV)}
}

// IsExpired reports whether the record has an expiry in the past.
func (r *Record) IsExpired() bool {
	return r.isExpiredAt(time.Now())
}

func (r *Record) isExpiredAt(now time.Time) bool {
	return r != nil && !r.ExpiresAt.IsZero() && now.After(r.ExpiresAt)
}

// Validate checks the fields every record must have.
func (r *Record) Validate() error {
	if r == nil || r.LookupKey == "" || r.ID.IsNone() || len(r.Key) == 0 || len(r.IV) == 0 {
		return ErrInvalidRecord
	}
	if r.Stack.Current() != r.ID {
		return ErrInvalidRecord
	}
	return nil
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Key = bytes.Clone(r.Key)
	c.IV = bytes.Clone(r.IV)
	c.Stack = slices.Clone(r.Stack)
	return &c
}

// MarshalRecord encodes a record for byte-oriented stores.
func MarshalRecord(r *Record) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, errors.Join(ErrInvalidRecord, err)
	}
	return data, nil
}

// UnmarshalRecord reverses MarshalRecord.
func UnmarshalRecord(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Join(ErrInvalidRecord, err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}
