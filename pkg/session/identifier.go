package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
)

const (
	// IDBits is the entropy of a session identifier.
	IDBits = 128

	idBytes  = IDBits / 8
	idLength = idBytes * 2
)

// ID is a session identifier: 128 random bits as 32 lowercase hex characters.
type ID string

// None is returned when there is no current identifier.
const None ID = ""

// NewID draws a fresh identifier from crypto/rand.
func NewID() (ID, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return None, errors.Join(ErrIDGeneration, err)
	}
	return ID(hex.EncodeToString(b)), nil
}

// ParseID validates s as an identifier.
func ParseID(s string) (ID, error) {
	if len(s) != idLength {
		return None, ErrInvalidID
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return None, ErrInvalidID
		}
	}
	return ID(s), nil
}

func (id ID) String() string {
	return string(id)
}

// IsNone reports whether id is the "no identifier" sentinel.
func (id ID) IsNone() bool {
	return id == None
}
