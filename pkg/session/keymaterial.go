package session

import (
	"bytes"
	"encoding/base64"
	"errors"

	"github.com/dmitrymomot/sessionstack/pkg/secrets"
)

// KeyMaterial is the per-frame encryption key and IV. It encrypts the frame's
// identifier and keys the stack HMAC.
type KeyMaterial struct {
	Key []byte
	IV  []byte
}

// NewKeyMaterial generates a random AES-256 key and IV.
func NewKeyMaterial() (KeyMaterial, error) {
	key, err := secrets.GenerateKey()
	if err != nil {
		return KeyMaterial{}, errors.Join(ErrCryptoFailure, err)
	}
	iv, err := secrets.GenerateIV()
	if err != nil {
		return KeyMaterial{}, errors.Join(ErrCryptoFailure, err)
	}
	return KeyMaterial{Key: key, IV: iv}, nil
}

// IsZero reports whether no key material is bound.
func (k KeyMaterial) IsZero() bool {
	return len(k.Key) == 0 && len(k.IV) == 0
}

// Encrypt returns the ciphertext of id.
func (k KeyMaterial) Encrypt(id ID) ([]byte, error) {
	ct, err := secrets.EncryptCFB(k.Key, k.IV, []byte(id))
	if err != nil {
		return nil, errors.Join(ErrCryptoFailure, err)
	}
	return ct, nil
}

// Decrypt returns the identifier encrypted in ciphertext. The result is not
// validated; callers compare it with the identifier they expect.
func (k KeyMaterial) Decrypt(ciphertext []byte) (ID, error) {
	pt, err := secrets.DecryptCFB(k.Key, k.IV, ciphertext)
	if err != nil {
		return None, errors.Join(ErrCryptoFailure, err)
	}
	return ID(pt), nil
}

// Sign computes the HMAC of the packed stack under the frame key.
func (k KeyMaterial) Sign(h secrets.HashFunc, stack Stack) []byte {
	return secrets.Sign(h, k.Key, stack.Pack())
}

func (k KeyMaterial) Equal(other KeyMaterial) bool {
	return bytes.Equal(k.Key, other.Key) && bytes.Equal(k.IV, other.IV)
}

func (k KeyMaterial) clone() KeyMaterial {
	return KeyMaterial{Key: bytes.Clone(k.Key), IV: bytes.Clone(k.IV)}
}

// LookupKey derives the store key of a frame from its encrypted identifier.
// Records are always stored under this key, so a cookie leads to its key
// material before the plaintext identifier is known.
func LookupKey(ciphertext []byte) string {
	return base64.RawURLEncoding.EncodeToString(ciphertext)
}
