package secrets

import (
	"crypto/aes"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the size of frame keys and master keys (AES-256).
	KeySize = 32

	// IVSize is the size of an initialization vector, one AES block.
	IVSize = aes.BlockSize

	// saltInfo is used for HKDF key derivation to provide domain separation
	saltInfo = "sessionstack-secrets-v1"
)

// ValidateKey reports whether key is a usable AES key (16, 24 or 32 bytes).
func ValidateKey(key []byte) error {
	switch len(key) {
	case 16, 24, 32:
		return nil
	default:
		return ErrInvalidKey
	}
}

// ValidateMasterKey checks that a sealing key is exactly KeySize bytes.
func ValidateMasterKey(key []byte) error {
	if len(key) != KeySize {
		return ErrInvalidMasterKey
	}
	return nil
}

// deriveKey creates a sealing key from the master key and a per-value salt using HKDF.
// The caller clears the returned key with clearBytes once done.
func deriveKey(masterKey, salt []byte) ([]byte, error) {
	hkdfReader := hkdf.New(sha256.New, masterKey, salt, []byte(saltInfo))

	derivedKey := make([]byte, KeySize)
	if _, err := io.ReadFull(hkdfReader, derivedKey); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}

	return derivedKey, nil
}

// clearBytes zeros derived key material once it is no longer needed.
func clearBytes(b []byte) {
	clear(b)
}

// GenerateKey creates a new random 32-byte key suitable for AES-256.
func GenerateKey() ([]byte, error) {
	return randomBytes(KeySize)
}

// GenerateIV creates a new random initialization vector.
func GenerateIV() ([]byte, error) {
	return randomBytes(IVSize)
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
