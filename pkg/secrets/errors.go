package secrets

import "errors"

var (
	// Key material errors
	ErrInvalidKey       = errors.New("invalid key: must be 16, 24 or 32 bytes")
	ErrInvalidMasterKey = errors.New("invalid master key: must be 32 bytes")
	ErrInvalidIV        = errors.New("invalid initialization vector: must be 16 bytes")
	ErrInvalidBlockSize = errors.New("input is not a multiple of the cipher block size")
	ErrUnknownDigest    = errors.New("unknown digest")

	// Encryption/decryption errors
	ErrEncryptionFailed  = errors.New("encryption failed")
	ErrDecryptionFailed  = errors.New("decryption failed")
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")

	// Key derivation errors
	ErrKeyDerivationFailed = errors.New("key derivation failed")
)
