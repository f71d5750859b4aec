package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

// EncryptBytes seals data with a key derived from masterKey and salt.
// Returns ciphertext in format: nonce + encrypted data + tag
func EncryptBytes(masterKey, salt, data []byte) ([]byte, error) {
	aesGCM, err := newGCM(masterKey, salt)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	// Prepend nonce to ciphertext for storage
	return aesGCM.Seal(nonce, nonce, data, salt), nil
}

// DecryptBytes opens a value produced by EncryptBytes with the same masterKey and salt.
func DecryptBytes(masterKey, salt, ciphertext []byte) ([]byte, error) {
	aesGCM, err := newGCM(masterKey, salt)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	nonceSize := aesGCM.NonceSize()
	if len(ciphertext) < nonceSize+aesGCM.Overhead() {
		return nil, ErrInvalidCiphertext
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]

	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, salt)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	return plaintext, nil
}

func newGCM(masterKey, salt []byte) (cipher.AEAD, error) {
	if err := ValidateMasterKey(masterKey); err != nil {
		return nil, err
	}

	key, err := deriveKey(masterKey, salt)
	if err != nil {
		return nil, err
	}
	defer clearBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
