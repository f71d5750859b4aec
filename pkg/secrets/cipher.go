package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

// EncryptCFB encrypts plaintext with AES in CFB mode. The key length selects
// AES-128, AES-192 or AES-256. The result has the same length as plaintext.
// The function holds no state: the same inputs always give the same output.
//
// crypto/cipher deprecates CFB as of Go 1.24. It stays because cookies
// already issued were encrypted with it.
func EncryptCFB(key, iv, plaintext []byte) ([]byte, error) {
	block, err := newBlock(key, iv)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	out := make([]byte, len(plaintext))
	//nolint:staticcheck // CFB is the cookie wire format; issued cookies must keep decrypting
	cipher.NewCFBEncrypter(block, iv).XORKeyStream(out, plaintext)
	return out, nil
}

// DecryptCFB reverses EncryptCFB.
func DecryptCFB(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := newBlock(key, iv)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	out := make([]byte, len(ciphertext))
	//nolint:staticcheck // CFB is the cookie wire format; issued cookies must keep decrypting
	cipher.NewCFBDecrypter(block, iv).XORKeyStream(out, ciphertext)
	return out, nil
}

// EncryptECB encrypts every block of data independently with AES.
// It is only suitable for short random values such as an IV.
func EncryptECB(key, data []byte) ([]byte, error) {
	block, err := newBlock(key, nil)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	if len(data)%aes.BlockSize != 0 {
		return nil, errors.Join(ErrEncryptionFailed, ErrInvalidBlockSize)
	}

	out := make([]byte, len(data))
	for i := 0; i < len(data); i += aes.BlockSize {
		block.Encrypt(out[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
	}
	return out, nil
}

// DecryptECB reverses EncryptECB.
func DecryptECB(key, data []byte) ([]byte, error) {
	block, err := newBlock(key, nil)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	if len(data)%aes.BlockSize != 0 {
		return nil, errors.Join(ErrDecryptionFailed, ErrInvalidBlockSize)
	}

	out := make([]byte, len(data))
	for i := 0; i < len(data); i += aes.BlockSize {
		block.Decrypt(out[i:i+aes.BlockSize], data[i:i+aes.BlockSize])
	}
	return out, nil
}

// newBlock validates key and, when non-nil, iv and returns the AES block.
func newBlock(key, iv []byte) (cipher.Block, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if iv != nil && len(iv) != aes.BlockSize {
		return nil, ErrInvalidIV
	}
	return aes.NewCipher(key)
}
