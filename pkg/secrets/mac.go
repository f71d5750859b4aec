package secrets

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"hash"
	"strings"
)

// HashFunc constructs the hash used for HMAC computation.
type HashFunc func() hash.Hash

var (
	// SHA256 is the default digest.
	SHA256 HashFunc = sha256.New

	// SHA1 is kept for deployments that still verify cookies issued with it.
	SHA1 HashFunc = sha1.New
)

// DigestByName resolves "sha256" or "sha1" (case-insensitive) to a HashFunc.
func DigestByName(name string) (HashFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sha256", "sha-256":
		return SHA256, nil
	case "sha1", "sha-1":
		return SHA1, nil
	default:
		return nil, ErrUnknownDigest
	}
}

// Sign computes the HMAC of data under key. A nil h means SHA256.
func Sign(h HashFunc, key, data []byte) []byte {
	if h == nil {
		h = SHA256
	}
	mac := hmac.New(h, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// Verify recomputes the HMAC of data and compares it with mac in constant time.
func Verify(h HashFunc, key, data, mac []byte) bool {
	return hmac.Equal(Sign(h, key, data), mac)
}
