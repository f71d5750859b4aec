// Package secrets provides the stateless cryptographic primitives used by the
// session cookie protocol.
//
// Every function is a pure function of its inputs: there is no cipher object
// whose encrypt/decrypt mode has to be switched between calls.
//
// # Primitives
//
//  1. Data cipher – AES in CFB mode (EncryptCFB, DecryptCFB). Session
//     identifiers are encrypted with a per-frame 32-byte key and 16-byte IV.
//  2. Block cipher – AES in ECB mode over whole blocks (EncryptECB,
//     DecryptECB). Only used to wrap an IV before it is persisted.
//  3. Keyed hash – HMAC over SHA-256 by default (Sign, Verify). SHA-1 is
//     available through SHA1 or DigestByName("sha1").
//  4. Sealing – HKDF(SHA-256) derives a key from a 32-byte master key and a
//     per-value salt; AES-256-GCM then seals the value (EncryptBytes,
//     DecryptBytes). The salt is also bound as additional data.
//
// # Usage
//
//	import "github.com/dmitrymomot/sessionstack/pkg/secrets"
//
//	key, _ := secrets.GenerateKey()
//	iv, _ := secrets.GenerateIV()
//
//	ct, err := secrets.EncryptCFB(key, iv, []byte("0123456789abcdef0123456789abcdef"))
//	if err != nil {
//	    // handle error
//	}
//	pt, _ := secrets.DecryptCFB(key, iv, ct)
//
//	mac := secrets.Sign(secrets.SHA256, key, pt)
//	ok := secrets.Verify(secrets.SHA256, key, pt, mac)
//
// # Error Handling
//
// Failures wrap a sentinel such as ErrEncryptionFailed together with the
// cause (ErrInvalidKey, ErrInvalidIV, ErrInvalidBlockSize). Use errors.Is to
// match them. A wrong key length is a programming error, not a runtime
// condition to retry.
package secrets
