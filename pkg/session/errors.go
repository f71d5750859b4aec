package session

import "errors"

var (
	// ErrVerificationFailed indicates an inbound cookie was rejected. Load and
	// Middleware never return it; they start a fresh stack instead.
	ErrVerificationFailed = errors.New("session.verification_failed")

	// ErrCollisionExhausted indicates no unused identifier was found within the retry budget
	ErrCollisionExhausted = errors.New("session.collision_exhausted")

	// ErrRecordNotFound indicates the store has no frame record under the key
	ErrRecordNotFound = errors.New("session.record_not_found")

	// ErrInvalidRecord indicates a frame record is incomplete or cannot be decoded
	ErrInvalidRecord = errors.New("session.invalid_record")

	// ErrEmptyStack indicates an operation needs at least one frame
	ErrEmptyStack = errors.New("session.empty_stack")

	// ErrMalformedCookie indicates the cookie value is not two base64 parts
	ErrMalformedCookie = errors.New("session.malformed_cookie")

	// ErrInvalidID indicates a string is not a 32-character lowercase hex identifier
	ErrInvalidID = errors.New("session.invalid_id")

	// ErrIDGeneration indicates the random source failed
	ErrIDGeneration = errors.New("session.id_generation_failed")

	// ErrCryptoFailure wraps a failure of a cipher primitive
	ErrCryptoFailure = errors.New("session.crypto_failure")

	// ErrNoStore indicates no store is configured
	ErrNoStore = errors.New("session.no_store")

	// ErrInvalidConfig indicates an unusable option value
	ErrInvalidConfig = errors.New("session.invalid_config")
)
