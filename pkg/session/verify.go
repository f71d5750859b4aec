package session

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/dmitrymomot/sessionstack/pkg/secrets"
)

var (
	errUnknownFrame     = errors.New("no frame record for cookie")
	errCoveredFrame     = errors.New("frame is not the top of its stack")
	errIdentifierDiffer = errors.New("identifier mismatch")
	errStackMAC         = errors.New("stack hmac mismatch")
)

// expectFunc yields the stack a cookie must match for the given record and
// whether the record may be accepted at all.
type expectFunc func(record *Record) (Stack, bool)

// verify decodes value, finds its frame record by the encrypted identifier,
// decrypts it and checks both the identifier and the stack HMAC. Both checks
// must pass; all rejections wrap ErrVerificationFailed.
func (m *Manager) verify(ctx context.Context, value string, expect expectFunc) (*Record, error) {
	ciphertext, mac, err := DecodeCookie(value)
	if err != nil {
		return nil, errors.Join(ErrVerificationFailed, err)
	}

	record, err := m.getRecord(ctx, LookupKey(ciphertext))
	if errors.Is(err, ErrRecordNotFound) || errors.Is(err, ErrInvalidRecord) {
		return nil, errors.Join(ErrVerificationFailed, errUnknownFrame)
	}
	if err != nil {
		return nil, err
	}

	expected, ok := expect(record)
	if !ok {
		return nil, errors.Join(ErrVerificationFailed, errCoveredFrame)
	}

	keys := record.KeyMaterial()
	id, err := keys.Decrypt(ciphertext)
	if err != nil {
		return nil, errors.Join(ErrVerificationFailed, err)
	}

	// Evaluate both comparisons before deciding.
	idOK := !expected.Current().IsNone() &&
		subtle.ConstantTimeCompare([]byte(id), []byte(expected.Current())) == 1 &&
		subtle.ConstantTimeCompare([]byte(id), []byte(record.ID)) == 1
	macOK := secrets.Verify(m.digest, keys.Key, expected.Pack(), mac)

	switch {
	case !idOK:
		return nil, errors.Join(ErrVerificationFailed, errIdentifierDiffer)
	case !macOK:
		return nil, errors.Join(ErrVerificationFailed, errStackMAC)
	}

	return record, nil
}
