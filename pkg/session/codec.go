package session

import (
	"encoding/base64"
	"errors"
	"strings"
)

// CookieDelimiter separates the encrypted identifier from the stack HMAC.
// It cannot appear in standard base64 output.
const CookieDelimiter = "--"

// EncodeCookie joins the encrypted identifier and the stack HMAC into a cookie value.
func EncodeCookie(ciphertext, mac []byte) string {
	return base64.StdEncoding.EncodeToString(ciphertext) +
		CookieDelimiter +
		base64.StdEncoding.EncodeToString(mac)
}

// DecodeCookie splits a cookie value into the encrypted identifier and the stack HMAC.
func DecodeCookie(value string) (ciphertext, mac []byte, err error) {
	parts := strings.Split(value, CookieDelimiter)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, nil, ErrMalformedCookie
	}

	ciphertext, err = base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, nil, errors.Join(ErrMalformedCookie, err)
	}

	mac, err = base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, nil, errors.Join(ErrMalformedCookie, err)
	}

	return ciphertext, mac, nil
}
