package cookie

import (
	"net/http"
	"time"
)

// Attributes are the Set-Cookie attributes a Manager writes.
type Attributes struct {
	Path     string
	Domain   string
	Expires  time.Time
	MaxAge   int
	Secure   bool
	HttpOnly bool
	SameSite http.SameSite
}

type Option func(*Attributes)

func WithPath(path string) Option {
	return func(a *Attributes) { a.Path = path }
}

func WithDomain(domain string) Option {
	return func(a *Attributes) { a.Domain = domain }
}

func WithMaxAge(seconds int) Option {
	return func(a *Attributes) { a.MaxAge = seconds }
}

// WithExpiry sets Expires to at and Max-Age to the whole seconds between
// now and at. A zero at produces a browser-session cookie.
func WithExpiry(at, now time.Time) Option {
	return func(a *Attributes) {
		if at.IsZero() {
			a.Expires = time.Time{}
			a.MaxAge = 0
			return
		}
		a.Expires = at
		a.MaxAge = max(int(at.Sub(now).Round(time.Second)/time.Second), 1)
	}
}

func WithSecure(secure bool) Option {
	return func(a *Attributes) { a.Secure = secure }
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(a *Attributes) { a.HttpOnly = httpOnly }
}

func WithSameSite(mode http.SameSite) Option {
	return func(a *Attributes) { a.SameSite = mode }
}

func (a Attributes) with(opts []Option) Attributes {
	for _, opt := range opts {
		opt(&a)
	}
	return a
}
