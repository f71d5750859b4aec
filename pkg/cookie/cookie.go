package cookie

import (
	"errors"
	"net/http"
	"time"
)

// Manager writes and reads cookies with a shared set of default attributes.
// Values are passed through untouched.
type Manager struct {
	defaults Attributes
}

// New starts from Path "/", HttpOnly and SameSite=Lax.
func New(opts ...Option) *Manager {
	base := Attributes{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{defaults: base.with(opts)}
}

func (m *Manager) Defaults() Attributes {
	return m.defaults
}

// Set writes name=value with the defaults overridden by opts. SameSite=None
// requires Secure.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	attrs := m.defaults.with(opts)
	if attrs.SameSite == http.SameSiteNoneMode && !attrs.Secure {
		return ErrInsecureSameSiteNone
	}

	c := attrs.cookie(name, value)
	if err := c.Valid(); err != nil {
		return errors.Join(ErrInvalidFormat, err)
	}
	http.SetCookie(w, c)
	return nil
}

// Get returns the value of the first cookie called name.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrCookieNotFound
	}
	if err != nil {
		return "", errors.Join(ErrInvalidFormat, err)
	}
	return c.Value, nil
}

// Delete expires the cookie on the client. Path and domain must match the
// ones it was set with.
func (m *Manager) Delete(w http.ResponseWriter, name string, opts ...Option) {
	attrs := m.defaults.with(opts)
	attrs.MaxAge = -1
	attrs.Expires = time.Unix(0, 0)
	http.SetCookie(w, attrs.cookie(name, ""))
}

func (a Attributes) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     a.Path,
		Domain:   a.Domain,
		Expires:  a.Expires,
		MaxAge:   a.MaxAge,
		Secure:   a.Secure,
		HttpOnly: a.HttpOnly,
		SameSite: a.SameSite,
	}
}
