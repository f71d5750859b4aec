package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionstack/pkg/cookie"
)

func TestManager_SetGet(t *testing.T) {
	t.Parallel()
	m := cookie.New()

	for name, value := range map[string]string{
		"plain":   "value",
		"empty":   "",
		"session": "q8Xk-w2Zg_8--dGVzdA",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			require.NoError(t, m.Set(w, "sid", value))

			cookies := w.Result().Cookies()
			require.Len(t, cookies, 1)

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.AddCookie(cookies[0])
			got, err := m.Get(r, "sid")
			require.NoError(t, err)
			assert.Equal(t, value, got)
		})
	}
}

func TestManager_GetMissing(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := cookie.New().Get(r, "sid")
	assert.ErrorIs(t, err, cookie.ErrCookieNotFound)
}

func TestManager_SetRejects(t *testing.T) {
	t.Parallel()

	t.Run("invalid name", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		err := cookie.New().Set(w, "bad name;", "value")
		assert.ErrorIs(t, err, cookie.ErrInvalidFormat)
		assert.Empty(t, w.Header().Values("Set-Cookie"))
	})

	t.Run("same site none without secure", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		m := cookie.New(cookie.WithSameSite(http.SameSiteNoneMode))
		assert.ErrorIs(t, m.Set(w, "sid", "v"), cookie.ErrInsecureSameSiteNone)
		assert.NoError(t, m.Set(w, "sid", "v", cookie.WithSecure(true)))
	})
}

func TestManager_Attributes(t *testing.T) {
	t.Parallel()
	m := cookie.New(
		cookie.WithDomain("example.com"),
		cookie.WithPath("/app"),
		cookie.WithSecure(true),
	)

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	w := httptest.NewRecorder()
	require.NoError(t, m.Set(w, "sid", "v", cookie.WithExpiry(now.Add(time.Hour), now)))

	header := w.Header().Get("Set-Cookie")
	assert.Contains(t, header, "Domain=example.com")
	assert.Contains(t, header, "Path=/app")
	assert.Contains(t, header, "Secure")
	assert.Contains(t, header, "HttpOnly")
	assert.Contains(t, header, "SameSite=Lax")
	assert.Contains(t, header, "Expires=Fri, 02 Jan 2026 04:04:05 GMT")
	assert.Contains(t, header, "Max-Age=3600")

	defaults := m.Defaults()
	assert.True(t, defaults.Expires.IsZero(), "per-call options leave defaults alone")
	assert.Zero(t, defaults.MaxAge)
}

func TestWithExpiry(t *testing.T) {
	t.Parallel()
	now := time.Now()

	t.Run("zero expiry is a session cookie", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, cookie.New().Set(w, "sid", "v", cookie.WithExpiry(time.Time{}, now)))

		header := w.Header().Get("Set-Cookie")
		assert.NotContains(t, header, "Expires=")
		assert.NotContains(t, header, "Max-Age")
	})

	t.Run("sub-second expiry keeps a positive max age", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		require.NoError(t, cookie.New().Set(w, "sid", "v", cookie.WithExpiry(now.Add(100*time.Millisecond), now)))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, 1, cookies[0].MaxAge)
	})
}

func TestManager_Delete(t *testing.T) {
	t.Parallel()
	m := cookie.New(cookie.WithDomain("example.com"))

	w := httptest.NewRecorder()
	m.Delete(w, "sid", cookie.WithPath("/app"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Equal(t, "example.com", cookies[0].Domain)
	assert.Equal(t, "/app", cookies[0].Path)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cfg := cookie.DefaultConfig()
	cfg.Domain = "example.org"
	cfg.Secure = true
	cfg.HttpOnly = false
	cfg.SameSite = "Strict"

	m, err := cookie.NewFromConfig(cfg)
	require.NoError(t, err)

	defaults := m.Defaults()
	assert.Equal(t, "/", defaults.Path)
	assert.Equal(t, "example.org", defaults.Domain)
	assert.True(t, defaults.Secure)
	assert.False(t, defaults.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, defaults.SameSite)

	cfg.SameSite = "sometimes"
	_, err = cookie.NewFromConfig(cfg)
	assert.ErrorIs(t, err, cookie.ErrInvalidSameSite)
}

func TestParseSameSite(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]http.SameSite{
		"":        http.SameSiteLaxMode,
		"lax":     http.SameSiteLaxMode,
		" NONE ":  http.SameSiteNoneMode,
		"strict":  http.SameSiteStrictMode,
		"default": http.SameSiteDefaultMode,
	} {
		got, err := cookie.ParseSameSite(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
