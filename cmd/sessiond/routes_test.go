package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionstack/pkg/httpserver"
	"github.com/dmitrymomot/sessionstack/pkg/requestid"
	"github.com/dmitrymomot/sessionstack/pkg/session"
)

type client struct {
	t       *testing.T
	handler http.Handler
	cookie  *http.Cookie
}

func (c *client) do(method, path string) (int, sessionResponse) {
	c.t.Helper()

	r := httptest.NewRequest(method, path, nil)
	if c.cookie != nil {
		r.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, r)

	for _, ck := range w.Result().Cookies() {
		if ck.Name == "sid" {
			if ck.MaxAge < 0 {
				c.cookie = nil
			} else {
				c.cookie = ck
			}
		}
	}

	var body sessionResponse
	if w.Code < http.StatusBadRequest {
		require.NoError(c.t, json.NewDecoder(w.Body).Decode(&body))
	}
	return w.Code, body
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	manager, err := session.New(store)
	require.NoError(t, err)
	return newRouter(manager, nil, httpserver.Check{Name: "memory"})
}

func TestSessionRoutes(t *testing.T) {
	t.Parallel()
	c := &client{t: t, handler: newTestRouter(t)}

	code, a := c.do(http.MethodGet, "/session")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, a.Depth)
	require.NotNil(t, c.cookie)

	code, again := c.do(http.MethodGet, "/session")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, a.ID, again.ID)

	code, b := c.do(http.MethodPost, "/session/frames")
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, 2, b.Depth)
	assert.NotEqual(t, a.ID, b.ID)

	code, reset := c.do(http.MethodPost, "/session/reset")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, reset.Depth)
	assert.NotEqual(t, b.ID, reset.ID)

	code, popped := c.do(http.MethodDelete, "/session/frames")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, reset.ID, popped.Popped)
	assert.Equal(t, a.ID, popped.ID)
	assert.Equal(t, 1, popped.Depth)

	code, _ = c.do(http.MethodPost, "/session/frames")
	require.Equal(t, http.StatusCreated, code)

	code, fresh := c.do(http.MethodDelete, "/session")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, fresh.Depth)
	assert.NotEqual(t, a.ID, fresh.ID)

	code, last := c.do(http.MethodDelete, "/session/frames")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, fresh.ID, last.Popped)
	assert.Equal(t, 0, last.Depth)
	assert.Nil(t, c.cookie, "emptied session clears the cookie")
}

func TestHealthRoutes(t *testing.T) {
	t.Parallel()
	handler := newTestRouter(t)

	for path, body := range map[string]string{"/healthz": "ALIVE", "/readyz": "READY"} {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, body, w.Body.String(), path)
		assert.NotEmpty(t, w.Header().Get(requestid.Header), path)
	}
}
