package httpserver_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionstack/pkg/httpserver"
)

// start runs srv in the background and returns the bound address and the
// channel Run reports on.
func start(t *testing.T, ctx context.Context, srv *httpserver.Server, handler http.Handler, ready <-chan net.Addr) (string, <-chan error) {
	t.Helper()

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, handler) }()

	select {
	case addr := <-ready:
		return addr.String(), done
	case err := <-done:
		require.FailNow(t, "run returned early", "%v", err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "server did not become ready")
	}
	return "", nil
}

func readyHook() (httpserver.Option, <-chan net.Addr) {
	ch := make(chan net.Addr, 1)
	return httpserver.WithReadyHook(func(addr net.Addr) { ch <- addr }), ch
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		require.FailNow(t, "run did not finish")
		return nil
	}
}

func TestRunServesUntilContextDone(t *testing.T) {
	t.Parallel()

	hook, ready := readyHook()
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(time.Second),
		hook,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addr, done := start(t, ctx, srv, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}), ready)

	resp, err := http.Get("http://" + addr)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "ok", string(body))

	cancel()
	require.NoError(t, wait(t, done))
	assert.NoError(t, srv.Shutdown(context.Background()), "repeated shutdown")
}

func TestShutdownStopsRun(t *testing.T) {
	t.Parallel()

	hook, ready := readyHook()
	srv := httpserver.NewFromConfig(httpserver.Config{Addr: "127.0.0.1:0"}, hook)
	_, done := start(t, context.Background(), srv, nil, ready)

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, wait(t, done))
}

func TestRunTwice(t *testing.T) {
	t.Parallel()

	hook, ready := readyHook()
	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), hook)
	ctx, cancel := context.WithCancel(context.Background())
	_, done := start(t, ctx, srv, http.NotFoundHandler(), ready)

	assert.ErrorIs(t, srv.Run(ctx, http.NotFoundHandler()), httpserver.ErrAlreadyRunning)

	cancel()
	require.NoError(t, wait(t, done))
}

func TestStartError(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:invalid"))
	err := srv.Run(context.Background(), http.NotFoundHandler())
	assert.ErrorIs(t, err, httpserver.ErrStart)
}

func TestShutdownBeforeRun(t *testing.T) {
	t.Parallel()
	assert.NoError(t, httpserver.New().Shutdown(context.Background()))
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { httpserver.WithAddr("") })
	assert.Panics(t, func() { httpserver.WithReadTimeout(0) })
	assert.Panics(t, func() { httpserver.WithWriteTimeout(-time.Second) })
	assert.Panics(t, func() { httpserver.WithIdleTimeout(0) })
	assert.Panics(t, func() { httpserver.WithShutdownTimeout(0) })
	assert.Panics(t, func() { httpserver.WithReadyHook(nil) })
	assert.NotPanics(t, func() { httpserver.New(httpserver.WithLogger(nil)) })
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := httpserver.DefaultConfig()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}
