package requestid_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionstack/pkg/logger"
	"github.com/dmitrymomot/sessionstack/pkg/requestid"
)

func serve(t *testing.T, inbound string) (string, string) {
	t.Helper()

	var seen string
	handler := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set(requestid.Header, inbound)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	return seen, rec.Header().Get(requestid.Header)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("generates a uuid v7", func(t *testing.T) {
		t.Parallel()
		seen, echoed := serve(t, "")
		assert.Equal(t, seen, echoed)

		id, err := uuid.Parse(seen)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), id.Version())
	})

	t.Run("reuses a valid inbound id", func(t *testing.T) {
		t.Parallel()
		seen, echoed := serve(t, "edge-req_42")
		assert.Equal(t, "edge-req_42", seen)
		assert.Equal(t, "edge-req_42", echoed)
	})

	t.Run("replaces an invalid inbound id", func(t *testing.T) {
		t.Parallel()
		for _, bad := range []string{
			"req id",
			"req/id",
			"<script>",
			strings.Repeat("a", 129),
		} {
			seen, echoed := serve(t, bad)
			assert.NotEqual(t, bad, seen)
			assert.Equal(t, seen, echoed)
		}
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, requestid.FromContext(context.Background()))
	assert.Empty(t, requestid.FromContext(nil)) //nolint:staticcheck
	assert.Equal(t, "abc", requestid.FromContext(requestid.WithContext(context.Background(), "abc")))
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(
		logger.WithOutput(buf),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	)

	log.InfoContext(requestid.WithContext(context.Background(), "req-1"), "with id")
	log.InfoContext(context.Background(), "without id")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first, second map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))
	assert.Equal(t, "req-1", first["request_id"])
	assert.NotContains(t, second, "request_id")
}
