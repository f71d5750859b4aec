package session_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionstack/pkg/session"
)

func TestNewID(t *testing.T) {
	t.Parallel()

	seen := make(map[session.ID]struct{}, 100)
	for range 100 {
		id, err := session.NewID()
		require.NoError(t, err)
		assert.Len(t, id.String(), session.IDBits/4)
		assert.False(t, id.IsNone())

		parsed, err := session.ParseID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)

		_, dup := seen[id]
		assert.False(t, dup, "duplicate identifier generated")
		seen[id] = struct{}{}
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "0123456789abcdef0123456789abcdef"},
		{name: "empty", input: "", wantErr: true},
		{name: "too short", input: "0123456789abcdef", wantErr: true},
		{name: "too long", input: strings.Repeat("a", 33), wantErr: true},
		{name: "uppercase", input: "0123456789ABCDEF0123456789ABCDEF", wantErr: true},
		{name: "non hex", input: "0123456789abcdef0123456789abcdeg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, err := session.ParseID(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, session.ErrInvalidID)
				assert.True(t, id.IsNone())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, id.String())
		})
	}
}
