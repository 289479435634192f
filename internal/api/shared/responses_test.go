package shared

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaginatedEnvelope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		total     int
		skip      int
		limit     int
		wantPage  int
		wantPages int
	}{
		{"first page", 25, 0, 10, 1, 3},
		{"second page", 25, 10, 10, 2, 3},
		{"exact fit", 20, 10, 10, 2, 2},
		{"empty result", 0, 0, 10, 1, 0},
		{"single page", 5, 0, 100, 1, 1},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			env := NewPaginatedEnvelope(nil, "ok", tc.total, tc.skip, tc.limit)
			assert.Equal(t, tc.total, env.Total)
			assert.Equal(t, tc.wantPage, env.Page)
			assert.Equal(t, tc.limit, env.Size)
			assert.Equal(t, tc.wantPages, env.Pages)
			assert.True(t, env.Success)
		})
	}
}

func TestRespondWithData(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/health", nil)
	RespondWithData(w, r, 200, map[string]string{"status": "ok"}, "healthy")

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", env.Message)
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/tasks", nil)
	RespondWithError(w, r, 404, "entity not found: task")

	assert.Equal(t, 404, w.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Nil(t, env.Data)
	assert.Equal(t, "entity not found: task", env.Message)
}
