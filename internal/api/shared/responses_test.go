package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kofadam/asahi-x-family/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/profile", nil)

	RespondWithJSON(w, r, http.StatusCreated, map[string]int{"total_xp": 150})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"total_xp":150}`, w.Body.String())
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	r = r.WithContext(SetTraceID(r.Context()))

	RespondWithError(w, r, http.StatusNotFound, "Lesson not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "Lesson not found", resp.Error)
	assert.Equal(t, GetTraceID(r.Context()), resp.TraceID)
	assert.Zero(t, resp.Code, "status code is not serialized")
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	secret := errors.New("dial postgres://asahi:hunter2@db:5432/progress failed")

	tests := []struct {
		name      string
		status    int
		opts      []ResponseOption
		wantLevel string
	}{
		{name: "server error", status: http.StatusServiceUnavailable, wantLevel: "ERROR"},
		{name: "client error", status: http.StatusBadRequest, wantLevel: "DEBUG"},
		{name: "rate limited", status: http.StatusTooManyRequests, wantLevel: "WARN"},
		{
			name:      "elevated client error",
			status:    http.StatusUnauthorized,
			opts:      []ResponseOption{WithElevatedLogLevel()},
			wantLevel: "WARN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, logBuf := logger.NewTestContext(t)
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/practice", nil).WithContext(ctx)

			RespondWithErrorAndLog(w, r, tt.status, "Progress is temporarily unavailable", secret, tt.opts...)

			assert.Equal(t, tt.status, w.Code)
			assert.NotContains(t, w.Body.String(), "hunter2")
			assert.Contains(t, w.Body.String(), "Progress is temporarily unavailable")

			entries, err := logBuf.GetLogEntries()
			require.NoError(t, err)
			require.NotEmpty(t, entries)
			last := entries[len(entries)-1]
			assert.Equal(t, "API error response", last["msg"])
			assert.Equal(t, tt.wantLevel, last["level"])
			assert.NotContains(t, logBuf.String(), "hunter2")
		})
	}
}
