package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kofadam/asahi-x-family/internal/api/shared"
	"github.com/kofadam/asahi-x-family/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	base, logBuf := logger.GetTestLogger(t)

	var traceID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("handling")
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	NewTraceMiddleware(base)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/lessons", nil))

	require.NotEmpty(t, traceID)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	entries, err := logBuf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "request started", entries[0]["msg"])
	for _, e := range entries {
		assert.Equal(t, traceID, e["trace_id"])
	}
}
