package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/serroba/linkstats/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) handlers.APIError {
	t.Helper()

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body handlers.APIError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	return body
}

func TestNotFound(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	rec := httptest.NewRecorder()
	handlers.NotFound(zap.New(core))(rec, httptest.NewRequest(http.MethodGet, "/a/b", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, handlers.APIError{
		Title:      "Not Found",
		Message:    "route not found",
		StatusCode: http.StatusNotFound,
	}, decodeAPIError(t, rec))

	entries := logs.FilterMessage("route not found").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/a/b", entries[0].ContextMap()["path"])
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/shorturls", nil))

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, handlers.APIError{
		Title:      "Method Not Allowed",
		Message:    "DELETE is not supported on /api/shorturls",
		StatusCode: http.StatusMethodNotAllowed,
	}, decodeAPIError(t, rec))
}
