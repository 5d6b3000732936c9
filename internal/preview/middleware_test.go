package preview

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
)

func TestMiddleware_RecoversPanics(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := withMiddleware(logger, errors.NewHTTPErrorAdapter(logger), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/broken", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "internal server error", body["error"])
	require.Contains(t, logs.String(), "HTTP handler panic")
	require.Contains(t, logs.String(), "status=500")
}

func TestMiddleware_LogsStatus(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := withMiddleware(logger, errors.NewHTTPErrorAdapter(logger), http.NotFoundHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, logs.String(), "method=GET")
	require.Contains(t, logs.String(), "path=/missing")
	require.Contains(t, logs.String(), "status=404")
}
