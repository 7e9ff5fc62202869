package slogx_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/srots/portal/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("generates request id and logs status", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slogx.New(slogx.Config{Service: "test", Format: "json", Output: &buf})

		h := slogx.HTTPMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NotNil(t, slogx.FromContext(r.Context()))
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

		require.Equal(t, http.StatusTeapot, rec.Code)
		require.NotEmpty(t, rec.Header().Get(slogx.RequestIDHeader))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "http_request", entry["msg"])
		require.EqualValues(t, http.StatusTeapot, entry["status"])
		require.Equal(t, "/livez", entry["path"])
	})

	t.Run("keeps caller request id", func(t *testing.T) {
		t.Parallel()

		h := slogx.HTTPMiddleware(slogx.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(slogx.RequestIDHeader, "abc123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, "abc123", rec.Header().Get(slogx.RequestIDHeader))
	})
}
