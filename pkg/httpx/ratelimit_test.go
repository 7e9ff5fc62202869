package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/srots/portal/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "remote addr", want: "192.168.1.1"},
		{name: "forwarded for wins", headers: map[string]string{"X-Forwarded-For": "203.0.113.1, 192.168.1.1"}, want: "203.0.113.1"},
		{name: "real ip fallback", headers: map[string]string{"X-Real-IP": "203.0.113.2"}, want: "203.0.113.2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tc.want, httpx.ClientIP(req))
		})
	}
}

func TestClientIPAndQuery(t *testing.T) {
	t.Parallel()

	key := httpx.ClientIPAndQuery("email")

	t.Run("combines parts", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/auth/forgot-password?email=a@srots.in", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		require.Equal(t, "192.168.1.1:a@srots.in", key(req))
	})

	t.Run("address only without the parameter", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/auth/forgot-password", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		require.Equal(t, "192.168.1.1", key(req))
	})
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	send := func(h http.Handler, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = ip + ":12345"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("blocks requests over limit", func(t *testing.T) {
		t.Parallel()

		h := httpx.RateLimitByIP(httpx.Limit{Requests: 3, Per: time.Minute})(ok)
		for i := range 3 {
			require.Equal(t, http.StatusOK, send(h, "10.0.0.1").Code, "request %d", i+1)
		}

		rec := send(h, "10.0.0.1")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "3/1m0s", rec.Header().Get("X-RateLimit-Limit"))
		require.Contains(t, rec.Body.String(), "Too many requests")
	})

	t.Run("tracks keys separately", func(t *testing.T) {
		t.Parallel()

		h := httpx.RateLimitByIP(httpx.Limit{Requests: 1, Per: time.Minute})(ok)
		require.Equal(t, http.StatusOK, send(h, "10.0.0.1").Code)
		require.Equal(t, http.StatusTooManyRequests, send(h, "10.0.0.1").Code)
		require.Equal(t, http.StatusOK, send(h, "10.0.0.2").Code)
	})

	t.Run("empty key is not limited", func(t *testing.T) {
		t.Parallel()

		h := httpx.RateLimit(httpx.Limit{Requests: 1, Per: time.Minute}, func(*http.Request) string { return "" })(ok)
		for range 3 {
			require.Equal(t, http.StatusOK, send(h, "10.0.0.1").Code)
		}
	})
}

func TestParseLimit(t *testing.T) {
	t.Parallel()

	got, err := httpx.ParseLimit("200/30s")
	require.NoError(t, err)
	require.Equal(t, httpx.Limit{Requests: 200, Per: 30 * time.Second}, got)

	for _, bad := range []string{"", "5", "0/1m", "x/1m", "5/never", "5/-1s"} {
		t.Run(bad, func(t *testing.T) {
			t.Parallel()

			_, err := httpx.ParseLimit(bad)
			require.Error(t, err)
		})
	}
}
