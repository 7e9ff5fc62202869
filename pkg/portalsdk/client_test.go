package portalsdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func staticToken(tok string) portalsdk.TokenSource {
	return portalsdk.TokenSourceFunc(func(context.Context) string { return tok })
}

type hookRecorder struct {
	mu    sync.Mutex
	calls []string
	toks  []string
}

func (h *hookRecorder) fn(_ context.Context, rejected, path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, path)
	h.toks = append(h.toks, rejected)
}

func (h *hookRecorder) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.calls)
}

func TestBearerTransport(t *testing.T) {
	t.Parallel()

	var gotAuth, gotReqID atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		gotReqID.Store(r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	t.Run("attaches token when present", func(t *testing.T) {
		c := portalsdk.NewClient(srv.URL, portalsdk.Options{Tokens: staticToken("tok-1"), Logger: slogx.Discard()})
		require.NoError(t, c.GetJSON(t.Context(), "/companies", nil))
		require.Equal(t, "Bearer tok-1", gotAuth.Load())
		require.NotEmpty(t, gotReqID.Load())
	})

	t.Run("omits header without token", func(t *testing.T) {
		c := portalsdk.NewClient(srv.URL, portalsdk.Options{Tokens: staticToken(""), Logger: slogx.Discard()})
		require.NoError(t, c.GetJSON(t.Context(), "/companies", nil))
		require.Equal(t, "", gotAuth.Load())
	})

	t.Run("works without token source", func(t *testing.T) {
		c := portalsdk.NewClient(srv.URL+"/", portalsdk.Options{Logger: slogx.Discard()})
		require.NoError(t, c.GetJSON(t.Context(), "/companies", nil))
		require.Equal(t, "", gotAuth.Load())
	})
}

func TestUnauthorizedHook(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("Invalid username or password"))
	}))
	t.Cleanup(srv.Close)

	t.Run("authenticated call fires hook", func(t *testing.T) {
		t.Parallel()

		hook := &hookRecorder{}
		c := portalsdk.NewClient(srv.URL+"/api/v1", portalsdk.Options{
			Tokens:         staticToken("stale"),
			OnUnauthorized: hook.fn,
			Logger:         slogx.Discard(),
		})

		err := c.GetJSON(t.Context(), "/companies", nil)
		require.ErrorIs(t, err, portalsdk.ErrAuthorizationExpired)
		require.Equal(t, 1, hook.count())
		require.Equal(t, "/api/v1/companies", hook.calls[0])
		require.Equal(t, "stale", hook.toks[0])
		require.Equal(t, portalsdk.MsgSessionExpired, portalsdk.UserMessage(err))
	})

	t.Run("login is exempt", func(t *testing.T) {
		t.Parallel()

		hook := &hookRecorder{}
		c := portalsdk.NewClient(srv.URL+"/api/v1", portalsdk.Options{OnUnauthorized: hook.fn, Logger: slogx.Discard()})

		_, err := c.Login(t.Context(), "alice", "wrong")
		require.ErrorIs(t, err, portalsdk.ErrInvalidCredentials)
		require.Zero(t, hook.count())
		require.Equal(t, "Invalid username or password", portalsdk.UserMessage(err))
	})

	t.Run("refresh is exempt", func(t *testing.T) {
		t.Parallel()

		hook := &hookRecorder{}
		c := portalsdk.NewClient(srv.URL+"/api/v1", portalsdk.Options{OnUnauthorized: hook.fn, Logger: slogx.Discard()})

		err := c.GetJSON(t.Context(), "/auth/refresh", nil)
		require.ErrorIs(t, err, portalsdk.ErrInvalidCredentials)
		require.Zero(t, hook.count())
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("success decodes profile", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/v1/auth/login", r.URL.Path)

			var req portalsdk.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Equal(t, "student1", req.Username)

			_ = json.NewEncoder(w).Encode(portalsdk.LoginResponse{
				Token:         "jwt",
				UserID:        "u-1",
				FullName:      "Student One",
				Username:      "student1",
				Role:          portalsdk.RoleStudent,
				AccountStatus: portalsdk.AccountHold,
			})
		}))
		t.Cleanup(srv.Close)

		c := portalsdk.NewClient(srv.URL+"/api/v1", portalsdk.Options{Logger: slogx.Discard()})
		resp, err := c.Login(t.Context(), "  student1 ", "pw")
		require.NoError(t, err)
		require.Equal(t, "jwt", resp.Token)

		u := resp.User()
		require.Equal(t, "u-1", u.ID)
		require.Equal(t, portalsdk.RoleStudent, u.Role)
		require.False(t, u.PremiumActive)
	})

	t.Run("restricted account", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"accountStatus":"RESTRICTED","message":"Contact your college admin."}`))
		}))
		t.Cleanup(srv.Close)

		c := portalsdk.NewClient(srv.URL, portalsdk.Options{Logger: slogx.Discard()})
		_, err := c.Login(t.Context(), "blocked", "pw")

		var restricted *portalsdk.RestrictedAccountError
		require.ErrorAs(t, err, &restricted)
		require.Equal(t, "Contact your college admin.", portalsdk.UserMessage(err))
	})
}

func TestValidationHappensBeforeNetwork(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(srv.Close)

	c := portalsdk.NewClient(srv.URL, portalsdk.Options{Logger: slogx.Discard()})
	ctx := t.Context()

	cases := []struct {
		name  string
		call  func() error
		field string
	}{
		{"empty username", func() error { _, err := c.Login(ctx, " ", "pw"); return err }, "username"},
		{"empty password", func() error { _, err := c.Login(ctx, "alice", ""); return err }, "password"},
		{"bad email", func() error { _, err := c.ForgotPassword(ctx, "not-an-email"); return err }, "email"},
		{"short utr", func() error {
			_, err := c.Subscribe(ctx, portalsdk.SubscribeRequest{UTRNumber: "12345"})
			return err
		}, "utrNumber"},
		{"symbols in utr", func() error {
			_, err := c.Subscribe(ctx, portalsdk.SubscribeRequest{UTRNumber: "1234-5678"})
			return err
		}, "utrNumber"},
		{"unknown plan length", func() error {
			_, err := c.Subscribe(ctx, portalsdk.SubscribeRequest{UTRNumber: "123456789012", Months: 5})
			return err
		}, "months"},
		{"weak new password", func() error { _, err := c.ResetPassword(ctx, "tok", "short"); return err }, "newPassword"},
		{"missing profile id", func() error { _, err := c.Profile(ctx, ""); return err }, "id"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()

			var verr *portalsdk.ValidationError
			require.ErrorAs(t, err, &verr)
			require.Contains(t, verr.Fields, tc.field)
			require.NotEmpty(t, portalsdk.UserMessage(err))
		})
	}

	require.Zero(t, hits.Load())
}

func TestNetworkFailures(t *testing.T) {
	t.Parallel()

	t.Run("timeout", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		t.Cleanup(srv.Close)

		c := portalsdk.NewClient(srv.URL, portalsdk.Options{Timeout: 50 * time.Millisecond, Logger: slogx.Discard()})
		_, err := c.CreateOrder(t.Context())
		require.ErrorIs(t, err, portalsdk.ErrNetworkTimeout)
		require.Equal(t, portalsdk.MsgTimeout, portalsdk.UserMessage(err))
	})

	t.Run("connection refused", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := portalsdk.NewClient(url, portalsdk.Options{Logger: slogx.Discard()})
		_, err := c.CreateOrder(t.Context())
		require.ErrorIs(t, err, portalsdk.ErrNetwork)
		require.False(t, errors.Is(err, portalsdk.ErrNetworkTimeout))
	})
}

func TestForgotPassword(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "a@college.edu", r.URL.Query().Get("email"))

		var body portalsdk.ForgotPasswordRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@college.edu", body.Email)

		_, _ = w.Write([]byte("Password reset link sent to your email"))
	}))
	t.Cleanup(srv.Close)

	c := portalsdk.NewClient(srv.URL, portalsdk.Options{Logger: slogx.Discard()})
	ack, err := c.ForgotPassword(t.Context(), "a@college.edu")
	require.NoError(t, err)
	require.Equal(t, "Password reset link sent to your email", ack.Message)
}

func TestSubscribeAndOrder(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /premium/subscribe", func(w http.ResponseWriter, r *http.Request) {
		var req portalsdk.SubscribeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "UTR123456789", req.UTRNumber)
		require.Equal(t, 6, req.Months)
		_ = json.NewEncoder(w).Encode(portalsdk.MessageResponse{Message: "Premium activated"})
	})
	mux.HandleFunc("POST /premium/create-order", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(portalsdk.OrderResponse{Key: "rzp_test", Amount: 49900, OrderID: "order_1"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := portalsdk.NewClient(srv.URL, portalsdk.Options{Logger: slogx.Discard()})

	ack, err := c.Subscribe(t.Context(), portalsdk.SubscribeRequest{UTRNumber: " UTR123456789 ", Months: 6})
	require.NoError(t, err)
	require.Equal(t, "Premium activated", ack.Message)

	order, err := c.CreateOrder(t.Context())
	require.NoError(t, err)
	require.Equal(t, int64(49900), order.Amount)
	require.Equal(t, "order_1", order.OrderID)
}
