package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/srots/portal/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte(strings.Repeat("s", jwtx.MinSecretLen))

func TestHS256RoundTrip(t *testing.T) {
	t.Parallel()

	h, err := jwtx.NewHS256(testSecret, "srots-devapi")
	require.NoError(t, err)
	require.Equal(t, "HS256", h.Alg())

	now := time.Now()
	raw, err := h.Sign(jwtx.NewAccessClaims("u-1", "asha", "STUDENT", "c-1", time.Hour, "srots-devapi", now))
	require.NoError(t, err)

	claims, err := h.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "u-1", claims.Subject)
	require.Equal(t, "asha", claims.Username)
	require.Equal(t, "STUDENT", claims.Role)
	require.Equal(t, "c-1", claims.CollegeID)
	require.NotEmpty(t, claims.ID)
}

func TestHS256Rejects(t *testing.T) {
	t.Parallel()

	now := time.Now()
	h, err := jwtx.NewHS256(testSecret, "srots-devapi")
	require.NoError(t, err)

	t.Run("weak secret", func(t *testing.T) {
		t.Parallel()
		_, err := jwtx.NewHS256([]byte("short"), "x")
		require.ErrorIs(t, err, jwtx.ErrWeakSecret)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()
		raw, err := h.Sign(jwtx.NewAccessClaims("u-1", "a", "ADMIN", "", time.Minute, "srots-devapi", now.Add(-time.Hour)))
		require.NoError(t, err)
		_, err = h.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		t.Parallel()
		raw, err := h.Sign(jwtx.NewAccessClaims("u-1", "a", "ADMIN", "", time.Hour, "someone-else", now))
		require.NoError(t, err)
		_, err = h.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("other secret", func(t *testing.T) {
		t.Parallel()
		other, err := jwtx.NewHS256([]byte(strings.Repeat("x", 40)), "srots-devapi")
		require.NoError(t, err)
		raw, err := other.Sign(jwtx.NewAccessClaims("u-1", "a", "ADMIN", "", time.Hour, "srots-devapi", now))
		require.NoError(t, err)
		_, err = h.Verify(raw)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("garbage", func(t *testing.T) {
		t.Parallel()
		_, err := h.Verify("not.a.jwt")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}
