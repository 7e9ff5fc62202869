package jwtx_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/srots/portal/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestValidateIssuer(t *testing.T) {
	t.Parallel()

	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: "srots-devapi"}}

	require.NoError(t, c.ValidateIssuer("srots-devapi"))
	require.NoError(t, c.ValidateIssuer(""))
	require.ErrorIs(t, c.ValidateIssuer("srots-prod"), jwtx.ErrIssuer)
}

func TestValidateExpiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		nbf  time.Time
		exp  time.Time
		want error
	}{
		{"valid", now.Add(-time.Minute), now.Add(time.Minute), nil},
		{"expired", now.Add(-time.Hour), now.Add(-time.Second), jwtx.ErrExpired},
		{"not yet valid", now.Add(time.Minute), now.Add(time.Hour), jwtx.ErrNotYetValid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{
				NotBefore: jwt.NewNumericDate(tt.nbf),
				ExpiresAt: jwt.NewNumericDate(tt.exp),
			}}
			err := c.ValidateExpiry(now)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}
