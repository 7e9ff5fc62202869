package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hash, err := HashPasswordWithCost(tt.password, bcrypt.MinCost)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$2a$"))

			require.NoError(t, VerifyPassword(tt.password, hash))
			require.ErrorIs(t, VerifyPassword(tt.password+"x", hash), ErrPasswordMismatch)
		})
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	t.Parallel()

	h1, err := HashPasswordWithCost("samepassword", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := HashPasswordWithCost("samepassword", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, h1, h2)
}

func TestHashPasswordTooLong(t *testing.T) {
	t.Parallel()

	_, err := HashPasswordWithCost(strings.Repeat("a", 73), bcrypt.MinCost)
	require.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	t.Parallel()

	err := VerifyPassword("x", "not-a-hash")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestGeneratePassword(t *testing.T) {
	t.Parallel()

	p, err := GeneratePassword()
	require.NoError(t, err)
	require.Len(t, p, 12)
}
