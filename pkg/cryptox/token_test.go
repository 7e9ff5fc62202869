package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	for _, size := range []int{TokenSize128, TokenSize256, 24} {
		token, err := GenerateToken(size)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		token2, err := GenerateToken(size)
		require.NoError(t, err)
		require.NotEqual(t, token, token2, "tokens should be unique")
	}

	_, err := GenerateToken(0)
	require.Error(t, err)
	_, err = GenerateToken(-1)
	require.Error(t, err)
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	fp := FingerprintToken("reset-1")
	require.Equal(t, fp, FingerprintToken("reset-1"))
	require.NotEqual(t, fp, FingerprintToken("reset-2"))
	require.Len(t, fp, 43, "SHA-256 base64url should be 43 chars")
}

func TestHexSignature(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"event":"payment.captured"}`)
	secret := []byte("whsec")

	sig := SignHex(payload, secret)
	require.Len(t, sig, 64)
	require.True(t, VerifyHex(payload, secret, sig))

	require.False(t, VerifyHex(payload, []byte("other"), sig))
	require.False(t, VerifyHex([]byte(`{}`), secret, sig))
	require.False(t, VerifyHex(payload, secret, "zz"))
	require.False(t, VerifyHex(payload, secret, ""))
}
