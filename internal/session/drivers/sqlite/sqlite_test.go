package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/srots/portal/internal/session/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newKV(t *testing.T, dsn string) *sqlite.KV {
	t.Helper()

	kv, err := sqlite.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, kv.ApplyMigrations())
	return kv
}

func TestKV(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	kv := newKV(t, ":memory:")
	t.Cleanup(func() { _ = kv.Close() })

	t.Run("missing key", func(t *testing.T) {
		_, ok, err := kv.Get(ctx, "nope")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("set many and overwrite", func(t *testing.T) {
		require.NoError(t, kv.SetMany(ctx, map[string]string{"token": "a", "role": "STUDENT"}))
		require.NoError(t, kv.SetMany(ctx, map[string]string{"token": "b"}))

		v, ok, err := kv.Get(ctx, "token")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "b", v)

		v, _, err = kv.Get(ctx, "role")
		require.NoError(t, err)
		require.Equal(t, "STUDENT", v)
	})

	t.Run("get many skips absent keys", func(t *testing.T) {
		got, err := kv.GetMany(ctx, "token", "role", "profile")
		require.NoError(t, err)
		require.Equal(t, map[string]string{"token": "b", "role": "STUDENT"}, got)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, kv.Delete(ctx, "token", "role"))
		require.NoError(t, kv.Delete(ctx, "token", "role"))
		require.NoError(t, kv.Delete(ctx))

		_, ok, err := kv.Get(ctx, "role")
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestSurvivesReopen(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	path := filepath.Join(t.TempDir(), "session.db")

	first := newKV(t, sqlite.DSN(path))
	require.NoError(t, first.SetMany(ctx, map[string]string{"token": "persisted"}))
	require.NoError(t, first.Close())

	// Migrations must be a no-op the second time.
	second := newKV(t, sqlite.DSN(path))
	t.Cleanup(func() { _ = second.Close() })

	v, ok, err := second.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "persisted", v)
}
