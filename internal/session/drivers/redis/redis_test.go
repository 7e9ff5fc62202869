package redis_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/srots/portal/internal/session/drivers/redis"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, ttl time.Duration) (*redis.KV, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return redis.New(rdb, "srots:session:", ttl), mr
}

func TestKV(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	kv, mr := setup(t, 0)

	require.NoError(t, kv.SetMany(ctx, map[string]string{"token": "t1", "role": "CPH"}))
	require.True(t, mr.Exists("srots:session:token"))

	v, ok, err := kv.Get(ctx, "role")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "CPH", v)

	require.NoError(t, kv.Delete(ctx, "token", "role"))
	require.NoError(t, kv.Delete(ctx, "token", "role"))
	require.False(t, mr.Exists("srots:session:token"))
	require.False(t, mr.Exists("srots:session:role"))

	_, ok, err = kv.Get(ctx, "token")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKVExpiry(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	kv, mr := setup(t, time.Hour)

	require.NoError(t, kv.SetMany(ctx, map[string]string{"token": "t1"}))
	mr.FastForward(2 * time.Hour)

	_, ok, err := kv.Get(ctx, "token")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestKVGetMany(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	kv, _ := setup(t, 0)

	require.NoError(t, kv.SetMany(ctx, map[string]string{"token": "t1", "role": "CPH"}))

	got, err := kv.GetMany(ctx, "token", "role", "profile")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"token": "t1", "role": "CPH"}, got)
}

func TestKVProfileRewriteKeepsTokenAlive(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	kv, mr := setup(t, time.Hour)

	require.NoError(t, kv.SetMany(ctx, map[string]string{"token": "t1", "role": "STUDENT"}))
	mr.FastForward(50 * time.Minute)

	require.NoError(t, kv.SetMany(ctx, map[string]string{"role": "STUDENT", "premiumActive": "true"}))
	mr.FastForward(30 * time.Minute)

	v, ok, err := kv.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "t1", v)
}

func TestKVServerDown(t *testing.T) {
	t.Parallel()

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	_, _, err := redis.New(rdb, "", 0).Get(t.Context(), "token")
	require.Error(t, err)
}
