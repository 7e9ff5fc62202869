// Package redis is a session.KV for deployments that share one session
// between several portal processes.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/srots/portal/internal/session"
)

// Config mirrors the connection settings of the client configuration.
type Config struct {
	Addr        string
	Username    string
	Password    string
	DB          int
	Prefix      string
	TTL         time.Duration
	DialTimeout time.Duration
	Timeout     time.Duration
}

type KV struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// New wraps an existing client. Keys are stored as prefix+key; a zero ttl
// keeps them until deleted.
func New(rdb *redis.Client, prefix string, ttl time.Duration) *KV {
	return &KV{rdb: rdb, prefix: prefix, ttl: ttl}
}

// Dial connects and pings the server.
func Dial(ctx context.Context, cfg Config) (*KV, error) {
	const op = "redis.Dial"

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return New(rdb, cfg.Prefix, cfg.TTL), nil
}

func (k *KV) Close() error { return k.rdb.Close() }

func (k *KV) key(name string) string { return k.prefix + name }

func (k *KV) keys(names []string) []string {
	full := make([]string, len(names))
	for i, name := range names {
		full[i] = k.key(name)
	}
	return full
}

func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "redis.Get"

	v, err := k.rdb.Get(ctx, k.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return v, true, nil
}

// GetMany reads every key with a single MGET.
func (k *KV) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	const op = "redis.GetMany"

	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	vals, err := k.rdb.MGet(ctx, k.keys(keys)...).Result()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i, v := range vals {
		if s, ok := v.(string); ok {
			out[keys[i]] = s
		}
	}
	return out, nil
}

// SetMany writes all entries in one MULTI/EXEC block. With a TTL, the token
// expiry is pushed out too, so a profile rewrite never outlives the token.
func (k *KV) SetMany(ctx context.Context, entries map[string]string) error {
	const op = "redis.SetMany"

	_, err := k.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range entries {
			pipe.Set(ctx, k.key(key), value, k.ttl)
		}
		if _, ok := entries[session.KeyToken]; !ok && k.ttl > 0 {
			pipe.Expire(ctx, k.key(session.KeyToken), k.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete removes every key with a single DEL.
func (k *KV) Delete(ctx context.Context, keys ...string) error {
	const op = "redis.Delete"

	if len(keys) == 0 {
		return nil
	}

	if err := k.rdb.Del(ctx, k.keys(keys)...).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
