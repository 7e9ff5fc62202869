package session

import "context"

// KV is the durable map behind a Store. Drivers live under drivers/.
type KV interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// GetMany returns the present keys from one consistent snapshot. Absent
	// keys are missing from the result.
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)

	// SetMany writes every entry so that readers see all of them or none.
	SetMany(ctx context.Context, entries map[string]string) error

	// Delete removes keys in one step. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
