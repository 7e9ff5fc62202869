// Package memory is an in-process session.KV for tests and throwaway runs.
package memory

import (
	"context"
	"maps"
	"sync"
)

type KV struct {
	mu   sync.RWMutex
	data map[string]string
}

func New() *KV {
	return &KV{data: make(map[string]string)}
}

func (k *KV) Get(_ context.Context, key string) (string, bool, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	v, ok := k.data[key]
	return v, ok, nil
}

func (k *KV) GetMany(_ context.Context, keys ...string) (map[string]string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	out := make(map[string]string, len(keys))
	for _, key := range keys {
		if v, ok := k.data[key]; ok {
			out[key] = v
		}
	}
	return out, nil
}

func (k *KV) SetMany(_ context.Context, entries map[string]string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	maps.Copy(k.data, entries)
	return nil
}

func (k *KV) Delete(_ context.Context, keys ...string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	for _, key := range keys {
		delete(k.data, key)
	}
	return nil
}

// Snapshot returns a copy of the current contents.
func (k *KV) Snapshot() map[string]string {
	k.mu.RLock()
	defer k.mu.RUnlock()

	return maps.Clone(k.data)
}
