package ports

import "context"

// Port: string key-value persistence used for per-user history and cached paths.
type KeyValueStore interface {
	// Return the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}
