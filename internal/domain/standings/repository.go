package standings

import "context"

// OptionStore is a persistent key-value store.
type OptionStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
