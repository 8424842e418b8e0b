package memory

import (
	"context"
	"sync"
)

type OptionRepository struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewOptionRepository() *OptionRepository {
	return &OptionRepository{items: make(map[string]string)}
}

func (r *OptionRepository) Get(_ context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.items[key]
	return value, ok, nil
}

func (r *OptionRepository) Set(_ context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[key] = value
	return nil
}

func (r *OptionRepository) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, key)
	return nil
}
