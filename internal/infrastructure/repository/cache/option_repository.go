package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/getstandings/internal/domain/standings"
	basecache "github.com/riskibarqy/getstandings/internal/platform/cache"
)

const optionKeyPrefix = "option:"

type cachedOption struct {
	value  string
	exists bool
}

// OptionRepository is a read-through cache in front of another OptionStore.
// Writes go to the underlying store first and then invalidate the entry.
type OptionRepository struct {
	next  standings.OptionStore
	cache *basecache.Store[cachedOption]
}

func NewOptionRepository(next standings.OptionStore, ttl time.Duration) *OptionRepository {
	return &OptionRepository{next: next, cache: basecache.NewStore[cachedOption](ttl)}
}

func (r *OptionRepository) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, optionKeyPrefix+key, func(ctx context.Context) (cachedOption, error) {
		value, exists, err := r.next.Get(ctx, key)
		if err != nil {
			return cachedOption{}, err
		}
		return cachedOption{value: value, exists: exists}, nil
	})
	if err != nil {
		return "", false, err
	}
	return v.value, v.exists, nil
}

func (r *OptionRepository) Set(ctx context.Context, key, value string) error {
	if err := r.next.Set(ctx, key, value); err != nil {
		r.cache.Delete(ctx, optionKeyPrefix+key)
		return err
	}
	r.cache.Set(ctx, optionKeyPrefix+key, cachedOption{value: value, exists: true})
	return nil
}

func (r *OptionRepository) Delete(ctx context.Context, key string) error {
	err := r.next.Delete(ctx, key)
	r.cache.Delete(ctx, optionKeyPrefix+key)
	return err
}
