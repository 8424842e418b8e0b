package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// OptionRepository stores options as plain string keys.
type OptionRepository struct {
	client *redis.Client
	prefix string
}

func NewOptionRepository(client *redis.Client, keyPrefix string) *OptionRepository {
	return &OptionRepository{client: client, prefix: normalizePrefix(keyPrefix) + "option:"}
}

func (r *OptionRepository) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get option key=%s: %w", key, err)
	}
	return value, true, nil
}

func (r *OptionRepository) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("option key is required")
	}
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set option key=%s: %w", key, err)
	}
	return nil
}

func (r *OptionRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete option key=%s: %w", key, err)
	}
	return nil
}
