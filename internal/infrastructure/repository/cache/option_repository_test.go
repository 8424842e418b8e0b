package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/getstandings/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	*memory.OptionRepository
	gets   int
	setErr error
}

func (s *countingStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.gets++
	return s.OptionRepository.Get(ctx, key)
}

func (s *countingStore) Set(ctx context.Context, key, value string) error {
	if s.setErr != nil {
		return s.setErr
	}
	return s.OptionRepository.Set(ctx, key, value)
}

func TestOptionRepository_CachesReads(t *testing.T) {
	ctx := context.Background()
	next := &countingStore{OptionRepository: memory.NewOptionRepository()}
	repo := NewOptionRepository(next, time.Minute)

	_, ok, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	_, _, _ = repo.Get(ctx, "k")
	assert.Equal(t, 1, next.gets, "missing keys are cached too")

	require.NoError(t, repo.Set(ctx, "k", "v"))
	got, ok, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", got)
	assert.Equal(t, 1, next.gets, "set refreshes the cached entry")

	require.NoError(t, repo.Delete(ctx, "k"))
	_, ok, err = repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, next.gets)
}

func TestOptionRepository_FailedSetInvalidates(t *testing.T) {
	ctx := context.Background()
	next := &countingStore{OptionRepository: memory.NewOptionRepository()}
	repo := NewOptionRepository(next, time.Minute)

	require.NoError(t, repo.Set(ctx, "k", "old"))
	next.setErr = errors.New("db down")

	assert.Error(t, repo.Set(ctx, "k", "new"))
	got, _, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "old", got)
	assert.Equal(t, 1, next.gets)
}
