package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/getstandings/internal/domain/jobscheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client, err := Open(context.Background(), Config{Addr: srv.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, srv
}

func TestOptionRepository(t *testing.T) {
	client, srv := newTestClient(t)
	repo := NewOptionRepository(client, "test")
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "standings")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "standings", `{"query":null}`))
	assert.True(t, srv.Exists("test:option:standings"))

	got, ok, err := repo.Get(ctx, "standings")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"query":null}`, got)

	require.NoError(t, repo.Delete(ctx, "standings"))
	_, ok, err = repo.Get(ctx, "standings")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Error(t, repo.Set(ctx, "", "v"))
}

func TestTaskRepository(t *testing.T) {
	client, _ := newTestClient(t)
	repo := NewTaskRepository(client, "")
	ctx := context.Background()
	at := time.Date(2026, 3, 1, 10, 0, 15, 0, time.UTC)

	require.NoError(t, repo.Upsert(ctx, jobscheduler.Task{ID: "b", FirstFireAt: at, NextFireAt: at, Interval: time.Hour}))
	require.NoError(t, repo.Upsert(ctx, jobscheduler.Task{ID: "a", FirstFireAt: at, NextFireAt: at.Add(time.Hour), Interval: time.Hour}))

	task, ok, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Hour, task.Interval)
	assert.True(t, task.NextFireAt.Equal(at.Add(time.Hour)))

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a", tasks[0].ID)

	require.NoError(t, repo.Delete(ctx, "a"))
	_, ok, err = repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOpen_Unreachable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := Open(context.Background(), Config{Addr: addr})
	assert.Error(t, err)

	_, err = Open(context.Background(), Config{Addr: " "})
	assert.Error(t, err)
}
