package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/getstandings/internal/domain/jobscheduler"
)

type taskRecord struct {
	ID              string    `json:"id"`
	FirstFireAt     time.Time `json:"first_fire_at"`
	IntervalSeconds int64     `json:"interval_seconds"`
	NextFireAt      time.Time `json:"next_fire_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TaskRepository keeps all scheduler registrations in a single hash keyed by
// task id.
type TaskRepository struct {
	client *redis.Client
	key    string
}

func NewTaskRepository(client *redis.Client, keyPrefix string) *TaskRepository {
	return &TaskRepository{client: client, key: normalizePrefix(keyPrefix) + "scheduled_tasks"}
}

func (r *TaskRepository) Get(ctx context.Context, taskID string) (jobscheduler.Task, bool, error) {
	raw, err := r.client.HGet(ctx, r.key, strings.TrimSpace(taskID)).Result()
	if errors.Is(err, redis.Nil) {
		return jobscheduler.Task{}, false, nil
	}
	if err != nil {
		return jobscheduler.Task{}, false, fmt.Errorf("redis get task id=%s: %w", taskID, err)
	}

	task, err := decodeTask(raw)
	if err != nil {
		return jobscheduler.Task{}, false, fmt.Errorf("decode task id=%s: %w", taskID, err)
	}
	return task, true, nil
}

func (r *TaskRepository) Upsert(ctx context.Context, task jobscheduler.Task) error {
	task.ID = strings.TrimSpace(task.ID)
	if task.ID == "" {
		return fmt.Errorf("task id is required")
	}

	raw, err := sonic.MarshalString(taskRecord{
		ID:              task.ID,
		FirstFireAt:     task.FirstFireAt.UTC(),
		IntervalSeconds: int64(task.Interval / time.Second),
		NextFireAt:      task.NextFireAt.UTC(),
		UpdatedAt:       task.UpdatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode task id=%s: %w", task.ID, err)
	}

	if err := r.client.HSet(ctx, r.key, task.ID, raw).Err(); err != nil {
		return fmt.Errorf("redis upsert task id=%s: %w", task.ID, err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, taskID string) error {
	if err := r.client.HDel(ctx, r.key, strings.TrimSpace(taskID)).Err(); err != nil {
		return fmt.Errorf("redis delete task id=%s: %w", taskID, err)
	}
	return nil
}

func (r *TaskRepository) List(ctx context.Context) ([]jobscheduler.Task, error) {
	entries, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis list tasks: %w", err)
	}

	out := make([]jobscheduler.Task, 0, len(entries))
	for id, raw := range entries {
		task, err := decodeTask(raw)
		if err != nil {
			return nil, fmt.Errorf("decode task id=%s: %w", id, err)
		}
		out = append(out, task)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func decodeTask(raw string) (jobscheduler.Task, error) {
	var rec taskRecord
	if err := sonic.UnmarshalString(raw, &rec); err != nil {
		return jobscheduler.Task{}, err
	}
	return jobscheduler.Task{
		ID:          rec.ID,
		FirstFireAt: rec.FirstFireAt,
		Interval:    time.Duration(rec.IntervalSeconds) * time.Second,
		NextFireAt:  rec.NextFireAt,
		UpdatedAt:   rec.UpdatedAt,
	}, nil
}
