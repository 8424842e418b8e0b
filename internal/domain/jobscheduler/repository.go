package jobscheduler

import "context"

type Repository interface {
	UpsertEvent(ctx context.Context, event DispatchEvent) error
}

// TaskRepository persists scheduler registrations.
type TaskRepository interface {
	Get(ctx context.Context, taskID string) (Task, bool, error)
	Upsert(ctx context.Context, task Task) error
	Delete(ctx context.Context, taskID string) error
	List(ctx context.Context) ([]Task, error)
}
