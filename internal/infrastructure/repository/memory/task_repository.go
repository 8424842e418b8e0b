package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/getstandings/internal/domain/jobscheduler"
)

type TaskRepository struct {
	mu    sync.RWMutex
	items map[string]jobscheduler.Task
}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{items: make(map[string]jobscheduler.Task)}
}

func (r *TaskRepository) Get(_ context.Context, taskID string) (jobscheduler.Task, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.items[taskID]
	return task, ok, nil
}

func (r *TaskRepository) Upsert(_ context.Context, task jobscheduler.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[task.ID] = task
	return nil
}

func (r *TaskRepository) Delete(_ context.Context, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, taskID)
	return nil
}

func (r *TaskRepository) List(_ context.Context) ([]jobscheduler.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]jobscheduler.Task, 0, len(r.items))
	for _, task := range r.items {
		out = append(out, task)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
