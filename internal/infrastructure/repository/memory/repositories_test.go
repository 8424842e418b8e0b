package memory

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/getstandings/internal/domain/jobscheduler"
)

func TestOptionRepository_GetSetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewOptionRepository()

	if _, ok, err := repo.Get(ctx, "k"); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}
	if err := repo.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, "k", "v2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := repo.Get(ctx, "k")
	if err != nil || !ok || got != "v2" {
		t.Fatalf("unexpected get: value=%q ok=%v err=%v", got, ok, err)
	}
	if err := repo.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "k"); ok {
		t.Fatalf("expected key removed")
	}
}

func TestTaskRepository_ListSorted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewTaskRepository()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for _, id := range []string{"b", "a", "c"} {
		if err := repo.Upsert(ctx, jobscheduler.Task{ID: id, NextFireAt: now, Interval: time.Hour}); err != nil {
			t.Fatalf("upsert %s: %v", id, err)
		}
	}
	if err := repo.Delete(ctx, "c"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	tasks, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "a" || tasks[1].ID != "b" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
}

func TestJobDispatchRepository_UpsertKeepsLatestStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewJobDispatchRepository()

	if err := repo.UpsertEvent(ctx, jobscheduler.DispatchEvent{}); err == nil {
		t.Fatalf("expected error for empty dispatch id")
	}

	_ = repo.UpsertEvent(ctx, jobscheduler.DispatchEvent{DispatchID: "d1", Status: jobscheduler.StatusSent})
	_ = repo.UpsertEvent(ctx, jobscheduler.DispatchEvent{DispatchID: "d2", Status: jobscheduler.StatusSent})
	_ = repo.UpsertEvent(ctx, jobscheduler.DispatchEvent{DispatchID: "d1", Status: jobscheduler.StatusFailed})

	events := repo.List()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].DispatchID != "d1" || events[0].Status != jobscheduler.StatusFailed {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
}
