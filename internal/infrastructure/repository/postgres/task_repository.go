package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/getstandings/internal/domain/jobscheduler"
	qb "github.com/riskibarqy/getstandings/internal/platform/querybuilder"
)

// TaskRepository persists scheduler registrations in scheduled_tasks.
type TaskRepository struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Get(ctx context.Context, taskID string) (jobscheduler.Task, bool, error) {
	query, args, err := qb.Select("*").From("scheduled_tasks").
		Where(
			qb.Eq("task_id", strings.TrimSpace(taskID)),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return jobscheduler.Task{}, false, fmt.Errorf("build get scheduled task query: %w", err)
	}

	var row scheduledTaskTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return jobscheduler.Task{}, false, nil
		}
		return jobscheduler.Task{}, false, fmt.Errorf("get scheduled task id=%s: %w", taskID, err)
	}

	return taskFromRow(row), true, nil
}

func (r *TaskRepository) List(ctx context.Context) ([]jobscheduler.Task, error) {
	query, args, err := qb.Select("*").From("scheduled_tasks").
		Where(qb.IsNull("deleted_at")).
		OrderBy("task_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scheduled tasks query: %w", err)
	}

	var rows []scheduledTaskTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scheduled tasks: %w", err)
	}

	out := make([]jobscheduler.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, taskFromRow(row))
	}
	return out, nil
}

func (r *TaskRepository) Upsert(ctx context.Context, task jobscheduler.Task) error {
	taskID := strings.TrimSpace(task.ID)
	if taskID == "" {
		return fmt.Errorf("task id is required")
	}

	updatedAt := task.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	model := scheduledTaskInsertModel{
		TaskID:          taskID,
		FirstFireAt:     task.FirstFireAt.UTC(),
		IntervalSeconds: intervalSeconds(task.Interval),
		NextFireAt:      task.NextFireAt.UTC(),
		UpdatedAt:       updatedAt,
	}

	query, args, err := qb.InsertModel("scheduled_tasks", model, `ON CONFLICT (task_id)
DO UPDATE SET
    first_fire_at = EXCLUDED.first_fire_at,
    interval_seconds = EXCLUDED.interval_seconds,
    next_fire_at = EXCLUDED.next_fire_at,
    updated_at = EXCLUDED.updated_at,
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert scheduled task query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert scheduled task id=%s: %w", taskID, err)
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, taskID string) error {
	query, args, err := qb.Update("scheduled_tasks").
		SetExpr("deleted_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("task_id", strings.TrimSpace(taskID)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete scheduled task query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete scheduled task id=%s: %w", taskID, err)
	}
	return nil
}

func taskFromRow(row scheduledTaskTableModel) jobscheduler.Task {
	return jobscheduler.Task{
		ID:          row.TaskID,
		FirstFireAt: row.FirstFireAt.UTC(),
		Interval:    secondsInterval(row.IntervalSeconds),
		NextFireAt:  row.NextFireAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
}
