package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/getstandings/internal/domain/jobscheduler"
	qb "github.com/riskibarqy/getstandings/internal/platform/querybuilder"
)

// JobDispatchRepository keeps one row per refresh run in job_dispatches.
type JobDispatchRepository struct {
	db *sqlx.DB
}

func NewJobDispatchRepository(db *sqlx.DB) *JobDispatchRepository {
	return &JobDispatchRepository{db: db}
}

func (r *JobDispatchRepository) UpsertEvent(ctx context.Context, event jobscheduler.DispatchEvent) error {
	model, err := newJobDispatchInsertModel(event)
	if err != nil {
		return err
	}

	query, args, err := qb.InsertModel("job_dispatches", model, `ON CONFLICT (dispatch_id)
DO UPDATE SET
    job_name = EXCLUDED.job_name,
    task_id = EXCLUDED.task_id,
    trigger = EXCLUDED.trigger,
    payload = EXCLUDED.payload,
    status = EXCLUDED.status,
    sent_at = COALESCE(job_dispatches.sent_at, EXCLUDED.sent_at),
    finished_at = CASE
        WHEN EXCLUDED.status = 'sent' THEN job_dispatches.finished_at
        ELSE EXCLUDED.finished_at
    END,
    last_error = CASE
        WHEN EXCLUDED.status = 'failed' THEN EXCLUDED.last_error
        ELSE NULL
    END,
    sent_trace_id = COALESCE(job_dispatches.sent_trace_id, EXCLUDED.sent_trace_id),
    sent_span_id = COALESCE(job_dispatches.sent_span_id, EXCLUDED.sent_span_id),
    finish_trace_id = CASE
        WHEN EXCLUDED.status = 'sent' THEN job_dispatches.finish_trace_id
        ELSE EXCLUDED.finish_trace_id
    END,
    finish_span_id = CASE
        WHEN EXCLUDED.status = 'sent' THEN job_dispatches.finish_span_id
        ELSE EXCLUDED.finish_span_id
    END,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert job dispatch query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert job dispatch dispatch_id=%s status=%s: %w", model.DispatchID, event.Status, err)
	}
	return nil
}

func newJobDispatchInsertModel(event jobscheduler.DispatchEvent) (jobDispatchInsertModel, error) {
	dispatchID := strings.TrimSpace(event.DispatchID)
	if dispatchID == "" {
		return jobDispatchInsertModel{}, fmt.Errorf("dispatch id is required")
	}

	payload, err := marshalPayload(event.Payload)
	if err != nil {
		return jobDispatchInsertModel{}, fmt.Errorf("marshal job dispatch payload: %w", err)
	}

	occurredAt := event.OccurredAt.UTC()
	if event.OccurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	model := jobDispatchInsertModel{
		DispatchID: dispatchID,
		JobName:    defaultString(event.JobName, "unknown"),
		TaskID:     defaultString(event.TaskID, "unknown"),
		Trigger:    defaultString(event.Trigger, "scheduler"),
		Payload:    payload,
		Status:     string(event.Status),
	}

	switch event.Status {
	case jobscheduler.StatusSent:
		model.SentAt = &occurredAt
		model.SentTraceID = optionalString(event.TraceID)
		model.SentSpanID = optionalString(event.SpanID)
	case jobscheduler.StatusFailed:
		model.LastError = optionalString(event.ErrorMessage)
		fallthrough
	case jobscheduler.StatusCompleted:
		model.FinishedAt = &occurredAt
		model.FinishTraceID = optionalString(event.TraceID)
		model.FinishSpanID = optionalString(event.SpanID)
	default:
		return jobDispatchInsertModel{}, fmt.Errorf("unknown dispatch status %q", event.Status)
	}

	return model, nil
}

func defaultString(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

func marshalPayload(payload map[string]any) (string, error) {
	if len(payload) == 0 {
		return "{}", nil
	}
	return sonic.MarshalString(payload)
}
