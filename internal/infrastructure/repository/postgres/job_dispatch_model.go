package postgres

import "time"

type jobDispatchInsertModel struct {
	DispatchID    string     `db:"dispatch_id"`
	JobName       string     `db:"job_name"`
	TaskID        string     `db:"task_id"`
	Trigger       string     `db:"trigger"`
	Payload       string     `db:"payload"`
	Status        string     `db:"status"`
	SentAt        *time.Time `db:"sent_at"`
	FinishedAt    *time.Time `db:"finished_at"`
	LastError     *string    `db:"last_error"`
	SentTraceID   *string    `db:"sent_trace_id"`
	SentSpanID    *string    `db:"sent_span_id"`
	FinishTraceID *string    `db:"finish_trace_id"`
	FinishSpanID  *string    `db:"finish_span_id"`
}
