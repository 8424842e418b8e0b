package jobscheduler

import "time"

type DispatchStatus string

const (
	StatusSent      DispatchStatus = "sent"
	StatusCompleted DispatchStatus = "completed"
	StatusFailed    DispatchStatus = "failed"
)

// Task is a recurring scheduler registration.
type Task struct {
	ID          string
	FirstFireAt time.Time
	Interval    time.Duration
	NextFireAt  time.Time
	UpdatedAt   time.Time
}

// Due reports whether the task should fire at now.
func (t Task) Due(now time.Time) bool {
	return !t.NextFireAt.IsZero() && !now.Before(t.NextFireAt)
}

// Advance moves NextFireAt past now by whole intervals so that fires missed
// while the process was down collapse into one.
func (t Task) Advance(now time.Time) Task {
	if t.Interval <= 0 {
		return t
	}
	next := t.NextFireAt
	if next.IsZero() {
		next = t.FirstFireAt
	}
	if !now.Before(next) {
		missed := now.Sub(next)/t.Interval + 1
		next = next.Add(missed * t.Interval)
	}
	t.NextFireAt = next
	return t
}

// DispatchEvent records one run of a scheduled job.
type DispatchEvent struct {
	DispatchID   string
	JobName      string
	TaskID       string
	Trigger      string
	Status       DispatchStatus
	Payload      map[string]any
	ErrorMessage string
	OccurredAt   time.Time
	TraceID      string
	SpanID       string
}
