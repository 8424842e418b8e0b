package postgres

import "time"

type scheduledTaskTableModel struct {
	TaskID          string     `db:"task_id"`
	FirstFireAt     time.Time  `db:"first_fire_at"`
	IntervalSeconds int64      `db:"interval_seconds"`
	NextFireAt      time.Time  `db:"next_fire_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

type scheduledTaskInsertModel struct {
	TaskID          string    `db:"task_id"`
	FirstFireAt     time.Time `db:"first_fire_at"`
	IntervalSeconds int64     `db:"interval_seconds"`
	NextFireAt      time.Time `db:"next_fire_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}
