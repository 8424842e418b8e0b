package postgres

import "time"

type optionTableModel struct {
	Key       string     `db:"option_key"`
	Value     string     `db:"option_value"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type optionInsertModel struct {
	Key   string `db:"option_key"`
	Value string `db:"option_value"`
}
