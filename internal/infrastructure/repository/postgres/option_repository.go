package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	qb "github.com/riskibarqy/getstandings/internal/platform/querybuilder"
)

// OptionRepository stores named string values in the options table.
type OptionRepository struct {
	db *sqlx.DB
}

func NewOptionRepository(db *sqlx.DB) *OptionRepository {
	return &OptionRepository{db: db}
}

func (r *OptionRepository) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := qb.Select("*").From("options").
		Where(
			qb.Eq("option_key", strings.TrimSpace(key)),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return "", false, fmt.Errorf("build get option query: %w", err)
	}

	var row optionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get option key=%s: %w", key, err)
	}

	return row.Value, true, nil
}

func (r *OptionRepository) Set(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("option key is required")
	}

	query, args, err := qb.InsertModel("options", optionInsertModel{Key: key, Value: value}, `ON CONFLICT (option_key)
DO UPDATE SET
    option_value = EXCLUDED.option_value,
    updated_at = NOW(),
    deleted_at = NULL`)
	if err != nil {
		return fmt.Errorf("build upsert option query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert option key=%s: %w", key, err)
	}
	return nil
}

func (r *OptionRepository) Delete(ctx context.Context, key string) error {
	query, args, err := qb.Update("options").
		SetExpr("deleted_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("option_key", strings.TrimSpace(key)),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete option query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete option key=%s: %w", key, err)
	}
	return nil
}
