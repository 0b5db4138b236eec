package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smartattend/attendance-api/internal/models"
)

// WeekendConfigRepository persists the singleton weekend configuration.
// The table carries a unique guard column so that at most one row can ever
// win a concurrent lazy-create.
type WeekendConfigRepository struct {
	db *sqlx.DB
}

// NewWeekendConfigRepository constructs the repository.
func NewWeekendConfigRepository(db *sqlx.DB) *WeekendConfigRepository {
	return &WeekendConfigRepository{db: db}
}

// Get returns the current configuration row. sql.ErrNoRows when absent.
func (r *WeekendConfigRepository) Get(ctx context.Context) (*models.WeekendConfig, error) {
	const query = `SELECT id, weekend_days FROM weekend_config LIMIT 1`
	var cfg models.WeekendConfig
	if err := r.db.GetContext(ctx, &cfg, query); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Create inserts the singleton row. A unique violation means another caller
// created it first; callers should re-fetch on that error.
func (r *WeekendConfigRepository) Create(ctx context.Context, weekendDays string) (*models.WeekendConfig, error) {
	const query = `INSERT INTO weekend_config (id, singleton, weekend_days)
VALUES ($1, TRUE, $2)
RETURNING id, weekend_days`
	var cfg models.WeekendConfig
	if err := r.db.GetContext(ctx, &cfg, query, uuid.NewString(), weekendDays); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Update replaces the stored weekday set.
func (r *WeekendConfigRepository) Update(ctx context.Context, id, weekendDays string) error {
	const query = `UPDATE weekend_config SET weekend_days = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, weekendDays); err != nil {
		return fmt.Errorf("update weekend config: %w", err)
	}
	return nil
}
