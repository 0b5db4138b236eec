package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smartattend/attendance-api/internal/models"
)

// HolidayRepository persists gazetted and restricted holidays.
type HolidayRepository struct {
	db *sqlx.DB
}

// NewHolidayRepository constructs the repository.
func NewHolidayRepository(db *sqlx.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// ListByYear returns the holidays whose date falls in the given year,
// ordered by date.
func (r *HolidayRepository) ListByYear(ctx context.Context, year int) ([]models.Holiday, error) {
	const query = `SELECT id, date, name, holiday_type FROM holidays
WHERE EXTRACT(YEAR FROM date) = $1
ORDER BY date ASC`
	var holidays []models.Holiday
	if err := r.db.SelectContext(ctx, &holidays, query, year); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}

// ExistsOnDate reports whether a holiday row already occupies the date.
func (r *HolidayRepository) ExistsOnDate(ctx context.Context, date time.Time) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM holidays WHERE date = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, date); err != nil {
		return false, fmt.Errorf("check holiday date: %w", err)
	}
	return exists, nil
}

// Create inserts a holiday. The unique constraint on date surfaces
// concurrent duplicates as a unique violation.
func (r *HolidayRepository) Create(ctx context.Context, holiday *models.Holiday) error {
	if holiday.ID == "" {
		holiday.ID = uuid.NewString()
	}
	const query = `INSERT INTO holidays (id, date, name, holiday_type)
VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, holiday.ID, holiday.Date, holiday.Name, holiday.Type); err != nil {
		return err
	}
	return nil
}

// Delete removes a holiday by id. Returns the number of rows removed.
func (r *HolidayRepository) Delete(ctx context.Context, id string) (int64, error) {
	const query = `DELETE FROM holidays WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("delete holiday: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete holiday rows: %w", err)
	}
	return affected, nil
}
