package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smartattend/attendance-api/internal/models"
)

// AttendanceRepository persists check-in/check-out records, one row per
// employee per office-local day (unique on employee_id + date).
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// GetByEmployeeAndDate fetches the record for one day. sql.ErrNoRows when absent.
func (r *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*models.Attendance, error) {
	const query = `SELECT id, employee_id, date, check_in_time, check_out_time
FROM attendance WHERE employee_id = $1 AND date = $2`
	var rec models.Attendance
	if err := r.db.GetContext(ctx, &rec, query, employeeID, date); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateCheckIn inserts a new record with its check-in time. A unique
// violation means a concurrent check-in won; callers re-fetch.
func (r *AttendanceRepository) CreateCheckIn(ctx context.Context, rec *models.Attendance) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	const query = `INSERT INTO attendance (id, employee_id, date, check_in_time)
VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, rec.ID, rec.EmployeeID, rec.Date, rec.CheckInTime); err != nil {
		return err
	}
	return nil
}

// SetCheckOut records the check-out time on an existing record.
func (r *AttendanceRepository) SetCheckOut(ctx context.Context, id string, t time.Time) error {
	const query = `UPDATE attendance SET check_out_time = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, t); err != nil {
		return fmt.Errorf("set check-out: %w", err)
	}
	return nil
}

// ListByEmployee returns the employee's attendance history, newest first.
func (r *AttendanceRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.Attendance, error) {
	const query = `SELECT id, employee_id, date, check_in_time, check_out_time
FROM attendance WHERE employee_id = $1
ORDER BY date DESC`
	var records []models.Attendance
	if err := r.db.SelectContext(ctx, &records, query, employeeID); err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// ListForDate returns every record for one office-local day.
func (r *AttendanceRepository) ListForDate(ctx context.Context, date time.Time) ([]models.Attendance, error) {
	const query = `SELECT id, employee_id, date, check_in_time, check_out_time
FROM attendance WHERE date = $1`
	var records []models.Attendance
	if err := r.db.SelectContext(ctx, &records, query, date); err != nil {
		return nil, fmt.Errorf("list attendance for date: %w", err)
	}
	return records, nil
}
