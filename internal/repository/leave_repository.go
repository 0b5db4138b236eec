package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smartattend/attendance-api/internal/dto"
	"github.com/smartattend/attendance-api/internal/models"
)

// LeaveRepository persists leave requests and leave balances. It is the only
// code path that reads leave request rows for balance aggregation and the
// only one that creates balance rows implicitly.
type LeaveRepository struct {
	db      *sqlx.DB
	observe QueryObserver
}

// NewLeaveRepository constructs the repository.
func NewLeaveRepository(db *sqlx.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// WithObserver installs a query timing observer and returns the repository.
func (r *LeaveRepository) WithObserver(observe QueryObserver) *LeaveRepository {
	r.observe = observe
	return r
}

func (r *LeaveRepository) observeSince(label string, start time.Time) {
	if r.observe != nil {
		r.observe(label, time.Since(start))
	}
}

// GetBalance fetches the allocation row for an employee-year.
// sql.ErrNoRows when absent.
func (r *LeaveRepository) GetBalance(ctx context.Context, employeeID string, year int) (*models.LeaveBalance, error) {
	defer r.observeSince("leave_get_balance", time.Now())
	const query = `SELECT id, employee_id, year, total_leaves FROM leave_balances
WHERE employee_id = $1 AND year = $2`
	var bal models.LeaveBalance
	if err := r.db.GetContext(ctx, &bal, query, employeeID, year); err != nil {
		return nil, err
	}
	return &bal, nil
}

// CreateBalance inserts an allocation row. The unique constraint on
// (employee_id, year) turns a concurrent first insert into a unique
// violation; callers recover by re-fetching.
func (r *LeaveRepository) CreateBalance(ctx context.Context, bal *models.LeaveBalance) error {
	if bal.ID == "" {
		bal.ID = uuid.NewString()
	}
	const query = `INSERT INTO leave_balances (id, employee_id, year, total_leaves)
VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, bal.ID, bal.EmployeeID, bal.Year, bal.TotalLeaves); err != nil {
		return err
	}
	return nil
}

// UpsertBalance sets total_leaves for an employee-year, inserting the row
// when absent. Used by the admin adjustment path.
func (r *LeaveRepository) UpsertBalance(ctx context.Context, bal *models.LeaveBalance) (*models.LeaveBalance, error) {
	if bal.ID == "" {
		bal.ID = uuid.NewString()
	}
	const query = `INSERT INTO leave_balances (id, employee_id, year, total_leaves)
VALUES ($1, $2, $3, $4)
ON CONFLICT (employee_id, year)
DO UPDATE SET total_leaves = EXCLUDED.total_leaves
RETURNING id, employee_id, year, total_leaves`
	var stored models.LeaveBalance
	if err := r.db.GetContext(ctx, &stored, query, bal.ID, bal.EmployeeID, bal.Year, bal.TotalLeaves); err != nil {
		return nil, fmt.Errorf("upsert leave balance: %w", err)
	}
	return &stored, nil
}

// SumWorkingDays aggregates frozen working-day counts of the employee's paid
// leaves, grouped by status, attributed to the year of each request's start
// date. Returns (approved, pending).
func (r *LeaveRepository) SumWorkingDays(ctx context.Context, employeeID string, year int) (int, int, error) {
	defer r.observeSince("leave_sum_working_days", time.Now())
	const query = `SELECT status, COALESCE(SUM(working_days), 0) AS days
FROM leave_requests
WHERE employee_id = $1
  AND leave_type = $2
  AND status IN ($3, $4)
  AND EXTRACT(YEAR FROM start_date) = $5
GROUP BY status`
	rows := []struct {
		Status string `db:"status"`
		Days   int    `db:"days"`
	}{}
	err := r.db.SelectContext(ctx, &rows, query,
		employeeID, models.LeaveTypePaid, models.StatusApproved, models.StatusPending, year)
	if err != nil {
		return 0, 0, fmt.Errorf("sum working days: %w", err)
	}
	var used, pending int
	for _, row := range rows {
		switch models.RequestStatus(row.Status) {
		case models.StatusApproved:
			used = row.Days
		case models.StatusPending:
			pending = row.Days
		}
	}
	return used, pending, nil
}

// CreateRequest persists a new leave request at pending.
func (r *LeaveRepository) CreateRequest(ctx context.Context, req *models.LeaveRequest) error {
	defer r.observeSince("leave_create_request", time.Now())
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO leave_requests
(id, employee_id, start_date, end_date, reason, leave_type, working_days, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.EmployeeID, req.StartDate, req.EndDate, req.Reason,
		req.LeaveType, req.WorkingDays, req.Status, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("create leave request: %w", err)
	}
	return nil
}

// GetRequest fetches one request by id. sql.ErrNoRows when absent.
func (r *LeaveRepository) GetRequest(ctx context.Context, id string) (*models.LeaveRequest, error) {
	const query = `SELECT id, employee_id, start_date, end_date, reason, leave_type, working_days, status, created_at
FROM leave_requests WHERE id = $1`
	var req models.LeaveRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// DecideRequest moves a pending request to a terminal status. The status
// guard in the WHERE clause makes the transition first-writer-wins; a zero
// row count means the request was missing or already decided.
func (r *LeaveRepository) DecideRequest(ctx context.Context, id string, status models.RequestStatus) (int64, error) {
	defer r.observeSince("leave_decide_request", time.Now())
	const query = `UPDATE leave_requests SET status = $2 WHERE id = $1 AND status = $3`
	res, err := r.db.ExecContext(ctx, query, id, status, models.StatusPending)
	if err != nil {
		return 0, fmt.Errorf("decide leave request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("decide leave request rows: %w", err)
	}
	return affected, nil
}

// ListByEmployee returns the employee's own requests, newest first.
func (r *LeaveRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.LeaveRequest, error) {
	const query = `SELECT id, employee_id, start_date, end_date, reason, leave_type, working_days, status, created_at
FROM leave_requests WHERE employee_id = $1
ORDER BY start_date DESC`
	var requests []models.LeaveRequest
	if err := r.db.SelectContext(ctx, &requests, query, employeeID); err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	return requests, nil
}

// List returns leave requests for admin listings with allow-listed
// filtering and sorting.
func (r *LeaveRepository) List(ctx context.Context, filter dto.ListFilter) ([]models.LeaveRequest, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.EmployeeID != "" {
		where = append(where, fmt.Sprintf("employee_id = $%d", len(args)+1))
		args = append(args, filter.EmployeeID)
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	whereClause := strings.Join(where, " AND ")

	allowedSort := map[string]string{
		"start_date": "start_date",
		"status":     "status",
		"created_at": "created_at",
	}
	sortColumn, ok := allowedSort[filter.SortBy]
	if !ok {
		sortColumn = "start_date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, employee_id, start_date, end_date, reason, leave_type, working_days, status, created_at
FROM leave_requests WHERE %s
ORDER BY %s %s
LIMIT %d OFFSET %d`, whereClause, sortColumn, order, size, offset)

	var requests []models.LeaveRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list leave requests: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM leave_requests WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count leave requests: %w", err)
	}
	return requests, total, nil
}
