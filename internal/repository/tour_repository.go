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

// TourRepository persists tour requests.
type TourRepository struct {
	db *sqlx.DB
}

// NewTourRepository constructs the repository.
func NewTourRepository(db *sqlx.DB) *TourRepository {
	return &TourRepository{db: db}
}

// Create persists a new tour request at pending.
func (r *TourRepository) Create(ctx context.Context, req *models.TourRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO tour_requests
(id, employee_id, start_date, end_date, location, reason, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.EmployeeID, req.StartDate, req.EndDate, req.Location,
		req.Reason, req.Status, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("create tour request: %w", err)
	}
	return nil
}

// Get fetches one request by id. sql.ErrNoRows when absent.
func (r *TourRepository) Get(ctx context.Context, id string) (*models.TourRequest, error) {
	const query = `SELECT id, employee_id, start_date, end_date, location, reason, status, created_at
FROM tour_requests WHERE id = $1`
	var req models.TourRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		return nil, err
	}
	return &req, nil
}

// Decide moves a pending request to a terminal status. A zero row count
// means the request was missing or already decided.
func (r *TourRepository) Decide(ctx context.Context, id string, status models.RequestStatus) (int64, error) {
	const query = `UPDATE tour_requests SET status = $2 WHERE id = $1 AND status = $3`
	res, err := r.db.ExecContext(ctx, query, id, status, models.StatusPending)
	if err != nil {
		return 0, fmt.Errorf("decide tour request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("decide tour request rows: %w", err)
	}
	return affected, nil
}

// ListByEmployee returns the employee's own requests, newest first.
func (r *TourRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.TourRequest, error) {
	const query = `SELECT id, employee_id, start_date, end_date, location, reason, status, created_at
FROM tour_requests WHERE employee_id = $1
ORDER BY start_date DESC`
	var requests []models.TourRequest
	if err := r.db.SelectContext(ctx, &requests, query, employeeID); err != nil {
		return nil, fmt.Errorf("list tour requests: %w", err)
	}
	return requests, nil
}

// List returns tour requests for admin listings with allow-listed
// filtering and sorting.
func (r *TourRepository) List(ctx context.Context, filter dto.ListFilter) ([]models.TourRequest, int, error) {
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
		"location":   "location",
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

	query := fmt.Sprintf(`SELECT id, employee_id, start_date, end_date, location, reason, status, created_at
FROM tour_requests WHERE %s
ORDER BY %s %s
LIMIT %d OFFSET %d`, whereClause, sortColumn, order, size, offset)

	var requests []models.TourRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list tour requests: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM tour_requests WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count tour requests: %w", err)
	}
	return requests, total, nil
}
