package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/smartattend/attendance-api/internal/dto"
	"github.com/smartattend/attendance-api/internal/models"
)

// EmployeeRepository reads the employee roster. Rows are owned by the
// external identity system; this service never writes them.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs the repository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// GetByID fetches one employee. sql.ErrNoRows when absent.
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	const query = `SELECT id, name, email, role, created_at FROM employees WHERE id = $1`
	var emp models.Employee
	if err := r.db.GetContext(ctx, &emp, query, id); err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListStaff returns every non-admin employee ordered by name. Used by the
// daily report.
func (r *EmployeeRepository) ListStaff(ctx context.Context) ([]models.Employee, error) {
	const query = `SELECT id, name, email, role, created_at FROM employees
WHERE role <> $1 ORDER BY name ASC`
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, models.RoleAdmin); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return employees, nil
}

// List returns employees for admin listings with allow-listed filtering
// and sorting.
func (r *EmployeeRepository) List(ctx context.Context, filter dto.ListFilter) ([]models.Employee, int, error) {
	where := []string{"role = $1"}
	args := []interface{}{models.RoleEmployee}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	whereClause := strings.Join(where, " AND ")

	allowedSort := map[string]string{
		"name":       "name",
		"email":      "email",
		"created_at": "created_at",
	}
	sortColumn, ok := allowedSort[filter.SortBy]
	if !ok {
		sortColumn = "name"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
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

	query := fmt.Sprintf(`SELECT id, name, email, role, created_at FROM employees
WHERE %s
ORDER BY %s %s
LIMIT %d OFFSET %d`, whereClause, sortColumn, order, size, offset)

	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM employees WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}
	return employees, total, nil
}
