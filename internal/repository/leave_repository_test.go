package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartattend/attendance-api/internal/dto"
	"github.com/smartattend/attendance-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func TestLeaveRepositoryGetBalance(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	rows := sqlmock.NewRows([]string{"id", "employee_id", "year", "total_leaves"}).
		AddRow("balance-1", "emp-1", 2026, 21)
	mock.ExpectQuery("SELECT id, employee_id, year, total_leaves FROM leave_balances").
		WithArgs("emp-1", 2026).
		WillReturnRows(rows)

	bal, err := repo.GetBalance(context.Background(), "emp-1", 2026)
	require.NoError(t, err)
	assert.Equal(t, 21, bal.TotalLeaves)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryObservesQueryTiming(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	var labels []string
	repo := NewLeaveRepository(db).WithObserver(func(label string, duration time.Duration) {
		labels = append(labels, label)
	})

	rows := sqlmock.NewRows([]string{"id", "employee_id", "year", "total_leaves"}).
		AddRow("balance-1", "emp-1", 2026, 21)
	mock.ExpectQuery("SELECT id, employee_id, year, total_leaves FROM leave_balances").
		WithArgs("emp-1", 2026).
		WillReturnRows(rows)

	_, err := repo.GetBalance(context.Background(), "emp-1", 2026)
	require.NoError(t, err)
	assert.Equal(t, []string{"leave_get_balance"}, labels)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryUpsertBalance(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	rows := sqlmock.NewRows([]string{"id", "employee_id", "year", "total_leaves"}).
		AddRow("balance-1", "emp-1", 2026, 30)
	mock.ExpectQuery("INSERT INTO leave_balances").
		WithArgs(sqlmock.AnyArg(), "emp-1", 2026, 30).
		WillReturnRows(rows)

	stored, err := repo.UpsertBalance(context.Background(), &models.LeaveBalance{
		EmployeeID: "emp-1", Year: 2026, TotalLeaves: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, stored.TotalLeaves)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositorySumWorkingDays(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	rows := sqlmock.NewRows([]string{"status", "days"}).
		AddRow("approved", 4).
		AddRow("pending", 5)
	mock.ExpectQuery("SELECT status, COALESCE").
		WithArgs("emp-1", "paid", "approved", "pending", 2026).
		WillReturnRows(rows)

	used, pending, err := repo.SumWorkingDays(context.Background(), "emp-1", 2026)
	require.NoError(t, err)
	assert.Equal(t, 4, used)
	assert.Equal(t, 5, pending)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryCreateRequest(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	mock.ExpectExec("INSERT INTO leave_requests").
		WithArgs(sqlmock.AnyArg(), "emp-1", sqlmock.AnyArg(), sqlmock.AnyArg(),
			"family function", "paid", 5, "pending", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := &models.LeaveRequest{
		EmployeeID:  "emp-1",
		StartDate:   time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
		Reason:      "family function",
		LeaveType:   models.LeaveTypePaid,
		WorkingDays: 5,
		Status:      models.StatusPending,
	}
	require.NoError(t, repo.CreateRequest(context.Background(), req))
	assert.NotEmpty(t, req.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryDecideRequestGuarded(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	mock.ExpectExec("UPDATE leave_requests SET status").
		WithArgs("leave-1", "approved", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.DecideRequest(context.Background(), "leave-1", models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryDecideRequestAlreadyDecided(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	mock.ExpectExec("UPDATE leave_requests SET status").
		WithArgs("leave-1", "rejected", "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.DecideRequest(context.Background(), "leave-1", models.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveRepositoryListFiltersAndCounts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLeaveRepository(db)

	rows := sqlmock.NewRows([]string{"id", "employee_id", "start_date", "end_date", "reason", "leave_type", "working_days", "status", "created_at"}).
		AddRow("leave-1", "emp-1",
			time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
			"family function", "paid", 5, "pending", time.Now())
	mock.ExpectQuery("SELECT id, employee_id, start_date").
		WithArgs("emp-1", "pending").
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("emp-1", "pending").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	requests, total, err := repo.List(context.Background(), dto.ListFilter{
		EmployeeID: "emp-1",
		Status:     "pending",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, requests, 1)
	assert.Equal(t, 5, requests[0].WorkingDays)
	require.NoError(t, mock.ExpectationsWereMet())
}
