package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartattend/attendance-api/internal/dto"
	"github.com/smartattend/attendance-api/internal/models"
	appErrors "github.com/smartattend/attendance-api/pkg/errors"
)

type leaveRepoStub struct {
	balances  map[string]*models.LeaveBalance
	requests  []models.LeaveRequest
	used      int
	pending   int
	createErr error

	decidedAffected int64
	decideErr       error
	getRequestResp  *models.LeaveRequest
}

func balanceKey(employeeID string, year int) string {
	return fmt.Sprintf("%s:%d", employeeID, year)
}

func (s *leaveRepoStub) GetBalance(ctx context.Context, employeeID string, year int) (*models.LeaveBalance, error) {
	if bal, ok := s.balances[balanceKey(employeeID, year)]; ok {
		return bal, nil
	}
	return nil, sql.ErrNoRows
}

func (s *leaveRepoStub) CreateBalance(ctx context.Context, bal *models.LeaveBalance) error {
	if s.createErr != nil {
		return s.createErr
	}
	if s.balances == nil {
		s.balances = map[string]*models.LeaveBalance{}
	}
	bal.ID = "balance-1"
	s.balances[balanceKey(bal.EmployeeID, bal.Year)] = bal
	return nil
}

func (s *leaveRepoStub) UpsertBalance(ctx context.Context, bal *models.LeaveBalance) (*models.LeaveBalance, error) {
	if s.balances == nil {
		s.balances = map[string]*models.LeaveBalance{}
	}
	bal.ID = "balance-1"
	s.balances[balanceKey(bal.EmployeeID, bal.Year)] = bal
	return bal, nil
}

func (s *leaveRepoStub) SumWorkingDays(ctx context.Context, employeeID string, year int) (int, int, error) {
	return s.used, s.pending, nil
}

func (s *leaveRepoStub) CreateRequest(ctx context.Context, req *models.LeaveRequest) error {
	req.ID = fmt.Sprintf("leave-%d", len(s.requests)+1)
	s.requests = append(s.requests, *req)
	return nil
}

func (s *leaveRepoStub) GetRequest(ctx context.Context, id string) (*models.LeaveRequest, error) {
	if s.getRequestResp != nil {
		return s.getRequestResp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *leaveRepoStub) DecideRequest(ctx context.Context, id string, status models.RequestStatus) (int64, error) {
	if s.decideErr != nil {
		return 0, s.decideErr
	}
	return s.decidedAffected, nil
}

func (s *leaveRepoStub) ListByEmployee(ctx context.Context, employeeID string) ([]models.LeaveRequest, error) {
	return s.requests, nil
}

func (s *leaveRepoStub) List(ctx context.Context, filter dto.ListFilter) ([]models.LeaveRequest, int, error) {
	return s.requests, len(s.requests), nil
}

type workdayStub struct {
	count int
	err   error
}

func (s workdayStub) CountWorkingDays(ctx context.Context, start, end time.Time) (int, error) {
	return s.count, s.err
}

func TestBalanceDefaultAllocation(t *testing.T) {
	repo := &leaveRepoStub{}
	svc := NewLeaveService(repo, workdayStub{}, 21, nil, nil)

	summary, err := svc.Balance(context.Background(), "emp-1", 2026)
	require.NoError(t, err)
	assert.Equal(t, 21, summary.Total)
	assert.Equal(t, 0, summary.Used)
	assert.Equal(t, 0, summary.Pending)
	assert.Equal(t, 21, summary.Available)
}

func TestBalanceSubtractsUsedAndPending(t *testing.T) {
	repo := &leaveRepoStub{used: 4, pending: 5}
	svc := NewLeaveService(repo, workdayStub{}, 21, nil, nil)

	summary, err := svc.Balance(context.Background(), "emp-1", 2026)
	require.NoError(t, err)
	assert.Equal(t, 12, summary.Available)
}

func TestBalanceNeverNegative(t *testing.T) {
	repo := &leaveRepoStub{
		balances: map[string]*models.LeaveBalance{
			balanceKey("emp-1", 2026): {ID: "balance-1", EmployeeID: "emp-1", Year: 2026, TotalLeaves: 3},
		},
		used: 5, pending: 2,
	}
	svc := NewLeaveService(repo, workdayStub{}, 21, nil, nil)

	summary, err := svc.Balance(context.Background(), "emp-1", 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Available)
}

func TestGetOrCreateBalanceRaceRecovered(t *testing.T) {
	repo := &leaveRepoStub{createErr: &pq.Error{Code: "23505"}}
	svc := NewLeaveService(repo, workdayStub{}, 21, nil, nil)

	// The losing insert re-fetches the winner's row.
	repo.balances = map[string]*models.LeaveBalance{
		balanceKey("emp-1", 2026): {ID: "balance-1", EmployeeID: "emp-1", Year: 2026, TotalLeaves: 30},
	}
	bal, err := svc.GetOrCreateBalance(context.Background(), "emp-2", 2026)
	require.Error(t, err) // emp-2 has no winner row; surfaces as internal

	bal, err = svc.GetOrCreateBalance(context.Background(), "emp-1", 2026)
	require.NoError(t, err)
	assert.Equal(t, 30, bal.TotalLeaves)
}

func TestApplyCreatesPendingRequest(t *testing.T) {
	repo := &leaveRepoStub{}
	svc := NewLeaveService(repo, workdayStub{count: 5}, 21, nil, nil)

	resp, err := svc.Apply(context.Background(), "emp-1", dto.ApplyLeaveRequest{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-06",
		Reason:    "family function",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.WorkingDays)
	require.Len(t, repo.requests, 1)
	stored := repo.requests[0]
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, models.LeaveTypePaid, stored.LeaveType)
	assert.Equal(t, 5, stored.WorkingDays)
}

func TestApplyFreezesWorkingDaySnapshot(t *testing.T) {
	repo := &leaveRepoStub{}
	workdays := &workdayStub{count: 5}
	svc := NewLeaveService(repo, workdays, 21, nil, nil)

	resp, err := svc.Apply(context.Background(), "emp-1", dto.ApplyLeaveRequest{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-06",
		Reason:    "family function",
	})
	require.NoError(t, err)
	require.Equal(t, 5, resp.WorkingDays)

	// A holiday registered inside the range after the fact shrinks what the
	// calculator would return today, but the stored count must not move.
	workdays.count = 4

	items, err := svc.ListMine(context.Background(), "emp-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].WorkingDays)
}

func TestApplyZeroWorkingDaysRejected(t *testing.T) {
	repo := &leaveRepoStub{}
	svc := NewLeaveService(repo, workdayStub{count: 0}, 21, nil, nil)

	_, err := svc.Apply(context.Background(), "emp-1", dto.ApplyLeaveRequest{
		StartDate: "2026-03-08",
		EndDate:   "2026-03-08",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoWorkingDays.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.requests)
}

func TestApplyInsufficientBalance(t *testing.T) {
	repo := &leaveRepoStub{used: 18, pending: 0}
	svc := NewLeaveService(repo, workdayStub{count: 5}, 21, nil, nil)

	_, err := svc.Apply(context.Background(), "emp-1", dto.ApplyLeaveRequest{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-06",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInsufficientBalance.Code, appErr.Code)
	require.NotNil(t, appErr.Details)
	summary, ok := appErr.Details.(*models.BalanceSummary)
	require.True(t, ok)
	assert.Equal(t, 3, summary.Available)
	assert.Empty(t, repo.requests)
}

func TestApplyUnpaidSkipsBalanceCheck(t *testing.T) {
	repo := &leaveRepoStub{used: 21}
	svc := NewLeaveService(repo, workdayStub{count: 5}, 21, nil, nil)

	resp, err := svc.Apply(context.Background(), "emp-1", dto.ApplyLeaveRequest{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-06",
		LeaveType: "unpaid",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.WorkingDays)
}

func TestApplyInvertedRangeRejected(t *testing.T) {
	repo := &leaveRepoStub{}
	svc := NewLeaveService(repo, workdayStub{count: 5}, 21, nil, nil)

	_, err := svc.Apply(context.Background(), "emp-1", dto.ApplyLeaveRequest{
		StartDate: "2026-03-06",
		EndDate:   "2026-03-02",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApplyBadLeaveType(t *testing.T) {
	svc := NewLeaveService(&leaveRepoStub{}, workdayStub{count: 5}, 21, nil, nil)

	_, err := svc.Apply(context.Background(), "emp-1", dto.ApplyLeaveRequest{
		StartDate: "2026-03-02",
		EndDate:   "2026-03-06",
		LeaveType: "sabbatical",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApplyAttributesBalanceToStartYear(t *testing.T) {
	// A request spanning new year draws on the start year's balance.
	repo := &leaveRepoStub{used: 20}
	svc := NewLeaveService(repo, workdayStub{count: 3}, 21, nil, nil)

	_, err := svc.Apply(context.Background(), "emp-1", dto.ApplyLeaveRequest{
		StartDate: "2026-12-30",
		EndDate:   "2027-01-02",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInsufficientBalance.Code, appErrors.FromError(err).Code)
	_, created := repo.balances[balanceKey("emp-1", 2026)]
	assert.True(t, created)
}

func TestDecideApproves(t *testing.T) {
	repo := &leaveRepoStub{decidedAffected: 1}
	svc := NewLeaveService(repo, workdayStub{}, 21, nil, nil)

	err := svc.Decide(context.Background(), "leave-1", dto.DecideRequest{Status: "approved"})
	require.NoError(t, err)
}

func TestDecideInvalidStatus(t *testing.T) {
	svc := NewLeaveService(&leaveRepoStub{}, workdayStub{}, 21, nil, nil)

	err := svc.Decide(context.Background(), "leave-1", dto.DecideRequest{Status: "pending"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDecideAlreadyDecided(t *testing.T) {
	repo := &leaveRepoStub{
		decidedAffected: 0,
		getRequestResp:  &models.LeaveRequest{ID: "leave-1", Status: models.StatusApproved},
	}
	svc := NewLeaveService(repo, workdayStub{}, 21, nil, nil)

	err := svc.Decide(context.Background(), "leave-1", dto.DecideRequest{Status: "rejected"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyDecided.Code, appErrors.FromError(err).Code)
}

func TestDecideUnknownRequest(t *testing.T) {
	repo := &leaveRepoStub{decidedAffected: 0}
	svc := NewLeaveService(repo, workdayStub{}, 21, nil, nil)

	err := svc.Decide(context.Background(), "missing", dto.DecideRequest{Status: "approved"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAdjustTotalUpserts(t *testing.T) {
	repo := &leaveRepoStub{}
	svc := NewLeaveService(repo, workdayStub{}, 21, nil, nil)

	bal, err := svc.AdjustTotal(context.Background(), "emp-1", dto.AdjustBalanceRequest{Year: 2026, TotalLeaves: 30})
	require.NoError(t, err)
	assert.Equal(t, 30, bal.TotalLeaves)

	summary, err := svc.Balance(context.Background(), "emp-1", 2026)
	require.NoError(t, err)
	assert.Equal(t, 30, summary.Total)
}

func TestAdjustTotalRejectsNegative(t *testing.T) {
	svc := NewLeaveService(&leaveRepoStub{}, workdayStub{}, 21, nil, nil)

	_, err := svc.AdjustTotal(context.Background(), "emp-1", dto.AdjustBalanceRequest{Year: 2026, TotalLeaves: -1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestListMineOmitsEmployeeID(t *testing.T) {
	repo := &leaveRepoStub{requests: []models.LeaveRequest{{
		ID:         "leave-1",
		EmployeeID: "emp-1",
		StartDate:  day(2026, 3, 2),
		EndDate:    day(2026, 3, 6),
		Status:     models.StatusPending,
		LeaveType:  models.LeaveTypePaid,
	}}}
	svc := NewLeaveService(repo, workdayStub{}, 21, nil, nil)

	items, err := svc.ListMine(context.Background(), "emp-1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Empty(t, items[0].EmployeeID)

	adminItems, _, err := svc.List(context.Background(), dto.ListFilter{})
	require.NoError(t, err)
	require.Len(t, adminItems, 1)
	assert.Equal(t, "emp-1", adminItems[0].EmployeeID)
}
