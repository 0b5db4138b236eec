package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/smartattend/attendance-api/internal/dto"
	"github.com/smartattend/attendance-api/internal/models"
	"github.com/smartattend/attendance-api/internal/repository"
	appErrors "github.com/smartattend/attendance-api/pkg/errors"
)

type leaveRepository interface {
	GetBalance(ctx context.Context, employeeID string, year int) (*models.LeaveBalance, error)
	CreateBalance(ctx context.Context, bal *models.LeaveBalance) error
	UpsertBalance(ctx context.Context, bal *models.LeaveBalance) (*models.LeaveBalance, error)
	SumWorkingDays(ctx context.Context, employeeID string, year int) (int, int, error)
	CreateRequest(ctx context.Context, req *models.LeaveRequest) error
	GetRequest(ctx context.Context, id string) (*models.LeaveRequest, error)
	DecideRequest(ctx context.Context, id string, status models.RequestStatus) (int64, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]models.LeaveRequest, error)
	List(ctx context.Context, filter dto.ListFilter) ([]models.LeaveRequest, int, error)
}

type workdayCounter interface {
	CountWorkingDays(ctx context.Context, start, end time.Time) (int, error)
}

// LeaveService is the leave ledger and request lifecycle. It derives
// used/pending/available balances from persisted requests on every call;
// nothing is cached, so a check always reflects the latest committed
// decisions.
type LeaveService struct {
	repo      leaveRepository
	workdays  workdayCounter
	annual    int
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLeaveService constructs the service. annualDefault is the paid leave
// allocation granted to a fresh employee-year.
func NewLeaveService(repo leaveRepository, workdays workdayCounter, annualDefault int, validate *validator.Validate, logger *zap.Logger) *LeaveService {
	if annualDefault <= 0 {
		annualDefault = 21
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaveService{repo: repo, workdays: workdays, annual: annualDefault, validator: validate, logger: logger}
}

// GetOrCreateBalance returns the allocation row for an employee-year,
// inserting the default on first access. The store's uniqueness constraint on
// (employee_id, year) guards concurrent first accesses; a lost insert race is
// recovered by re-fetching.
func (s *LeaveService) GetOrCreateBalance(ctx context.Context, employeeID string, year int) (*models.LeaveBalance, error) {
	bal, err := s.repo.GetBalance(ctx, employeeID, year)
	if err == nil {
		return bal, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave balance")
	}

	fresh := &models.LeaveBalance{EmployeeID: employeeID, Year: year, TotalLeaves: s.annual}
	createErr := s.repo.CreateBalance(ctx, fresh)
	if createErr == nil {
		return fresh, nil
	}
	if repository.IsUniqueViolation(createErr) {
		bal, err = s.repo.GetBalance(ctx, employeeID, year)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload leave balance")
		}
		return bal, nil
	}
	return nil, appErrors.Wrap(createErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leave balance")
}

// Balance computes the employee-year balance summary. A leave spanning a
// year boundary is attributed entirely to its start year. Available is
// clamped at zero even when an admin has reduced total below what is already
// used or pending.
func (s *LeaveService) Balance(ctx context.Context, employeeID string, year int) (*models.BalanceSummary, error) {
	bal, err := s.GetOrCreateBalance(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}
	used, pending, err := s.repo.SumWorkingDays(ctx, employeeID, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate leave usage")
	}
	available := bal.TotalLeaves - used - pending
	if available < 0 {
		available = 0
	}
	return &models.BalanceSummary{
		Year:      year,
		Total:     bal.TotalLeaves,
		Used:      used,
		Pending:   pending,
		Available: available,
	}, nil
}

// AdjustTotal sets the annual allocation for an employee-year, creating the
// row when absent. Existing requests are not re-validated against the new
// total; any resulting over-commitment shows up in the balance view.
func (s *LeaveService) AdjustTotal(ctx context.Context, employeeID string, req dto.AdjustBalanceRequest) (*models.LeaveBalance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid balance payload")
	}
	bal := &models.LeaveBalance{EmployeeID: employeeID, Year: req.Year, TotalLeaves: req.TotalLeaves}
	stored, err := s.repo.UpsertBalance(ctx, bal)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to adjust leave balance")
	}
	s.logger.Sugar().Infow("leave balance adjusted",
		"employee_id", employeeID, "year", req.Year, "total_leaves", req.TotalLeaves)
	return stored, nil
}

// Apply validates and persists a leave application at pending. The working
// day count is computed once from the current calendar state and frozen on
// the row. Paid leaves are checked against the available balance before
// insertion; the check is advisory and is not re-run at decision time.
func (s *LeaveService) Apply(ctx context.Context, employeeID string, req dto.ApplyLeaveRequest) (*dto.ApplyLeaveResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid leave payload")
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must use YYYY-MM-DD")
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must use YYYY-MM-DD")
	}
	if start.After(end) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "start_date must be on or before end_date")
	}

	leaveType := models.LeaveTypePaid
	if req.LeaveType != "" {
		leaveType = models.LeaveType(req.LeaveType)
		if !leaveType.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "leave_type must be paid or unpaid")
		}
	}

	workingDays, err := s.workdays.CountWorkingDays(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if workingDays == 0 {
		return nil, appErrors.Clone(appErrors.ErrNoWorkingDays, "selected dates contain no working days (only weekends / holidays)")
	}

	if leaveType == models.LeaveTypePaid {
		balance, err := s.Balance(ctx, employeeID, start.Year())
		if err != nil {
			return nil, err
		}
		if workingDays > balance.Available {
			rejection := appErrors.Clone(appErrors.ErrInsufficientBalance,
				fmt.Sprintf("insufficient paid leave balance: requested %d day(s), available %d day(s)", workingDays, balance.Available))
			return nil, appErrors.WithDetails(rejection, balance)
		}
	}

	request := &models.LeaveRequest{
		EmployeeID:  employeeID,
		StartDate:   start,
		EndDate:     end,
		Reason:      req.Reason,
		LeaveType:   leaveType,
		WorkingDays: workingDays,
		Status:      models.StatusPending,
	}
	if err := s.repo.CreateRequest(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create leave request")
	}
	s.logger.Sugar().Infow("leave applied",
		"employee_id", employeeID, "leave_id", request.ID, "working_days", workingDays, "leave_type", leaveType)
	return &dto.ApplyLeaveResponse{ID: request.ID, WorkingDays: workingDays}, nil
}

// Decide transitions a pending request to approved or rejected. A decided
// request never transitions again; the balance is not re-validated here.
func (s *LeaveService) Decide(ctx context.Context, id string, req dto.DecideRequest) error {
	status := models.RequestStatus(req.Status)
	if !status.ValidDecision() {
		return appErrors.Clone(appErrors.ErrValidation, "status must be approved or rejected")
	}

	affected, err := s.repo.DecideRequest(ctx, id, status)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decide leave request")
	}
	if affected > 0 {
		s.logger.Sugar().Infow("leave decided", "leave_id", id, "status", status)
		return nil
	}

	// The guarded update touched nothing: either the id is unknown or the
	// request already reached a terminal state.
	if _, err := s.repo.GetRequest(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "leave request not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load leave request")
	}
	return appErrors.Clone(appErrors.ErrAlreadyDecided, "leave request already decided")
}

// ListMine returns the employee's own requests, newest first.
func (s *LeaveService) ListMine(ctx context.Context, employeeID string) ([]dto.LeaveItem, error) {
	requests, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave requests")
	}
	items := make([]dto.LeaveItem, len(requests))
	for i, r := range requests {
		items[i] = leaveItem(r, false)
	}
	return items, nil
}

// List returns leave requests for admin listings.
func (s *LeaveService) List(ctx context.Context, filter dto.ListFilter) ([]dto.LeaveItem, *models.Pagination, error) {
	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list leave requests")
	}
	items := make([]dto.LeaveItem, len(requests))
	for i, r := range requests {
		items[i] = leaveItem(r, true)
	}
	pagination := paginationFor(filter, total)
	return items, pagination, nil
}

func leaveItem(r models.LeaveRequest, withEmployee bool) dto.LeaveItem {
	item := dto.LeaveItem{
		ID:          r.ID,
		StartDate:   r.StartDate.Format(time.DateOnly),
		EndDate:     r.EndDate.Format(time.DateOnly),
		Reason:      r.Reason,
		LeaveType:   string(r.LeaveType),
		WorkingDays: r.WorkingDays,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if withEmployee {
		item.EmployeeID = r.EmployeeID
	}
	return item
}

func paginationFor(filter dto.ListFilter, total int) *models.Pagination {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
