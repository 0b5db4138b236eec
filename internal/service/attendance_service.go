package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/smartattend/attendance-api/internal/dto"
	"github.com/smartattend/attendance-api/internal/models"
	"github.com/smartattend/attendance-api/internal/repository"
	appErrors "github.com/smartattend/attendance-api/pkg/errors"
)

type attendanceRepository interface {
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*models.Attendance, error)
	CreateCheckIn(ctx context.Context, rec *models.Attendance) error
	SetCheckOut(ctx context.Context, id string, t time.Time) error
	ListByEmployee(ctx context.Context, employeeID string) ([]models.Attendance, error)
	ListForDate(ctx context.Context, date time.Time) ([]models.Attendance, error)
}

// AttendanceService records daily check-ins and check-outs, one record per
// employee per office-local day.
type AttendanceService struct {
	repo   attendanceRepository
	clock  *OfficeClock
	logger *zap.Logger
}

// NewAttendanceService constructs the service.
func NewAttendanceService(repo attendanceRepository, clock *OfficeClock, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, clock: clock, logger: logger}
}

// CheckIn records the employee's arrival for the current office day.
// A second check-in the same day is rejected.
func (s *AttendanceService) CheckIn(ctx context.Context, employeeID string) (*dto.CheckResponse, error) {
	today := s.clock.Today()
	now := s.clock.Now()

	rec, err := s.repo.GetByEmployeeAndDate(ctx, employeeID, today)
	if err == nil {
		if rec.CheckedIn() {
			return nil, appErrors.Clone(appErrors.ErrConflict, "already checked in today")
		}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}

	fresh := &models.Attendance{EmployeeID: employeeID, Date: today, CheckInTime: &now}
	if err := s.repo.CreateCheckIn(ctx, fresh); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "already checked in today")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record check-in")
	}
	s.logger.Sugar().Infow("check-in", "employee_id", employeeID, "date", today.Format(time.DateOnly))
	return &dto.CheckResponse{Date: today.Format(time.DateOnly), Time: now.Format(time.RFC3339)}, nil
}

// CheckOut records the employee's departure. Requires a prior check-in and
// is once-only for the day.
func (s *AttendanceService) CheckOut(ctx context.Context, employeeID string) (*dto.CheckResponse, error) {
	today := s.clock.Today()
	now := s.clock.Now()

	rec, err := s.repo.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "check-in required before check-out")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}
	if !rec.CheckedIn() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "check-in required before check-out")
	}
	if rec.CheckedOut() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "already checked out today")
	}

	if err := s.repo.SetCheckOut(ctx, rec.ID, now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record check-out")
	}
	s.logger.Sugar().Infow("check-out", "employee_id", employeeID, "date", today.Format(time.DateOnly))
	return &dto.CheckResponse{Date: today.Format(time.DateOnly), Time: now.Format(time.RFC3339)}, nil
}

// ListMine returns the employee's attendance history, newest first.
func (s *AttendanceService) ListMine(ctx context.Context, employeeID string) ([]dto.AttendanceItem, error) {
	records, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}
	items := make([]dto.AttendanceItem, len(records))
	for i, r := range records {
		items[i] = attendanceItem(r)
	}
	return items, nil
}

func attendanceItem(r models.Attendance) dto.AttendanceItem {
	item := dto.AttendanceItem{
		ID:   r.ID,
		Date: r.Date.Format(time.DateOnly),
	}
	if r.CheckInTime != nil {
		v := r.CheckInTime.UTC().Format(time.RFC3339)
		item.CheckInTime = &v
	}
	if r.CheckOutTime != nil {
		v := r.CheckOutTime.UTC().Format(time.RFC3339)
		item.CheckOutTime = &v
	}
	return item
}
