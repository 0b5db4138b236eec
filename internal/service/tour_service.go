package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/smartattend/attendance-api/internal/dto"
	"github.com/smartattend/attendance-api/internal/models"
	appErrors "github.com/smartattend/attendance-api/pkg/errors"
)

type tourRepository interface {
	Create(ctx context.Context, req *models.TourRequest) error
	Get(ctx context.Context, id string) (*models.TourRequest, error)
	Decide(ctx context.Context, id string, status models.RequestStatus) (int64, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]models.TourRequest, error)
	List(ctx context.Context, filter dto.ListFilter) ([]models.TourRequest, int, error)
}

// TourService handles official travel requests. Tours share the leave
// request lifecycle but carry no ledger interaction.
type TourService struct {
	repo      tourRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTourService constructs the service.
func NewTourService(repo tourRepository, validate *validator.Validate, logger *zap.Logger) *TourService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TourService{repo: repo, validator: validate, logger: logger}
}

// Apply validates and persists a tour application at pending.
func (s *TourService) Apply(ctx context.Context, employeeID string, req dto.ApplyTourRequest) (*dto.TourItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tour payload")
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

	request := &models.TourRequest{
		EmployeeID: employeeID,
		StartDate:  start,
		EndDate:    end,
		Location:   req.Location,
		Reason:     req.Reason,
		Status:     models.StatusPending,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create tour request")
	}
	s.logger.Sugar().Infow("tour applied", "employee_id", employeeID, "tour_id", request.ID, "location", req.Location)
	item := tourItem(*request, false)
	return &item, nil
}

// Decide transitions a pending tour to approved or rejected. A decided tour
// never transitions again.
func (s *TourService) Decide(ctx context.Context, id string, req dto.DecideRequest) error {
	status := models.RequestStatus(req.Status)
	if !status.ValidDecision() {
		return appErrors.Clone(appErrors.ErrValidation, "status must be approved or rejected")
	}

	affected, err := s.repo.Decide(ctx, id, status)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decide tour request")
	}
	if affected > 0 {
		s.logger.Sugar().Infow("tour decided", "tour_id", id, "status", status)
		return nil
	}

	if _, err := s.repo.Get(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "tour request not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tour request")
	}
	return appErrors.Clone(appErrors.ErrAlreadyDecided, "tour request already decided")
}

// ListMine returns the employee's own tours, newest first.
func (s *TourService) ListMine(ctx context.Context, employeeID string) ([]dto.TourItem, error) {
	requests, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tour requests")
	}
	items := make([]dto.TourItem, len(requests))
	for i, r := range requests {
		items[i] = tourItem(r, false)
	}
	return items, nil
}

// List returns tour requests for admin listings.
func (s *TourService) List(ctx context.Context, filter dto.ListFilter) ([]dto.TourItem, *models.Pagination, error) {
	requests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tour requests")
	}
	items := make([]dto.TourItem, len(requests))
	for i, r := range requests {
		items[i] = tourItem(r, true)
	}
	return items, paginationFor(filter, total), nil
}

func tourItem(r models.TourRequest, withEmployee bool) dto.TourItem {
	item := dto.TourItem{
		ID:        r.ID,
		StartDate: r.StartDate.Format(time.DateOnly),
		EndDate:   r.EndDate.Format(time.DateOnly),
		Location:  r.Location,
		Reason:    r.Reason,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if withEmployee {
		item.EmployeeID = r.EmployeeID
	}
	return item
}
