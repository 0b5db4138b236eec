package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/smartattend/attendance-api/internal/dto"
	"github.com/smartattend/attendance-api/internal/models"
	appErrors "github.com/smartattend/attendance-api/pkg/errors"
)

type employeeReader interface {
	List(ctx context.Context, filter dto.ListFilter) ([]models.Employee, int, error)
}

// DirectoryService exposes the employee roster for admin listings.
type DirectoryService struct {
	repo   employeeReader
	logger *zap.Logger
}

// NewDirectoryService constructs the service.
func NewDirectoryService(repo employeeReader, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{repo: repo, logger: logger}
}

// List returns employees matching the filter.
func (s *DirectoryService) List(ctx context.Context, filter dto.ListFilter) ([]dto.EmployeeItem, *models.Pagination, error) {
	employees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list employees")
	}
	items := make([]dto.EmployeeItem, len(employees))
	for i, e := range employees {
		items[i] = dto.EmployeeItem{
			ID:        e.ID,
			Name:      e.Name,
			Email:     e.Email,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return items, paginationFor(filter, total), nil
}
