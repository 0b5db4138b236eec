package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartattend/attendance-api/internal/dto"
	"github.com/smartattend/attendance-api/internal/models"
	appErrors "github.com/smartattend/attendance-api/pkg/errors"
	"github.com/smartattend/attendance-api/pkg/response"
)

type directoryService interface {
	List(ctx context.Context, filter dto.ListFilter) ([]dto.EmployeeItem, *models.Pagination, error)
}

// DirectoryHandler exposes the employee roster.
type DirectoryHandler struct {
	service directoryService
}

// NewDirectoryHandler builds a new handler.
func NewDirectoryHandler(service directoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// List godoc
// @Summary List employees
// @Tags Directory
// @Produce json
// @Param search query string false "Name or email search"
// @Success 200 {object} response.Envelope
// @Router /admin/employees [get]
func (h *DirectoryHandler) List(c *gin.Context) {
	var filter dto.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid list filter"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}
