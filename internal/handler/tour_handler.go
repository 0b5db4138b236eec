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

type tourService interface {
	Apply(ctx context.Context, employeeID string, req dto.ApplyTourRequest) (*dto.TourItem, error)
	Decide(ctx context.Context, id string, req dto.DecideRequest) error
	ListMine(ctx context.Context, employeeID string) ([]dto.TourItem, error)
	List(ctx context.Context, filter dto.ListFilter) ([]dto.TourItem, *models.Pagination, error)
}

// TourHandler exposes official tour request endpoints.
type TourHandler struct {
	service tourService
}

// NewTourHandler builds a new handler.
func NewTourHandler(service tourService) *TourHandler {
	return &TourHandler{service: service}
}

// Apply godoc
// @Summary Apply for an official tour
// @Tags Tour
// @Accept json
// @Produce json
// @Param payload body dto.ApplyTourRequest true "Tour application"
// @Success 201 {object} response.Envelope
// @Router /tours [post]
func (h *TourHandler) Apply(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ApplyTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid tour payload"))
		return
	}
	item, err := h.service.Apply(c.Request.Context(), claims.EmployeeID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// ListMine godoc
// @Summary List own tour requests
// @Tags Tour
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tours [get]
func (h *TourHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	items, err := h.service.ListMine(c.Request.Context(), claims.EmployeeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Decide godoc
// @Summary Approve or reject a tour request
// @Tags Tour
// @Accept json
// @Produce json
// @Param id path string true "Tour request ID"
// @Param payload body dto.DecideRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Router /admin/tours/{id}/decision [patch]
func (h *TourHandler) Decide(c *gin.Context) {
	var req dto.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}
	if err := h.service.Decide(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": req.Status}, nil)
}

// List godoc
// @Summary List tour requests across employees
// @Tags Tour
// @Produce json
// @Param employee_id query string false "Filter by employee"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /admin/tours [get]
func (h *TourHandler) List(c *gin.Context) {
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
