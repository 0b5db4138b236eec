package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartattend/attendance-api/internal/dto"
	"github.com/smartattend/attendance-api/internal/models"
	appErrors "github.com/smartattend/attendance-api/pkg/errors"
	"github.com/smartattend/attendance-api/pkg/response"
)

type leaveService interface {
	Apply(ctx context.Context, employeeID string, req dto.ApplyLeaveRequest) (*dto.ApplyLeaveResponse, error)
	Decide(ctx context.Context, id string, req dto.DecideRequest) error
	Balance(ctx context.Context, employeeID string, year int) (*models.BalanceSummary, error)
	AdjustTotal(ctx context.Context, employeeID string, req dto.AdjustBalanceRequest) (*models.LeaveBalance, error)
	ListMine(ctx context.Context, employeeID string) ([]dto.LeaveItem, error)
	List(ctx context.Context, filter dto.ListFilter) ([]dto.LeaveItem, *models.Pagination, error)
}

// LeaveHandler exposes leave request and balance endpoints.
type LeaveHandler struct {
	service leaveService
	metrics decisionRecorder
}

type decisionRecorder interface {
	RecordLeaveDecision(status string)
}

// NewLeaveHandler builds a new handler.
func NewLeaveHandler(service leaveService, metrics decisionRecorder) *LeaveHandler {
	return &LeaveHandler{service: service, metrics: metrics}
}

// Apply godoc
// @Summary Apply for leave
// @Tags Leave
// @Accept json
// @Produce json
// @Param payload body dto.ApplyLeaveRequest true "Leave application"
// @Success 201 {object} response.Envelope
// @Router /leaves [post]
func (h *LeaveHandler) Apply(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid leave payload"))
		return
	}
	result, err := h.service.Apply(c.Request.Context(), claims.EmployeeID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListMine godoc
// @Summary List own leave requests
// @Tags Leave
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /leaves [get]
func (h *LeaveHandler) ListMine(c *gin.Context) {
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

// Balance godoc
// @Summary Get own leave balance
// @Tags Leave
// @Produce json
// @Param year query int false "Year, defaults to current"
// @Success 200 {object} response.Envelope
// @Router /leaves/balance [get]
func (h *LeaveHandler) Balance(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	year := time.Now().UTC().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be an integer"))
			return
		}
		year = parsed
	}
	summary, err := h.service.Balance(c.Request.Context(), claims.EmployeeID, year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Decide godoc
// @Summary Approve or reject a leave request
// @Tags Leave
// @Accept json
// @Produce json
// @Param id path string true "Leave request ID"
// @Param payload body dto.DecideRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Router /admin/leaves/{id}/decision [patch]
func (h *LeaveHandler) Decide(c *gin.Context) {
	var req dto.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}
	if err := h.service.Decide(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.RecordLeaveDecision(req.Status)
	}
	response.JSON(c, http.StatusOK, gin.H{"status": req.Status}, nil)
}

// List godoc
// @Summary List leave requests across employees
// @Tags Leave
// @Produce json
// @Param employee_id query string false "Filter by employee"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /admin/leaves [get]
func (h *LeaveHandler) List(c *gin.Context) {
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

// AdjustBalance godoc
// @Summary Set an employee's total leave allocation
// @Tags Leave
// @Accept json
// @Produce json
// @Param id path string true "Employee ID"
// @Param payload body dto.AdjustBalanceRequest true "Balance payload"
// @Success 200 {object} response.Envelope
// @Router /admin/employees/{id}/leave-balance [put]
func (h *LeaveHandler) AdjustBalance(c *gin.Context) {
	var req dto.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid balance payload"))
		return
	}
	balance, err := h.service.AdjustTotal(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, balance, nil)
}
