package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartattend/attendance-api/internal/dto"
	appErrors "github.com/smartattend/attendance-api/pkg/errors"
	"github.com/smartattend/attendance-api/pkg/response"
)

type attendanceService interface {
	CheckIn(ctx context.Context, employeeID string) (*dto.CheckResponse, error)
	CheckOut(ctx context.Context, employeeID string) (*dto.CheckResponse, error)
	ListMine(ctx context.Context, employeeID string) ([]dto.AttendanceItem, error)
}

// AttendanceHandler exposes daily check-in and check-out endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler builds a new handler.
func NewAttendanceHandler(service attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// CheckIn godoc
// @Summary Record today's check-in
// @Tags Attendance
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /attendance/check-in [post]
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.service.CheckIn(c.Request.Context(), claims.EmployeeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// CheckOut godoc
// @Summary Record today's check-out
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/check-out [post]
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.service.CheckOut(c.Request.Context(), claims.EmployeeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ListMine godoc
// @Summary List own attendance records
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) ListMine(c *gin.Context) {
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
