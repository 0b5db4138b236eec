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

type calendarService interface {
	GetWeekend(ctx context.Context) (*dto.WeekendConfigResponse, error)
	UpdateWeekend(ctx context.Context, req dto.UpdateWeekendRequest) (*dto.WeekendConfigResponse, error)
	HolidaysForYear(ctx context.Context, year int) ([]models.Holiday, error)
	AddHoliday(ctx context.Context, req dto.AddHolidayRequest) (*dto.HolidayItem, error)
	DeleteHoliday(ctx context.Context, id string) error
	SeedHolidays(ctx context.Context, year *int) (int, error)
	CountWorkingDays(ctx context.Context, start, end time.Time) (int, error)
}

// CalendarHandler exposes holiday and weekend configuration endpoints.
type CalendarHandler struct {
	service calendarService
}

// NewCalendarHandler builds a new handler.
func NewCalendarHandler(service calendarService) *CalendarHandler {
	return &CalendarHandler{service: service}
}

// GetWeekend godoc
// @Summary Get weekend configuration
// @Tags Calendar
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /calendar/weekend [get]
func (h *CalendarHandler) GetWeekend(c *gin.Context) {
	cfg, err := h.service.GetWeekend(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}

// UpdateWeekend godoc
// @Summary Update weekend configuration
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body dto.UpdateWeekendRequest true "Weekend days payload"
// @Success 200 {object} response.Envelope
// @Router /admin/calendar/weekend [put]
func (h *CalendarHandler) UpdateWeekend(c *gin.Context) {
	var req dto.UpdateWeekendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid weekend payload"))
		return
	}
	cfg, err := h.service.UpdateWeekend(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cfg, nil)
}

// ListHolidays godoc
// @Summary List holidays for a year
// @Tags Calendar
// @Produce json
// @Param year query int false "Year, defaults to current"
// @Success 200 {object} response.Envelope
// @Router /calendar/holidays [get]
func (h *CalendarHandler) ListHolidays(c *gin.Context) {
	year := time.Now().UTC().Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be an integer"))
			return
		}
		year = parsed
	}
	holidays, err := h.service.HolidaysForYear(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	items := make([]dto.HolidayItem, len(holidays))
	for i, holiday := range holidays {
		items[i] = dto.HolidayItem{
			ID:   holiday.ID,
			Date: holiday.Date.Format(time.DateOnly),
			Name: holiday.Name,
			Type: string(holiday.Type),
		}
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// AddHoliday godoc
// @Summary Add a holiday
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body dto.AddHolidayRequest true "Holiday payload"
// @Success 201 {object} response.Envelope
// @Router /admin/calendar/holidays [post]
func (h *CalendarHandler) AddHoliday(c *gin.Context) {
	var req dto.AddHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid holiday payload"))
		return
	}
	item, err := h.service.AddHoliday(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// DeleteHoliday godoc
// @Summary Delete a holiday
// @Tags Calendar
// @Produce json
// @Param id path string true "Holiday ID"
// @Success 204
// @Router /admin/calendar/holidays/{id} [delete]
func (h *CalendarHandler) DeleteHoliday(c *gin.Context) {
	if err := h.service.DeleteHoliday(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SeedHolidays godoc
// @Summary Seed the built-in holiday table
// @Tags Calendar
// @Accept json
// @Produce json
// @Param payload body dto.SeedHolidaysRequest false "Optional year filter"
// @Success 200 {object} response.Envelope
// @Router /admin/calendar/holidays/seed [post]
func (h *CalendarHandler) SeedHolidays(c *gin.Context) {
	var req dto.SeedHolidaysRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid seed payload"))
			return
		}
	}
	inserted, err := h.service.SeedHolidays(c.Request.Context(), req.Year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.SeedHolidaysResponse{Inserted: inserted}, nil)
}

// WorkingDays godoc
// @Summary Count working days in a date range
// @Tags Calendar
// @Produce json
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /calendar/working-days [get]
func (h *CalendarHandler) WorkingDays(c *gin.Context) {
	start, err := time.Parse(time.DateOnly, c.Query("start"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "start must be YYYY-MM-DD"))
		return
	}
	end, err := time.Parse(time.DateOnly, c.Query("end"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "end must be YYYY-MM-DD"))
		return
	}
	count, err := h.service.CountWorkingDays(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"working_days": count}, nil)
}
