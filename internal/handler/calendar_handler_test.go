package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartattend/attendance-api/internal/dto"
	"github.com/smartattend/attendance-api/internal/models"
	appErrors "github.com/smartattend/attendance-api/pkg/errors"
)

type calendarServiceMock struct {
	weekend     *dto.WeekendConfigResponse
	holidays    []models.Holiday
	addErr      error
	deleteErr   error
	seeded      int
	workingDays int
}

func (m *calendarServiceMock) GetWeekend(ctx context.Context) (*dto.WeekendConfigResponse, error) {
	return m.weekend, nil
}

func (m *calendarServiceMock) UpdateWeekend(ctx context.Context, req dto.UpdateWeekendRequest) (*dto.WeekendConfigResponse, error) {
	return &dto.WeekendConfigResponse{WeekendDays: req.WeekendDays}, nil
}

func (m *calendarServiceMock) HolidaysForYear(ctx context.Context, year int) ([]models.Holiday, error) {
	return m.holidays, nil
}

func (m *calendarServiceMock) AddHoliday(ctx context.Context, req dto.AddHolidayRequest) (*dto.HolidayItem, error) {
	if m.addErr != nil {
		return nil, m.addErr
	}
	return &dto.HolidayItem{ID: "h1", Date: req.Date, Name: req.Name, Type: "gazetted"}, nil
}

func (m *calendarServiceMock) DeleteHoliday(ctx context.Context, id string) error {
	return m.deleteErr
}

func (m *calendarServiceMock) SeedHolidays(ctx context.Context, year *int) (int, error) {
	return m.seeded, nil
}

func (m *calendarServiceMock) CountWorkingDays(ctx context.Context, start, end time.Time) (int, error) {
	return m.workingDays, nil
}

func TestCalendarHandlerWorkingDays(t *testing.T) {
	h := NewCalendarHandler(&calendarServiceMock{workingDays: 6})
	c, w := testContext(t, http.MethodGet, "/calendar/working-days?start=2026-03-02&end=2026-03-08", nil)

	h.WorkingDays(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"working_days":6`)
}

func TestCalendarHandlerWorkingDaysBadDate(t *testing.T) {
	h := NewCalendarHandler(&calendarServiceMock{})
	c, w := testContext(t, http.MethodGet, "/calendar/working-days?start=tomorrow&end=2026-03-08", nil)

	h.WorkingDays(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarHandlerAddHolidayDuplicate(t *testing.T) {
	h := NewCalendarHandler(&calendarServiceMock{addErr: appErrors.ErrDuplicateHoliday})
	c, w := testContext(t, http.MethodPost, "/admin/calendar/holidays", dto.AddHolidayRequest{
		Date: "2026-01-26", Name: "Republic Day",
	})

	h.AddHoliday(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCalendarHandlerDeleteHolidayNotFound(t *testing.T) {
	h := NewCalendarHandler(&calendarServiceMock{deleteErr: appErrors.ErrNotFound})
	c, w := testContext(t, http.MethodDelete, "/admin/calendar/holidays/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.DeleteHoliday(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCalendarHandlerListHolidaysDefaultsYear(t *testing.T) {
	mock := &calendarServiceMock{holidays: []models.Holiday{
		{ID: "h1", Date: time.Date(2026, 1, 26, 0, 0, 0, 0, time.UTC), Name: "Republic Day", Type: models.HolidayTypeGazetted},
	}}
	h := NewCalendarHandler(mock)
	c, w := testContext(t, http.MethodGet, "/calendar/holidays", nil)

	h.ListHolidays(c)
	assert.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data []dto.HolidayItem `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "2026-01-26", envelope.Data[0].Date)
}

func TestCalendarHandlerSeedEmptyBody(t *testing.T) {
	h := NewCalendarHandler(&calendarServiceMock{seeded: 17})
	c, w := testContext(t, http.MethodPost, "/admin/calendar/holidays/seed", nil)

	h.SeedHolidays(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"inserted":17`)
}
