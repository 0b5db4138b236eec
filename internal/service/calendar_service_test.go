package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartattend/attendance-api/internal/dto"
	"github.com/smartattend/attendance-api/internal/models"
	appErrors "github.com/smartattend/attendance-api/pkg/errors"
)

type holidayRepoStub struct {
	holidays  []models.Holiday
	listErr   error
	createErr error
	deleted   int64
}

func (s *holidayRepoStub) ListByYear(ctx context.Context, year int) ([]models.Holiday, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	result := []models.Holiday{}
	for _, h := range s.holidays {
		if h.Date.Year() == year {
			result = append(result, h)
		}
	}
	return result, nil
}

func (s *holidayRepoStub) ExistsOnDate(ctx context.Context, date time.Time) (bool, error) {
	for _, h := range s.holidays {
		if h.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (s *holidayRepoStub) Create(ctx context.Context, holiday *models.Holiday) error {
	if s.createErr != nil {
		return s.createErr
	}
	holiday.ID = fmt.Sprintf("holiday-%d", len(s.holidays)+1)
	s.holidays = append(s.holidays, *holiday)
	return nil
}

func (s *holidayRepoStub) Delete(ctx context.Context, id string) (int64, error) {
	return s.deleted, nil
}

type weekendRepoStub struct {
	cfg       *models.WeekendConfig
	raceCfg   *models.WeekendConfig
	getCalls  int
	createErr error
	updated   string
}

func (s *weekendRepoStub) Get(ctx context.Context) (*models.WeekendConfig, error) {
	s.getCalls++
	if s.cfg == nil {
		return nil, sql.ErrNoRows
	}
	return s.cfg, nil
}

func (s *weekendRepoStub) Create(ctx context.Context, weekendDays string) (*models.WeekendConfig, error) {
	if s.createErr != nil {
		// Simulate another instance winning the insert race.
		if s.raceCfg != nil {
			s.cfg = s.raceCfg
		}
		return nil, s.createErr
	}
	s.cfg = &models.WeekendConfig{ID: "weekend-1", WeekendDays: weekendDays}
	return s.cfg, nil
}

func (s *weekendRepoStub) Update(ctx context.Context, id, weekendDays string) error {
	s.updated = weekendDays
	s.cfg.WeekendDays = weekendDays
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountWorkingDaysDefaultWeekend(t *testing.T) {
	svc := NewCalendarService(&holidayRepoStub{}, &weekendRepoStub{}, nil, nil)

	// Mon 2026-03-02 through Sun 2026-03-08 with the Sunday-only default.
	count, err := svc.CountWorkingDays(context.Background(), day(2026, 3, 2), day(2026, 3, 8))
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestCountWorkingDaysInvertedRange(t *testing.T) {
	weekend := &weekendRepoStub{}
	svc := NewCalendarService(&holidayRepoStub{}, weekend, nil, nil)

	count, err := svc.CountWorkingDays(context.Background(), day(2026, 3, 8), day(2026, 3, 2))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	// Nothing should be consulted for an empty range.
	assert.Equal(t, 0, weekend.getCalls)
}

func TestCountWorkingDaysSkipsHolidays(t *testing.T) {
	holidays := &holidayRepoStub{holidays: []models.Holiday{
		{ID: "h1", Date: day(2026, 3, 4), Name: "Holi", Type: models.HolidayTypeGazetted},
	}}
	svc := NewCalendarService(holidays, &weekendRepoStub{}, nil, nil)

	count, err := svc.CountWorkingDays(context.Background(), day(2026, 3, 2), day(2026, 3, 8))
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestCountWorkingDaysHolidayOnWeekendNotDoubleCounted(t *testing.T) {
	// Sunday 2026-03-08 is both the default weekend day and a holiday.
	holidays := &holidayRepoStub{holidays: []models.Holiday{
		{ID: "h1", Date: day(2026, 3, 8), Name: "Observed", Type: models.HolidayTypeGazetted},
	}}
	svc := NewCalendarService(holidays, &weekendRepoStub{}, nil, nil)

	count, err := svc.CountWorkingDays(context.Background(), day(2026, 3, 2), day(2026, 3, 8))
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestCountWorkingDaysSpansYears(t *testing.T) {
	holidays := &holidayRepoStub{holidays: []models.Holiday{
		{ID: "h1", Date: day(2025, 12, 25), Name: "Christmas", Type: models.HolidayTypeGazetted},
		{ID: "h2", Date: day(2026, 1, 1), Name: "New Year", Type: models.HolidayTypeGazetted},
	}}
	svc := NewCalendarService(holidays, &weekendRepoStub{}, nil, nil)

	// Thu 2025-12-25 .. Thu 2026-01-01: two holidays, one Sunday.
	count, err := svc.CountWorkingDays(context.Background(), day(2025, 12, 25), day(2026, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestWeekendConfigCreatedLazily(t *testing.T) {
	weekend := &weekendRepoStub{}
	svc := NewCalendarService(&holidayRepoStub{}, weekend, nil, nil)

	cfg, err := svc.GetWeekend(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{6}, cfg.WeekendDays)
	require.NotNil(t, weekend.cfg)
	assert.Equal(t, models.DefaultWeekendDays, weekend.cfg.WeekendDays)
}

func TestWeekendConfigCreateRaceRecovered(t *testing.T) {
	weekend := &weekendRepoStub{
		createErr: &pq.Error{Code: "23505"},
		raceCfg:   &models.WeekendConfig{ID: "weekend-1", WeekendDays: "5,6"},
	}
	svc := NewCalendarService(&holidayRepoStub{}, weekend, nil, nil)

	// First Get misses, Create loses the race, the re-fetch must win.
	cfg, err := svc.GetWeekend(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, cfg.WeekendDays)
}

func TestUpdateWeekendAllowsEmptySet(t *testing.T) {
	weekend := &weekendRepoStub{cfg: &models.WeekendConfig{ID: "weekend-1", WeekendDays: "6"}}
	svc := NewCalendarService(&holidayRepoStub{}, weekend, nil, nil)

	cfg, err := svc.UpdateWeekend(context.Background(), dto.UpdateWeekendRequest{WeekendDays: []int{}})
	require.NoError(t, err)
	assert.Empty(t, cfg.WeekendDays)
	assert.Equal(t, "", weekend.updated)

	count, err := svc.CountWorkingDays(context.Background(), day(2026, 3, 2), day(2026, 3, 8))
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestUpdateWeekendRejectsOutOfRange(t *testing.T) {
	weekend := &weekendRepoStub{cfg: &models.WeekendConfig{ID: "weekend-1", WeekendDays: "6"}}
	svc := NewCalendarService(&holidayRepoStub{}, weekend, nil, nil)

	_, err := svc.UpdateWeekend(context.Background(), dto.UpdateWeekendRequest{WeekendDays: []int{7}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdateWeekendDeduplicates(t *testing.T) {
	weekend := &weekendRepoStub{cfg: &models.WeekendConfig{ID: "weekend-1", WeekendDays: "6"}}
	svc := NewCalendarService(&holidayRepoStub{}, weekend, nil, nil)

	cfg, err := svc.UpdateWeekend(context.Background(), dto.UpdateWeekendRequest{WeekendDays: []int{6, 5, 6}})
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6}, cfg.WeekendDays)
	assert.Equal(t, "5,6", weekend.updated)
}

func TestAddHolidayDuplicateDate(t *testing.T) {
	holidays := &holidayRepoStub{holidays: []models.Holiday{
		{ID: "h1", Date: day(2026, 1, 26), Name: "Republic Day", Type: models.HolidayTypeGazetted},
	}}
	svc := NewCalendarService(holidays, &weekendRepoStub{}, nil, nil)

	_, err := svc.AddHoliday(context.Background(), dto.AddHolidayRequest{Date: "2026-01-26", Name: "Duplicate"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateHoliday.Code, appErrors.FromError(err).Code)
}

func TestAddHolidayConcurrentDuplicate(t *testing.T) {
	holidays := &holidayRepoStub{createErr: &pq.Error{Code: "23505"}}
	svc := NewCalendarService(holidays, &weekendRepoStub{}, nil, nil)

	_, err := svc.AddHoliday(context.Background(), dto.AddHolidayRequest{Date: "2026-01-26", Name: "Republic Day"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateHoliday.Code, appErrors.FromError(err).Code)
}

func TestAddHolidayDefaultsToGazetted(t *testing.T) {
	holidays := &holidayRepoStub{}
	svc := NewCalendarService(holidays, &weekendRepoStub{}, nil, nil)

	item, err := svc.AddHoliday(context.Background(), dto.AddHolidayRequest{Date: "2026-01-26", Name: "Republic Day"})
	require.NoError(t, err)
	assert.Equal(t, "gazetted", item.Type)
	assert.Equal(t, "2026-01-26", item.Date)
}

func TestDeleteHolidayNotFound(t *testing.T) {
	svc := NewCalendarService(&holidayRepoStub{deleted: 0}, &weekendRepoStub{}, nil, nil)

	err := svc.DeleteHoliday(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSeedHolidaysIdempotent(t *testing.T) {
	holidays := &holidayRepoStub{}
	svc := NewCalendarService(holidays, &weekendRepoStub{}, nil, nil)

	year := 2026
	first, err := svc.SeedHolidays(context.Background(), &year)
	require.NoError(t, err)
	assert.Greater(t, first, 0)

	second, err := svc.SeedHolidays(context.Background(), &year)
	require.NoError(t, err)
	assert.Equal(t, 0, second)
	assert.Len(t, holidays.holidays, first)
}

func TestSeedHolidaysAllYears(t *testing.T) {
	holidays := &holidayRepoStub{}
	svc := NewCalendarService(holidays, &weekendRepoStub{}, nil, nil)

	inserted, err := svc.SeedHolidays(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, len(holidays.holidays), inserted)
	years := map[int]bool{}
	for _, h := range holidays.holidays {
		years[h.Date.Year()] = true
	}
	assert.True(t, years[2025])
	assert.True(t, years[2026])
}

func TestSeedTableHasUniqueDates(t *testing.T) {
	// A repeated date within a year would be silently skipped by seeding,
	// leaving its name unreachable. Shared observances get one merged entry.
	for year, entries := range gazettedHolidays {
		seen := map[string]string{}
		for _, entry := range entries {
			if prev, ok := seen[entry.Date]; ok {
				t.Errorf("year %d: %s listed twice (%q and %q)", year, entry.Date, prev, entry.Name)
			}
			seen[entry.Date] = entry.Name
		}
	}
}

func TestWeekdayIndexMondayFirst(t *testing.T) {
	assert.Equal(t, 0, weekdayIndex(day(2026, 3, 2))) // Monday
	assert.Equal(t, 5, weekdayIndex(day(2026, 3, 7))) // Saturday
	assert.Equal(t, 6, weekdayIndex(day(2026, 3, 8))) // Sunday
}
