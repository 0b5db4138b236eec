package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/smartattend/attendance-api/internal/dto"
	"github.com/smartattend/attendance-api/internal/models"
	"github.com/smartattend/attendance-api/internal/repository"
	appErrors "github.com/smartattend/attendance-api/pkg/errors"
)

// Weekday indices follow Monday=0 … Sunday=6.

type holidayRepository interface {
	ListByYear(ctx context.Context, year int) ([]models.Holiday, error)
	ExistsOnDate(ctx context.Context, date time.Time) (bool, error)
	Create(ctx context.Context, holiday *models.Holiday) error
	Delete(ctx context.Context, id string) (int64, error)
}

type weekendConfigRepository interface {
	Get(ctx context.Context) (*models.WeekendConfig, error)
	Create(ctx context.Context, weekendDays string) (*models.WeekendConfig, error)
	Update(ctx context.Context, id, weekendDays string) error
}

// CalendarService resolves non-working dates: the configured weekend
// weekdays and the gazetted holiday table.
type CalendarService struct {
	holidays  holidayRepository
	weekend   weekendConfigRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCalendarService constructs the service.
func NewCalendarService(holidays holidayRepository, weekend weekendConfigRepository, validate *validator.Validate, logger *zap.Logger) *CalendarService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{holidays: holidays, weekend: weekend, validator: validate, logger: logger}
}

// HolidaysForYear returns the holiday rows whose date falls in the year.
func (s *CalendarService) HolidaysForYear(ctx context.Context, year int) ([]models.Holiday, error) {
	holidays, err := s.holidays.ListByYear(ctx, year)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list holidays")
	}
	return holidays, nil
}

// holidaySetForYear returns the year's holiday dates normalized to UTC
// midnight for set membership tests.
func (s *CalendarService) holidaySetForYear(ctx context.Context, year int) (map[time.Time]struct{}, error) {
	holidays, err := s.holidays.ListByYear(ctx, year)
	if err != nil {
		return nil, err
	}
	set := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		set[normalizeDate(h.Date)] = struct{}{}
	}
	return set, nil
}

// WeekendWeekdays returns the configured non-working weekday set, creating
// the singleton config row with the Sunday-only default on first access.
// A lost concurrent create is recovered by re-fetching.
func (s *CalendarService) WeekendWeekdays(ctx context.Context) (map[int]struct{}, error) {
	cfg, err := s.currentWeekendConfig(ctx)
	if err != nil {
		return nil, err
	}
	return parseWeekendDays(cfg.WeekendDays), nil
}

func (s *CalendarService) currentWeekendConfig(ctx context.Context) (*models.WeekendConfig, error) {
	cfg, err := s.weekend.Get(ctx)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load weekend config")
	}

	created, createErr := s.weekend.Create(ctx, models.DefaultWeekendDays)
	if createErr == nil {
		s.logger.Info("weekend config created with default", zap.String("weekend_days", models.DefaultWeekendDays))
		return created, nil
	}
	if repository.IsUniqueViolation(createErr) {
		cfg, err = s.weekend.Get(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload weekend config")
		}
		return cfg, nil
	}
	return nil, appErrors.Wrap(createErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create weekend config")
}

// GetWeekend reports the current weekend weekday set.
func (s *CalendarService) GetWeekend(ctx context.Context) (*dto.WeekendConfigResponse, error) {
	days, err := s.WeekendWeekdays(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.WeekendConfigResponse{WeekendDays: sortedWeekdays(days)}, nil
}

// UpdateWeekend replaces the configured weekend weekday set. An empty set is
// permitted; it makes every weekday a working day.
func (s *CalendarService) UpdateWeekend(ctx context.Context, req dto.UpdateWeekendRequest) (*dto.WeekendConfigResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid weekend payload")
	}
	for _, d := range req.WeekendDays {
		if d < 0 || d > 6 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "weekday index must be between 0 and 6")
		}
	}
	cfg, err := s.currentWeekendConfig(ctx)
	if err != nil {
		return nil, err
	}

	set := make(map[int]struct{}, len(req.WeekendDays))
	for _, d := range req.WeekendDays {
		set[d] = struct{}{}
	}
	stored := formatWeekendDays(set)
	if err := s.weekend.Update(ctx, cfg.ID, stored); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update weekend config")
	}
	return &dto.WeekendConfigResponse{WeekendDays: sortedWeekdays(set)}, nil
}

// AddHoliday registers a single holiday. At most one holiday may exist per
// date; a concurrent duplicate surfaces as the same conflict.
func (s *CalendarService) AddHoliday(ctx context.Context, req dto.AddHolidayRequest) (*dto.HolidayItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid holiday payload")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must use YYYY-MM-DD")
	}
	holidayType := models.HolidayTypeGazetted
	if req.Type != "" {
		holidayType = models.HolidayType(req.Type)
		if !holidayType.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "type must be gazetted or restricted")
		}
	}

	exists, err := s.holidays.ExistsOnDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check holiday date")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrDuplicateHoliday, "")
	}

	holiday := &models.Holiday{Date: date, Name: req.Name, Type: holidayType}
	if err := s.holidays.Create(ctx, holiday); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrDuplicateHoliday, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create holiday")
	}
	item := holidayItem(*holiday)
	return &item, nil
}

// DeleteHoliday removes a holiday by id.
func (s *CalendarService) DeleteHoliday(ctx context.Context, id string) error {
	affected, err := s.holidays.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete holiday")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "holiday not found")
	}
	return nil
}

// SeedHolidays inserts the built-in gazetted holiday table for the given
// year, or for every known year when year is nil. Dates that already carry a
// holiday are skipped, so re-running never duplicates or errors. Returns the
// number of rows actually inserted.
func (s *CalendarService) SeedHolidays(ctx context.Context, year *int) (int, error) {
	var years []int
	if year != nil {
		years = []int{*year}
	} else {
		for y := range gazettedHolidays {
			years = append(years, y)
		}
		sort.Ints(years)
	}

	created := 0
	for _, y := range years {
		for _, entry := range gazettedHolidays[y] {
			date, err := parseDate(entry.Date)
			if err != nil {
				return created, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid seed date")
			}
			exists, err := s.holidays.ExistsOnDate(ctx, date)
			if err != nil {
				return created, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check holiday date")
			}
			if exists {
				continue
			}
			holiday := &models.Holiday{Date: date, Name: entry.Name, Type: models.HolidayTypeGazetted}
			if err := s.holidays.Create(ctx, holiday); err != nil {
				if repository.IsUniqueViolation(err) {
					continue
				}
				return created, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to seed holiday")
			}
			created++
		}
	}
	if created > 0 {
		s.logger.Sugar().Infow("holidays seeded", "inserted", created)
	}
	return created, nil
}

// CountWorkingDays counts the dates in [start, end] that are neither a
// configured weekend weekday nor a holiday. An inverted range counts zero.
// Holiday sets are collected for every calendar year the range touches.
func (s *CalendarService) CountWorkingDays(ctx context.Context, start, end time.Time) (int, error) {
	start = normalizeDate(start)
	end = normalizeDate(end)
	if start.After(end) {
		return 0, nil
	}

	weekend, err := s.WeekendWeekdays(ctx)
	if err != nil {
		return 0, err
	}

	holidays := make(map[time.Time]struct{})
	for y := start.Year(); y <= end.Year(); y++ {
		set, err := s.holidaySetForYear(ctx, y)
		if err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to collect holidays")
		}
		for d := range set {
			holidays[d] = struct{}{}
		}
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if _, off := weekend[weekdayIndex(d)]; off {
			continue
		}
		if _, holiday := holidays[d]; holiday {
			continue
		}
		count++
	}
	return count, nil
}

func holidayItem(h models.Holiday) dto.HolidayItem {
	return dto.HolidayItem{
		ID:   h.ID,
		Date: h.Date.Format(time.DateOnly),
		Name: h.Name,
		Type: string(h.Type),
	}
}

// weekdayIndex maps Go's Sunday-first weekday onto the Monday=0 … Sunday=6
// indexing used by the stored configuration.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, err
	}
	return normalizeDate(t), nil
}

func parseWeekendDays(stored string) map[int]struct{} {
	set := make(map[int]struct{})
	for _, part := range strings.Split(stored, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil || d < 0 || d > 6 {
			continue
		}
		set[d] = struct{}{}
	}
	return set
}

func formatWeekendDays(set map[int]struct{}) string {
	days := sortedWeekdays(set)
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func sortedWeekdays(set map[int]struct{}) []int {
	days := make([]int, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}
