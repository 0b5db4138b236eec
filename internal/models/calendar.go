package models

import "time"

// HolidayType distinguishes officially gazetted holidays from optional
// restricted ones.
type HolidayType string

const (
	HolidayTypeGazetted   HolidayType = "gazetted"
	HolidayTypeRestricted HolidayType = "restricted"
)

// Valid returns true when the type is a supported value.
func (t HolidayType) Valid() bool {
	switch t {
	case HolidayTypeGazetted, HolidayTypeRestricted:
		return true
	default:
		return false
	}
}

// Holiday is a non-working calendar date. At most one row exists per date.
type Holiday struct {
	ID   string      `db:"id" json:"id"`
	Date time.Time   `db:"date" json:"date"`
	Name string      `db:"name" json:"name"`
	Type HolidayType `db:"holiday_type" json:"type"`
}

// WeekendConfig is the process-wide set of non-working weekdays, stored as a
// comma-separated list of weekday indices (Monday=0 … Sunday=6). A single row
// exists; it is created lazily with the Sunday-only default.
type WeekendConfig struct {
	ID          string `db:"id" json:"id"`
	WeekendDays string `db:"weekend_days" json:"weekend_days"`
}

// DefaultWeekendDays is the stored form of the Sunday-only default.
const DefaultWeekendDays = "6"
