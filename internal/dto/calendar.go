package dto

// WeekendConfigResponse reports the configured non-working weekdays
// (Monday=0 … Sunday=6).
type WeekendConfigResponse struct {
	WeekendDays []int `json:"weekend_days"`
}

// UpdateWeekendRequest replaces the configured weekend weekday set.
type UpdateWeekendRequest struct {
	WeekendDays []int `json:"weekend_days" validate:"dive,gte=0,lte=6"`
}

// HolidayItem is a holiday row for API consumption.
type HolidayItem struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// AddHolidayRequest creates a single holiday.
type AddHolidayRequest struct {
	Date string `json:"date" validate:"required"`
	Name string `json:"name" validate:"required"`
	Type string `json:"type"`
}

// SeedHolidaysRequest seeds the built-in gazetted holiday table. Year is
// optional; when omitted every known year is seeded.
type SeedHolidaysRequest struct {
	Year *int `json:"year"`
}

// SeedHolidaysResponse reports how many rows were actually inserted.
type SeedHolidaysResponse struct {
	Inserted int `json:"inserted"`
}
