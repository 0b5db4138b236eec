package service

import (
	"time"

	"github.com/smartattend/attendance-api/pkg/config"
)

// OfficeClock resolves "today" relative to the configured office timezone.
// The database stores instants in UTC; only day boundaries and display
// formatting are office-local.
type OfficeClock struct {
	loc *time.Location
	now func() time.Time
}

// NewOfficeClock builds a clock from the office configuration. An unknown
// timezone name falls back to UTC.
func NewOfficeClock(cfg config.OfficeConfig) *OfficeClock {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return &OfficeClock{loc: loc, now: time.Now}
}

// Now returns the current instant in UTC.
func (c *OfficeClock) Now() time.Time {
	return c.now().UTC()
}

// Today returns the current office-local date, normalized to UTC midnight
// for storage and comparison.
func (c *OfficeClock) Today() time.Time {
	local := c.now().In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// Location exposes the office timezone.
func (c *OfficeClock) Location() *time.Location {
	return c.loc
}

// FormatLocal renders a stored UTC instant as an office-local clock time.
func (c *OfficeClock) FormatLocal(t time.Time) string {
	return t.In(c.loc).Format("3:04 PM")
}
