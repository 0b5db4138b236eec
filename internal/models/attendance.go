package models

import "time"

// Attendance is one employee's record for one office-local day.
// Check-in and check-out times are stored in UTC.
type Attendance struct {
	ID           string     `db:"id" json:"id"`
	EmployeeID   string     `db:"employee_id" json:"employee_id"`
	Date         time.Time  `db:"date" json:"date"`
	CheckInTime  *time.Time `db:"check_in_time" json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `db:"check_out_time" json:"check_out_time,omitempty"`
}

// CheckedIn reports whether the record has a check-in.
func (a *Attendance) CheckedIn() bool {
	return a != nil && a.CheckInTime != nil
}

// CheckedOut reports whether the record has a check-out.
func (a *Attendance) CheckedOut() bool {
	return a != nil && a.CheckOutTime != nil
}
