package models

import "time"

// LeaveType controls whether a request debits the annual paid allocation.
type LeaveType string

const (
	LeaveTypePaid   LeaveType = "paid"
	LeaveTypeUnpaid LeaveType = "unpaid"
)

// Valid returns true when the leave type is a supported value.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypePaid, LeaveTypeUnpaid:
		return true
	default:
		return false
	}
}

// RequestStatus is the lifecycle state shared by leave and tour requests.
// pending is initial; approved and rejected are terminal.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Terminal reports whether no further transition is allowed.
func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ValidDecision returns true for the statuses an admin may set.
func (s RequestStatus) ValidDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// LeaveRequest is a leave application. WorkingDays is computed once at
// creation from the calendar state of that moment and never recomputed.
type LeaveRequest struct {
	ID          string        `db:"id" json:"id"`
	EmployeeID  string        `db:"employee_id" json:"employee_id"`
	StartDate   time.Time     `db:"start_date" json:"start_date"`
	EndDate     time.Time     `db:"end_date" json:"end_date"`
	Reason      string        `db:"reason" json:"reason"`
	LeaveType   LeaveType     `db:"leave_type" json:"leave_type"`
	WorkingDays int           `db:"working_days" json:"working_days"`
	Status      RequestStatus `db:"status" json:"status"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// LeaveBalance is the per-employee, per-year paid leave allocation.
// Unique on (employee_id, year).
type LeaveBalance struct {
	ID          string `db:"id" json:"id"`
	EmployeeID  string `db:"employee_id" json:"employee_id"`
	Year        int    `db:"year" json:"year"`
	TotalLeaves int    `db:"total_leaves" json:"total_leaves"`
}

// BalanceSummary is the derived view of an employee-year allocation.
// Available is clamped at zero even when used+pending exceeds total.
type BalanceSummary struct {
	Year      int `json:"year"`
	Total     int `json:"total"`
	Used      int `json:"used"`
	Pending   int `json:"pending"`
	Available int `json:"available"`
}
