package dto

// ApplyLeaveRequest is a leave application payload. Dates use YYYY-MM-DD.
type ApplyLeaveRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Reason    string `json:"reason"`
	LeaveType string `json:"leave_type"`
}

// ApplyLeaveResponse confirms a persisted application with its frozen
// working-day count.
type ApplyLeaveResponse struct {
	ID          string `json:"id"`
	WorkingDays int    `json:"working_days"`
}

// LeaveItem is a leave request row for API consumption.
type LeaveItem struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason"`
	LeaveType   string `json:"leave_type"`
	WorkingDays int    `json:"working_days"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// DecideRequest transitions a pending request to a terminal status.
type DecideRequest struct {
	Status string `json:"status" validate:"required"`
}

// AdjustBalanceRequest sets the annual allocation of an employee-year.
type AdjustBalanceRequest struct {
	Year        int `json:"year" validate:"required,gte=2000,lte=2100"`
	TotalLeaves int `json:"total_leaves" validate:"gte=0"`
}
