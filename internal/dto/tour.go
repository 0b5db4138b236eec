package dto

// ApplyTourRequest is an official travel application. Dates use YYYY-MM-DD.
type ApplyTourRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Location  string `json:"location" validate:"required"`
	Reason    string `json:"reason"`
}

// TourItem is a tour request row for API consumption.
type TourItem struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id,omitempty"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Location   string `json:"location"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at,omitempty"`
}
