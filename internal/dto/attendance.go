package dto

// CheckResponse confirms a check-in or check-out with the stored UTC time.
type CheckResponse struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// AttendanceItem is an attendance row for API consumption.
type AttendanceItem struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
}
