package models

import "time"

// TourRequest is an official travel application. It shares the leave request
// lifecycle but never touches the leave ledger.
type TourRequest struct {
	ID         string        `db:"id" json:"id"`
	EmployeeID string        `db:"employee_id" json:"employee_id"`
	StartDate  time.Time     `db:"start_date" json:"start_date"`
	EndDate    time.Time     `db:"end_date" json:"end_date"`
	Location   string        `db:"location" json:"location"`
	Reason     string        `db:"reason" json:"reason"`
	Status     RequestStatus `db:"status" json:"status"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
}
