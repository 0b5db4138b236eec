package dto

// DailyReportRow is one employee's line in the daily attendance report.
type DailyReportRow struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Status   string `json:"status"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

// DailyReport is the attendance summary for one office-local day.
type DailyReport struct {
	Date    string           `json:"date"`
	Present int              `json:"present"`
	Absent  int              `json:"absent"`
	Total   int              `json:"total"`
	Rows    []DailyReportRow `json:"rows"`
}
