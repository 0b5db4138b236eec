package dto

// ListFilter narrows admin listings. SortBy values are matched against a
// per-listing allow list in the repository; anything else falls back to the
// default column. Reflective field access is deliberately not supported.
type ListFilter struct {
	Search     string `form:"search"`
	EmployeeID string `form:"employee_id"`
	Status     string `form:"status"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

// EmployeeItem is a directory row for admin listings.
type EmployeeItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}
