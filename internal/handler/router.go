package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/smartattend/attendance-api/internal/middleware"
	"github.com/smartattend/attendance-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Calendar   *CalendarHandler
	Leave      *LeaveHandler
	Tour       *TourHandler
	Attendance *AttendanceHandler
	Report     *ReportHandler
	Directory  *DirectoryHandler
}

// RegisterRoutes attaches the API surface to the router group. Employee
// routes require a valid token; admin routes additionally require the admin
// role.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, tokens *service.TokenService) {
	api.Use(middleware.JWT(tokens))

	calendar := api.Group("/calendar")
	{
		calendar.GET("/weekend", h.Calendar.GetWeekend)
		calendar.GET("/holidays", h.Calendar.ListHolidays)
		calendar.GET("/working-days", h.Calendar.WorkingDays)
	}

	leaves := api.Group("/leaves")
	{
		leaves.POST("", h.Leave.Apply)
		leaves.GET("", h.Leave.ListMine)
		leaves.GET("/balance", h.Leave.Balance)
	}

	tours := api.Group("/tours")
	{
		tours.POST("", h.Tour.Apply)
		tours.GET("", h.Tour.ListMine)
	}

	attendance := api.Group("/attendance")
	{
		attendance.GET("", h.Attendance.ListMine)
		attendance.POST("/check-in", h.Attendance.CheckIn)
		attendance.POST("/check-out", h.Attendance.CheckOut)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.PUT("/calendar/weekend", h.Calendar.UpdateWeekend)
		admin.POST("/calendar/holidays", h.Calendar.AddHoliday)
		admin.DELETE("/calendar/holidays/:id", h.Calendar.DeleteHoliday)
		admin.POST("/calendar/holidays/seed", h.Calendar.SeedHolidays)

		admin.GET("/leaves", h.Leave.List)
		admin.PATCH("/leaves/:id/decision", h.Leave.Decide)
		admin.PUT("/employees/:id/leave-balance", h.Leave.AdjustBalance)

		admin.GET("/tours", h.Tour.List)
		admin.PATCH("/tours/:id/decision", h.Tour.Decide)

		admin.GET("/employees", h.Directory.List)

		admin.GET("/reports/daily", h.Report.Daily)
		admin.POST("/reports/daily/run", h.Report.Trigger)
	}
}
