package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartattend/attendance-api/internal/dto"
	appErrors "github.com/smartattend/attendance-api/pkg/errors"
	"github.com/smartattend/attendance-api/pkg/response"
)

type reportService interface {
	Daily(ctx context.Context, date time.Time) (*dto.DailyReport, error)
	RenderCSV(report *dto.DailyReport) ([]byte, error)
	RenderPDF(report *dto.DailyReport) ([]byte, error)
	EnqueueDaily(date time.Time) error
}

// ReportHandler exposes the daily attendance report.
type ReportHandler struct {
	service reportService
}

// NewReportHandler builds a new handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Daily godoc
// @Summary Get the daily attendance report
// @Tags Reports
// @Produce json
// @Param date query string false "Report date (YYYY-MM-DD), defaults to today"
// @Param format query string false "json, csv or pdf"
// @Success 200 {object} response.Envelope
// @Router /admin/reports/daily [get]
func (h *ReportHandler) Daily(c *gin.Context) {
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	report, err := h.service.Daily(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		response.JSON(c, http.StatusOK, report, nil)
	case "csv":
		payload, err := h.service.RenderCSV(report)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=attendance_%s.csv", report.Date))
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := h.service.RenderPDF(report)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=attendance_%s.pdf", report.Date))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be json, csv or pdf"))
	}
}

// Trigger godoc
// @Summary Queue a daily report delivery run
// @Tags Reports
// @Produce json
// @Param date query string false "Report date (YYYY-MM-DD), defaults to today"
// @Success 202 {object} response.Envelope
// @Router /admin/reports/daily/run [post]
func (h *ReportHandler) Trigger(c *gin.Context) {
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
			return
		}
		date = parsed
	}
	if err := h.service.EnqueueDaily(date); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"queued": date.Format(time.DateOnly)}, nil)
}
