package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartattend/attendance-api/internal/dto"
	"github.com/smartattend/attendance-api/internal/models"
	"github.com/smartattend/attendance-api/pkg/config"
	appErrors "github.com/smartattend/attendance-api/pkg/errors"
	"github.com/smartattend/attendance-api/pkg/export"
	"github.com/smartattend/attendance-api/pkg/jobs"
	"github.com/smartattend/attendance-api/pkg/mailer"
)

type staffLister interface {
	ListStaff(ctx context.Context) ([]models.Employee, error)
}

type attendanceReader interface {
	ListForDate(ctx context.Context, date time.Time) ([]models.Attendance, error)
}

type reportCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseLock(ctx context.Context, key string)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type runRecorder interface {
	RecordReportRun(result string)
}

const reportJobType = "daily_attendance_report"

// ReportService builds the daily attendance report, caches the rendered
// payload, and emails it to the configured recipients.
type ReportService struct {
	staff      staffLister
	attendance attendanceReader
	cache      reportCache
	queue      jobDispatcher
	mail       mailer.Mailer
	clock      *OfficeClock
	metrics    runRecorder
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	cfg        config.ReportsConfig
	logger     *zap.Logger
}

// NewReportService constructs the service. metrics may be nil.
func NewReportService(staff staffLister, attendance attendanceReader, cache reportCache, queue jobDispatcher, mail mailer.Mailer, clock *OfficeClock, metrics runRecorder, cfg config.ReportsConfig, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = NewOfficeClock(config.OfficeConfig{})
	}
	return &ReportService{
		staff:      staff,
		attendance: attendance,
		cache:      cache,
		queue:      queue,
		mail:       mail,
		clock:      clock,
		metrics:    metrics,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		cfg:        cfg,
		logger:     logger,
	}
}

// SetQueue wires the dispatcher after construction. The queue's handler needs
// the service, so the two are linked in main once both exist.
func (s *ReportService) SetQueue(queue jobDispatcher) {
	s.queue = queue
}

// Build assembles the report for one office-local date. Every non-admin
// employee appears exactly once; those without a check-in are Absent.
func (s *ReportService) Build(ctx context.Context, date time.Time) (*dto.DailyReport, error) {
	date = normalizeDate(date)

	employees, err := s.staff.ListStaff(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}
	records, err := s.attendance.ListForDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}

	byEmployee := make(map[string]models.Attendance, len(records))
	for _, rec := range records {
		byEmployee[rec.EmployeeID] = rec
	}

	report := &dto.DailyReport{
		Date:  date.Format(time.DateOnly),
		Total: len(employees),
		Rows:  make([]dto.DailyReportRow, 0, len(employees)),
	}
	for _, emp := range employees {
		row := dto.DailyReportRow{Name: emp.Name, Email: emp.Email, Status: "Absent", CheckIn: "-", CheckOut: "-"}
		if rec, ok := byEmployee[emp.ID]; ok && rec.CheckedIn() {
			row.Status = "Present"
			row.CheckIn = s.clock.FormatLocal(*rec.CheckInTime)
			if rec.CheckedOut() {
				row.CheckOut = s.clock.FormatLocal(*rec.CheckOutTime)
			}
			report.Present++
		}
		report.Rows = append(report.Rows, row)
	}
	report.Absent = report.Total - report.Present
	return report, nil
}

// Daily returns the report for a date, preferring the cached copy written by
// the last scheduled run.
func (s *ReportService) Daily(ctx context.Context, date time.Time) (*dto.DailyReport, error) {
	date = normalizeDate(date)
	key := s.cacheKey(date)

	if s.cache != nil {
		var cached dto.DailyReport
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("report cache read failed", zap.Error(err))
		}
	}

	report, err := s.Build(ctx, date)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, report, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("report cache write failed", zap.Error(err))
		}
	}
	return report, nil
}

// RenderCSV serializes a report as CSV bytes.
func (s *ReportService) RenderCSV(report *dto.DailyReport) ([]byte, error) {
	return s.csv.Render(s.dataset(report))
}

// RenderPDF serializes a report as PDF bytes.
func (s *ReportService) RenderPDF(report *dto.DailyReport) ([]byte, error) {
	return s.pdf.Render(s.dataset(report))
}

// EnqueueDaily schedules a report run for the given date.
func (s *ReportService) EnqueueDaily(date time.Time) error {
	if s.queue == nil {
		return appErrors.New(appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "report queue not configured")
	}
	return s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    reportJobType,
		Payload: normalizeDate(date).Format(time.DateOnly),
	})
}

// HandleJob is the queue handler. It takes the per-date run lock so only one
// instance emails the report, builds and renders it, and delivers it.
func (s *ReportService) HandleJob(ctx context.Context, job jobs.Job) error {
	raw, ok := job.Payload.(string)
	if !ok {
		return fmt.Errorf("unexpected report payload %T", job.Payload)
	}
	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return fmt.Errorf("parse report date %q: %w", raw, err)
	}
	return s.Run(ctx, date)
}

// Run executes one report delivery for a date.
func (s *ReportService) Run(ctx context.Context, date time.Time) error {
	date = normalizeDate(date)
	lockKey := fmt.Sprintf("reports:lock:%s", date.Format(time.DateOnly))

	if s.cache != nil {
		acquired, err := s.cache.AcquireLock(ctx, lockKey, s.cfg.LockTTL)
		if err != nil {
			return err
		}
		if !acquired {
			s.logger.Info("report already sent for date", zap.String("date", date.Format(time.DateOnly)))
			return nil
		}
	}

	report, err := s.Build(ctx, date)
	if err != nil {
		s.releaseLock(ctx, lockKey)
		s.recordRun("failure")
		return err
	}

	if s.cache != nil {
		if cacheErr := s.cache.Set(ctx, s.cacheKey(date), report, s.cfg.CacheTTL); cacheErr != nil {
			s.logger.Warn("report cache write failed", zap.Error(cacheErr))
		}
	}

	if err := s.deliver(ctx, report); err != nil {
		s.releaseLock(ctx, lockKey)
		s.recordRun("failure")
		return err
	}

	s.recordRun("success")
	s.logger.Info("daily report delivered",
		zap.String("date", report.Date),
		zap.Int("present", report.Present),
		zap.Int("absent", report.Absent))
	return nil
}

func (s *ReportService) deliver(ctx context.Context, report *dto.DailyReport) error {
	if s.mail == nil || len(s.cfg.Recipients) == 0 {
		s.logger.Info("report delivery skipped, no mailer or recipients configured")
		return nil
	}

	csvBytes, err := s.RenderCSV(report)
	if err != nil {
		return fmt.Errorf("render report csv: %w", err)
	}
	pdfBytes, err := s.RenderPDF(report)
	if err != nil {
		return fmt.Errorf("render report pdf: %w", err)
	}

	msg := mailer.Message{
		From:    s.cfg.Sender,
		To:      s.cfg.Recipients,
		Subject: fmt.Sprintf("Daily Attendance Report - %s", report.Date),
		Body: fmt.Sprintf("Attendance summary for %s: %d present, %d absent out of %d employees.",
			report.Date, report.Present, report.Absent, report.Total),
		Attachments: []mailer.Attachment{
			{Filename: fmt.Sprintf("attendance_%s.csv", report.Date), ContentType: "text/csv", Data: csvBytes},
			{Filename: fmt.Sprintf("attendance_%s.pdf", report.Date), ContentType: "application/pdf", Data: pdfBytes},
		},
	}
	return s.mail.Send(ctx, msg)
}

func (s *ReportService) releaseLock(ctx context.Context, key string) {
	if s.cache != nil {
		s.cache.ReleaseLock(ctx, key)
	}
}

func (s *ReportService) recordRun(result string) {
	if s.metrics != nil {
		s.metrics.RecordReportRun(result)
	}
}

func (s *ReportService) cacheKey(date time.Time) string {
	return fmt.Sprintf("reports:daily:%s", date.Format(time.DateOnly))
}

func (s *ReportService) dataset(report *dto.DailyReport) export.Dataset {
	headers := []string{"Name", "Email", "Status", "Check In", "Check Out"}
	rows := make([]map[string]string, len(report.Rows))
	for i, row := range report.Rows {
		rows[i] = map[string]string{
			"Name":      row.Name,
			"Email":     row.Email,
			"Status":    row.Status,
			"Check In":  row.CheckIn,
			"Check Out": row.CheckOut,
		}
	}
	return export.Dataset{
		Title:    "Daily Attendance Report",
		Subtitle: fmt.Sprintf("%s: %d present, %d absent", report.Date, report.Present, report.Absent),
		Headers:  headers,
		Rows:     rows,
	}
}
