package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartattend/attendance-api/internal/models"
	"github.com/smartattend/attendance-api/pkg/config"
	appErrors "github.com/smartattend/attendance-api/pkg/errors"
	"github.com/smartattend/attendance-api/pkg/mailer"
)

type staffStub struct {
	employees []models.Employee
}

func (s staffStub) ListStaff(ctx context.Context) ([]models.Employee, error) {
	return s.employees, nil
}

type reportAttendanceStub struct {
	records []models.Attendance
}

func (s reportAttendanceStub) ListForDate(ctx context.Context, date time.Time) ([]models.Attendance, error) {
	return s.records, nil
}

type reportCacheStub struct {
	values   map[string][]byte
	lockHeld bool
	sets     []string
	releases []string
}

func (s *reportCacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (s *reportCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	s.sets = append(s.sets, key)
	return nil
}

func (s *reportCacheStub) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return !s.lockHeld, nil
}

func (s *reportCacheStub) ReleaseLock(ctx context.Context, key string) {
	s.releases = append(s.releases, key)
}

type mailerStub struct {
	sent []mailer.Message
	err  error
}

func (m *mailerStub) Send(ctx context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type runRecorderStub struct {
	results []string
}

func (r *runRecorderStub) RecordReportRun(result string) {
	r.results = append(r.results, result)
}

func reportTestService(staff staffStub, att reportAttendanceStub, cache *reportCacheStub, mail *mailerStub) *ReportService {
	clock := officeTestClock(time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC))
	cfg := config.ReportsConfig{
		Sender:     "reports@example.com",
		Recipients: []string{"hr@example.com"},
		LockTTL:    20 * time.Hour,
		CacheTTL:   24 * time.Hour,
	}
	var m mailer.Mailer
	if mail != nil {
		m = mail
	}
	var c reportCache
	if cache != nil {
		c = cache
	}
	return NewReportService(staff, att, c, nil, m, clock, nil, cfg, nil)
}

func TestReportBuildMarksPresentAndAbsent(t *testing.T) {
	in := time.Date(2026, 3, 2, 4, 30, 0, 0, time.UTC)
	out := time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC)
	staff := staffStub{employees: []models.Employee{
		{ID: "emp-1", Name: "Asha", Email: "asha@example.com"},
		{ID: "emp-2", Name: "Ravi", Email: "ravi@example.com"},
	}}
	att := reportAttendanceStub{records: []models.Attendance{
		{ID: "att-1", EmployeeID: "emp-1", Date: day(2026, 3, 2), CheckInTime: &in, CheckOutTime: &out},
	}}
	svc := reportTestService(staff, att, nil, nil)

	report, err := svc.Build(context.Background(), day(2026, 3, 2))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", report.Date)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Present)
	assert.Equal(t, 1, report.Absent)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "Present", report.Rows[0].Status)
	// 04:30 UTC is 10:00 IST.
	assert.Equal(t, "10:00 AM", report.Rows[0].CheckIn)
	assert.Equal(t, "6:00 PM", report.Rows[0].CheckOut)
	assert.Equal(t, "Absent", report.Rows[1].Status)
	assert.Equal(t, "-", report.Rows[1].CheckIn)
}

func TestReportRunDeliversAttachments(t *testing.T) {
	staff := staffStub{employees: []models.Employee{{ID: "emp-1", Name: "Asha", Email: "asha@example.com"}}}
	cache := &reportCacheStub{}
	mail := &mailerStub{}
	svc := reportTestService(staff, reportAttendanceStub{}, cache, mail)

	err := svc.Run(context.Background(), day(2026, 3, 2))
	require.NoError(t, err)
	require.Len(t, mail.sent, 1)
	msg := mail.sent[0]
	assert.Equal(t, []string{"hr@example.com"}, msg.To)
	require.Len(t, msg.Attachments, 2)
	assert.Equal(t, "attendance_2026-03-02.csv", msg.Attachments[0].Filename)
	assert.Equal(t, "attendance_2026-03-02.pdf", msg.Attachments[1].Filename)
	assert.NotEmpty(t, msg.Attachments[0].Data)
	assert.NotEmpty(t, msg.Attachments[1].Data)
	assert.NotEmpty(t, cache.sets)
	assert.Empty(t, cache.releases)
}

func TestReportRunSkipsWhenLockHeld(t *testing.T) {
	cache := &reportCacheStub{lockHeld: true}
	mail := &mailerStub{}
	svc := reportTestService(staffStub{}, reportAttendanceStub{}, cache, mail)

	err := svc.Run(context.Background(), day(2026, 3, 2))
	require.NoError(t, err)
	assert.Empty(t, mail.sent)
}

func TestReportRunReleasesLockOnDeliveryFailure(t *testing.T) {
	cache := &reportCacheStub{}
	mail := &mailerStub{err: assert.AnError}
	svc := reportTestService(staffStub{}, reportAttendanceStub{}, cache, mail)

	err := svc.Run(context.Background(), day(2026, 3, 2))
	require.Error(t, err)
	require.Len(t, cache.releases, 1)
	assert.Equal(t, "reports:lock:2026-03-02", cache.releases[0])
}

func TestReportRunRecordsOutcome(t *testing.T) {
	staff := staffStub{employees: []models.Employee{{ID: "emp-1", Name: "Asha", Email: "asha@example.com"}}}
	recorder := &runRecorderStub{}
	svc := reportTestService(staff, reportAttendanceStub{}, &reportCacheStub{}, &mailerStub{})
	svc.metrics = recorder

	require.NoError(t, svc.Run(context.Background(), day(2026, 3, 2)))
	assert.Equal(t, []string{"success"}, recorder.results)

	failing := reportTestService(staff, reportAttendanceStub{}, &reportCacheStub{}, &mailerStub{err: assert.AnError})
	failing.metrics = recorder
	require.Error(t, failing.Run(context.Background(), day(2026, 3, 2)))
	assert.Equal(t, []string{"success", "failure"}, recorder.results)
}

func TestReportRenderCSVIncludesAllRows(t *testing.T) {
	staff := staffStub{employees: []models.Employee{
		{ID: "emp-1", Name: "Asha", Email: "asha@example.com"},
		{ID: "emp-2", Name: "Ravi", Email: "ravi@example.com"},
	}}
	svc := reportTestService(staff, reportAttendanceStub{}, nil, nil)

	report, err := svc.Build(context.Background(), day(2026, 3, 2))
	require.NoError(t, err)
	payload, err := svc.RenderCSV(report)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "Asha")
	assert.Contains(t, string(payload), "ravi@example.com")
	assert.Contains(t, string(payload), "Absent")
}

func TestReportSchedulerNextRun(t *testing.T) {
	clock := officeTestClock(time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)) // 11:30 IST
	scheduler := NewReportScheduler(nil, clock, 18, 0, nil)

	// Next run is 22:00 IST today, 10.5 hours ahead.
	wait := scheduler.untilNextRun(clock.Now())
	assert.Equal(t, 10*time.Hour+30*time.Minute, wait)

	// Past today's send time the run moves to tomorrow.
	late := time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC) // 22:30 IST
	wait = scheduler.untilNextRun(late)
	assert.Equal(t, 23*time.Hour+30*time.Minute, wait)
}
