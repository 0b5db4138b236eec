package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// reportSendDelay is how long after office close the daily report fires,
// leaving room for late check-outs.
const reportSendDelay = 4 * time.Hour

// ReportScheduler enqueues the daily report job once per office day.
type ReportScheduler struct {
	reports  *ReportService
	clock    *OfficeClock
	endHour  int
	endMin   int
	logger   *zap.Logger
	interval func(time.Time) time.Duration
}

// NewReportScheduler constructs a scheduler around the office closing time.
func NewReportScheduler(reports *ReportService, clock *OfficeClock, endHour, endMinute int, logger *zap.Logger) *ReportScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ReportScheduler{
		reports: reports,
		clock:   clock,
		endHour: endHour,
		endMin:  endMinute,
		logger:  logger,
	}
	s.interval = s.untilNextRun
	return s
}

// Start boots a goroutine that sleeps until the next send time and enqueues
// the report for that day. Cancelling the context stops it.
func (s *ReportScheduler) Start(ctx context.Context) {
	go func() {
		for {
			wait := s.interval(s.clock.Now())
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				date := s.clock.Today()
				if err := s.reports.EnqueueDaily(date); err != nil {
					s.logger.Warn("failed to enqueue daily report", zap.Error(err))
				}
			}
		}
	}()
}

// untilNextRun computes the wait until the next office-local send time,
// which is office close plus the send delay.
func (s *ReportScheduler) untilNextRun(now time.Time) time.Duration {
	local := now.In(s.clock.Location())
	next := time.Date(local.Year(), local.Month(), local.Day(), s.endHour, s.endMin, 0, 0, s.clock.Location()).Add(reportSendDelay)
	if !next.After(local) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(local)
}
