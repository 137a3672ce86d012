// Package scheduler provides cron-based regeneration of the current
// spending reports so threshold crossings alert during the period, not
// only at its end.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cardwatch/backend/internal/model"
	"github.com/cardwatch/backend/internal/service"
)

// Config holds the scheduler configuration
type Config struct {
	// Schedule is a cron expression for when to regenerate reports (e.g., "0 * * * *" for hourly)
	Schedule string
	// Timeout is the maximum duration for one regeneration cycle
	Timeout time.Duration
	// Enabled determines if the scheduler should run
	Enabled bool
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Schedule: "0 * * * *", // Every hour at minute 0
		Timeout:  2 * time.Minute,
		Enabled:  true,
	}
}

// Scheduler manages scheduled report regeneration jobs
type Scheduler struct {
	cron          *cron.Cron
	reportService *service.ReportService
	config        Config
	logger        *slog.Logger
	entryID       cron.EntryID
}

// New creates a new Scheduler instance
func New(cfg Config, reportService *service.ReportService, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		cron:          cron.New(cron.WithSeconds()),
		reportService: reportService,
		config:        cfg,
		logger:        logger,
	}
}

// Start begins the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Enabled {
		s.logger.Info("Scheduler is disabled, skipping start")
		return nil
	}

	// Convert standard cron (5 fields) to cron with seconds (6 fields)
	// Add "0" at the beginning for seconds
	schedule := "0 " + s.config.Schedule

	entryID, err := s.cron.AddFunc(schedule, func() {
		s.runReportJob()
	})
	if err != nil {
		return err
	}

	s.entryID = entryID
	s.cron.Start()

	s.logger.Info("Scheduler started",
		slog.String("schedule", s.config.Schedule),
		slog.Duration("timeout", s.config.Timeout),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("Stopping scheduler...")
	return s.cron.Stop()
}

// RunNow triggers an immediate regeneration (useful for manual triggers)
func (s *Scheduler) RunNow() {
	go s.runReportJob()
}

// runReportJob regenerates the report for the current week and the
// current month. Alert state is monotonic, so rerunning over the same
// period never re-sends an alert.
func (s *Scheduler) runReportJob() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Info("Starting scheduled report job",
		slog.Time("start_time", startTime),
	)

	now := time.Now()
	for _, reportType := range []model.ReportType{model.ReportTypeWeekly, model.ReportTypeMonthly} {
		periodStart := s.reportService.CurrentPeriodStart(reportType, now)

		report, alert, err := s.reportService.Generate(ctx, reportType, periodStart)
		if err != nil {
			s.logger.Error("Report regeneration failed",
				slog.String("report_type", string(reportType)),
				slog.Time("period_start", periodStart),
				slog.String("error", err.Error()),
			)
			continue
		}

		attrs := []any{
			slog.String("report_type", string(reportType)),
			slog.Time("period_start", periodStart),
			slog.Int64("total_amount", report.TotalAmount),
		}
		if alert != nil {
			attrs = append(attrs, slog.Int("alert_level", int(alert.Level)))
		}
		s.logger.Info("Report regenerated", attrs...)
	}

	s.logger.Info("Report job completed",
		slog.Duration("duration", time.Since(startTime)),
	)
}
