package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cardwatch/backend/internal/model"
	"github.com/cardwatch/backend/pkg/datetime"
)

// ErrInvalidPeriod means the requested period start is not aligned to a
// week or month boundary in the reference timezone. This is a caller bug
// and is surfaced immediately rather than silently realigned.
var ErrInvalidPeriod = errors.New("period start is not aligned to a period boundary")

// ReportRepositoryInterface defines the contract for report persistence.
type ReportRepositoryInterface interface {
	Save(ctx context.Context, report *model.Report) error
	GetByPeriod(ctx context.Context, reportType model.ReportType, periodStart time.Time) (*model.Report, error)
}

// AlertStateRepositoryInterface tracks the highest alert level already
// emitted per period. RaiseLevel must be atomic: under concurrent report
// runs for the same period, exactly one caller observes raised == true
// per level increase.
type AlertStateRepositoryInterface interface {
	GetLastLevel(ctx context.Context, reportType model.ReportType, periodStart time.Time) (model.ThresholdLevel, error)
	RaiseLevel(ctx context.Context, reportType model.ReportType, periodStart time.Time, level model.ThresholdLevel) (bool, error)
}

// ThresholdProviderInterface supplies the current threshold table. It is
// consulted on every generation run so runtime reconfiguration takes
// effect without a restart.
type ThresholdProviderInterface interface {
	GetThresholdTable(ctx context.Context, reportType model.ReportType) (*model.ThresholdTable, error)
}

// AlertNotifier delivers an emitted alert. Delivery is best effort; the
// engine records the level before dispatching, so a failed send is logged
// and never re-emitted.
type AlertNotifier interface {
	SendAlert(ctx context.Context, event *model.AlertEvent) error
}

// ReportService aggregates card usages into weekly and monthly spending
// reports and emits at most one alert per newly crossed threshold level
// per period.
type ReportService struct {
	usageRepo  CardUsageRepositoryInterface
	reportRepo ReportRepositoryInterface
	alertRepo  AlertStateRepositoryInterface
	thresholds ThresholdProviderInterface
	notifier   AlertNotifier
	loc        *time.Location
	logger     *slog.Logger
}

// NewReportService creates a new ReportService. notifier may be nil,
// in which case alerts are recorded but not delivered anywhere.
func NewReportService(
	usageRepo CardUsageRepositoryInterface,
	reportRepo ReportRepositoryInterface,
	alertRepo AlertStateRepositoryInterface,
	thresholds ThresholdProviderInterface,
	notifier AlertNotifier,
	loc *time.Location,
	logger *slog.Logger,
) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		usageRepo:  usageRepo,
		reportRepo: reportRepo,
		alertRepo:  alertRepo,
		thresholds: thresholds,
		notifier:   notifier,
		loc:        loc,
		logger:     logger,
	}
}

// Generate computes the report for the period starting at periodStart and
// returns it together with the alert emitted for it, if any. The period
// is half-open: usages at the exact period end belong to the next period.
//
// Totals are exact integer sums. An empty period yields a zero report and
// never alerts. Alerting is idempotent and monotonic per period: repeated
// runs with unchanged data emit nothing, and a run that observes a higher
// crossed level than any previously recorded one emits exactly one event
// at the new level.
func (s *ReportService) Generate(ctx context.Context, reportType model.ReportType, periodStart time.Time) (*model.Report, *model.AlertEvent, error) {
	periodStart, periodEnd, err := s.periodBounds(reportType, periodStart)
	if err != nil {
		return nil, nil, err
	}

	usages, err := s.usageRepo.QueryRange(ctx, periodStart, periodEnd)
	if err != nil {
		return nil, nil, fmt.Errorf("querying usages for %s report at %s: %w", reportType, periodStart, err)
	}

	var total int64
	for _, u := range usages {
		total += u.Amount
	}

	// Re-read the table on every run; operators change thresholds at
	// runtime. An unreadable or invalid table fails the whole run
	// (repository.ErrThresholdConfigUnavailable).
	table, err := s.thresholds.GetThresholdTable(ctx, reportType)
	if err != nil {
		return nil, nil, err
	}

	report := &model.Report{
		ReportType:   reportType,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		TotalAmount:  total,
		UsageCount:   len(usages),
		CrossedLevel: table.CrossedLevel(total),
	}

	var event *model.AlertEvent
	if report.CrossedLevel > model.ThresholdLevelNone {
		event, err = s.emitAlert(ctx, report)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := s.reportRepo.Save(ctx, report); err != nil {
		return nil, nil, fmt.Errorf("saving %s report at %s: %w", reportType, periodStart, err)
	}

	return report, event, nil
}

// GetByPeriod returns the stored report for a period.
func (s *ReportService) GetByPeriod(ctx context.Context, reportType model.ReportType, periodStart time.Time) (*model.Report, error) {
	periodStart, _, err := s.periodBounds(reportType, periodStart)
	if err != nil {
		return nil, err
	}
	report, err := s.reportRepo.GetByPeriod(ctx, reportType, periodStart)
	if err != nil {
		return nil, fmt.Errorf("getting %s report at %s: %w", reportType, periodStart, err)
	}
	return report, nil
}

// CurrentPeriodStart returns the start of the period containing now.
func (s *ReportService) CurrentPeriodStart(reportType model.ReportType, now time.Time) time.Time {
	if reportType == model.ReportTypeWeekly {
		return datetime.StartOfWeek(now, s.loc)
	}
	return datetime.StartOfMonth(now, s.loc)
}

// periodBounds validates alignment and computes the half-open window.
func (s *ReportService) periodBounds(reportType model.ReportType, periodStart time.Time) (time.Time, time.Time, error) {
	periodStart = periodStart.In(s.loc)
	switch reportType {
	case model.ReportTypeWeekly:
		if !datetime.IsStartOfWeek(periodStart, s.loc) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %s is not a week start in %s", ErrInvalidPeriod, periodStart, s.loc)
		}
		return periodStart, datetime.WeekEnd(periodStart), nil
	case model.ReportTypeMonthly:
		if !datetime.IsStartOfMonth(periodStart, s.loc) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %s is not a month start in %s", ErrInvalidPeriod, periodStart, s.loc)
		}
		return periodStart, datetime.MonthEnd(periodStart), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: unknown report type %q", ErrInvalidPeriod, reportType)
	}
}

// emitAlert performs the atomic compare-and-raise against the alert state
// and dispatches the event when this run is the one that raised the level.
func (s *ReportService) emitAlert(ctx context.Context, report *model.Report) (*model.AlertEvent, error) {
	raised, err := s.alertRepo.RaiseLevel(ctx, report.ReportType, report.PeriodStart, report.CrossedLevel)
	if err != nil {
		return nil, fmt.Errorf("recording alert level for %s report at %s: %w", report.ReportType, report.PeriodStart, err)
	}
	if !raised {
		return nil, nil
	}

	event := &model.AlertEvent{
		ReportType:  report.ReportType,
		PeriodStart: report.PeriodStart,
		PeriodEnd:   report.PeriodEnd,
		Level:       report.CrossedLevel,
		TotalAmount: report.TotalAmount,
		EmittedAt:   time.Now().In(s.loc),
	}

	if s.notifier != nil {
		// The level is already recorded; a delivery failure is logged and
		// never rolls the record back, so the same level is not re-emitted
		// by a later run.
		if err := s.notifier.SendAlert(ctx, event); err != nil {
			s.logger.Error("alert delivery failed",
				slog.String("report_type", string(event.ReportType)),
				slog.Time("period_start", event.PeriodStart),
				slog.Int("level", int(event.Level)),
				slog.String("error", err.Error()),
			)
		}
	}

	return event, nil
}
