package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cardwatch/backend/internal/model"
	"github.com/cardwatch/backend/internal/repository"
)

type MockReportRepo struct {
	mock.Mock
}

func (m *MockReportRepo) Save(ctx context.Context, report *model.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepo) GetByPeriod(ctx context.Context, reportType model.ReportType, periodStart time.Time) (*model.Report, error) {
	args := m.Called(ctx, reportType, periodStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

type MockAlertStateRepo struct {
	mock.Mock
}

func (m *MockAlertStateRepo) GetLastLevel(ctx context.Context, reportType model.ReportType, periodStart time.Time) (model.ThresholdLevel, error) {
	args := m.Called(ctx, reportType, periodStart)
	return args.Get(0).(model.ThresholdLevel), args.Error(1)
}

func (m *MockAlertStateRepo) RaiseLevel(ctx context.Context, reportType model.ReportType, periodStart time.Time, level model.ThresholdLevel) (bool, error) {
	args := m.Called(ctx, reportType, periodStart, level)
	return args.Bool(0), args.Error(1)
}

type MockThresholdProvider struct {
	mock.Mock
}

func (m *MockThresholdProvider) GetThresholdTable(ctx context.Context, reportType model.ReportType) (*model.ThresholdTable, error) {
	args := m.Called(ctx, reportType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ThresholdTable), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendAlert(ctx context.Context, event *model.AlertEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type reportServiceMocks struct {
	usageRepo  *MockCardUsageRepo
	reportRepo *MockReportRepo
	alertRepo  *MockAlertStateRepo
	thresholds *MockThresholdProvider
	notifier   *MockNotifier
}

func newTestReportService(t *testing.T) (*ReportService, *reportServiceMocks, *time.Location) {
	t.Helper()

	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	m := &reportServiceMocks{
		usageRepo:  new(MockCardUsageRepo),
		reportRepo: new(MockReportRepo),
		alertRepo:  new(MockAlertStateRepo),
		thresholds: new(MockThresholdProvider),
		notifier:   new(MockNotifier),
	}
	svc := NewReportService(m.usageRepo, m.reportRepo, m.alertRepo, m.thresholds, m.notifier, loc, nil)
	return svc, m, loc
}

func weeklyTable() *model.ThresholdTable {
	return &model.ThresholdTable{
		ReportType: model.ReportTypeWeekly,
		Level1:     1000,
		Level2:     5000,
		Level3:     10000,
	}
}

func usagesTotaling(amounts ...int64) []model.CardUsage {
	usages := make([]model.CardUsage, len(amounts))
	for i, a := range amounts {
		usages[i] = model.CardUsage{Amount: a, CardCompany: model.CardCompanyMUFG}
	}
	return usages
}

func TestReportService_Generate_CrossesLevelAndAlerts(t *testing.T) {
	svc, m, loc := newTestReportService(t)

	// Monday 2025-01-20 in JST.
	periodStart := time.Date(2025, 1, 20, 0, 0, 0, 0, loc)
	periodEnd := periodStart.AddDate(0, 0, 7)

	m.usageRepo.On("QueryRange", mock.Anything, periodStart, periodEnd).
		Return(usagesTotaling(3000, 4000), nil)
	m.thresholds.On("GetThresholdTable", mock.Anything, model.ReportTypeWeekly).
		Return(weeklyTable(), nil)
	m.alertRepo.On("RaiseLevel", mock.Anything, model.ReportTypeWeekly, periodStart, model.ThresholdLevel2).
		Return(true, nil)
	m.notifier.On("SendAlert", mock.Anything, mock.Anything).Return(nil)
	m.reportRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	report, alert, err := svc.Generate(context.Background(), model.ReportTypeWeekly, periodStart)

	require.NoError(t, err)
	assert.Equal(t, int64(7000), report.TotalAmount)
	assert.Equal(t, 2, report.UsageCount)
	assert.Equal(t, model.ThresholdLevel2, report.CrossedLevel)

	require.NotNil(t, alert)
	assert.Equal(t, model.ThresholdLevel2, alert.Level)
	assert.Equal(t, int64(7000), alert.TotalAmount)
	assert.True(t, alert.PeriodEnd.Equal(periodEnd))

	m.notifier.AssertNumberOfCalls(t, "SendAlert", 1)
	m.usageRepo.AssertExpectations(t)
	m.alertRepo.AssertExpectations(t)
	m.reportRepo.AssertExpectations(t)
}

func TestReportService_Generate_RerunEmitsNothing(t *testing.T) {
	svc, m, loc := newTestReportService(t)

	periodStart := time.Date(2025, 1, 20, 0, 0, 0, 0, loc)
	periodEnd := periodStart.AddDate(0, 0, 7)

	m.usageRepo.On("QueryRange", mock.Anything, periodStart, periodEnd).
		Return(usagesTotaling(7000), nil)
	m.thresholds.On("GetThresholdTable", mock.Anything, model.ReportTypeWeekly).
		Return(weeklyTable(), nil)
	// The level is already recorded, so the compare-and-raise declines.
	m.alertRepo.On("RaiseLevel", mock.Anything, model.ReportTypeWeekly, periodStart, model.ThresholdLevel2).
		Return(false, nil)
	m.reportRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	report, alert, err := svc.Generate(context.Background(), model.ReportTypeWeekly, periodStart)

	require.NoError(t, err)
	assert.Equal(t, model.ThresholdLevel2, report.CrossedLevel)
	assert.Nil(t, alert)
	m.notifier.AssertNotCalled(t, "SendAlert", mock.Anything, mock.Anything)
}

func TestReportService_Generate_MonotonicLevelIncrease(t *testing.T) {
	svc, m, loc := newTestReportService(t)

	periodStart := time.Date(2025, 1, 20, 0, 0, 0, 0, loc)
	periodEnd := periodStart.AddDate(0, 0, 7)

	// Spend has grown past level 3 since the level 2 alert.
	m.usageRepo.On("QueryRange", mock.Anything, periodStart, periodEnd).
		Return(usagesTotaling(7000, 5000), nil)
	m.thresholds.On("GetThresholdTable", mock.Anything, model.ReportTypeWeekly).
		Return(weeklyTable(), nil)
	m.alertRepo.On("RaiseLevel", mock.Anything, model.ReportTypeWeekly, periodStart, model.ThresholdLevel3).
		Return(true, nil)
	m.notifier.On("SendAlert", mock.Anything, mock.MatchedBy(func(e *model.AlertEvent) bool {
		return e.Level == model.ThresholdLevel3
	})).Return(nil)
	m.reportRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	_, alert, err := svc.Generate(context.Background(), model.ReportTypeWeekly, periodStart)

	require.NoError(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, model.ThresholdLevel3, alert.Level)
}

func TestReportService_Generate_EmptyPeriod(t *testing.T) {
	svc, m, loc := newTestReportService(t)

	periodStart := time.Date(2025, 2, 1, 0, 0, 0, 0, loc)
	periodEnd := periodStart.AddDate(0, 1, 0)

	m.usageRepo.On("QueryRange", mock.Anything, periodStart, periodEnd).
		Return([]model.CardUsage{}, nil)
	m.thresholds.On("GetThresholdTable", mock.Anything, model.ReportTypeMonthly).
		Return(&model.ThresholdTable{ReportType: model.ReportTypeMonthly, Level1: 50000, Level2: 100000, Level3: 200000}, nil)
	m.reportRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	report, alert, err := svc.Generate(context.Background(), model.ReportTypeMonthly, periodStart)

	require.NoError(t, err)
	assert.Equal(t, int64(0), report.TotalAmount)
	assert.Equal(t, 0, report.UsageCount)
	assert.Equal(t, model.ThresholdLevelNone, report.CrossedLevel)
	assert.Nil(t, alert)
	m.alertRepo.AssertNotCalled(t, "RaiseLevel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.notifier.AssertNotCalled(t, "SendAlert", mock.Anything, mock.Anything)
}

func TestReportService_Generate_MisalignedPeriod(t *testing.T) {
	svc, m, loc := newTestReportService(t)

	// 2025-01-21 is a Tuesday.
	_, _, err := svc.Generate(context.Background(), model.ReportTypeWeekly, time.Date(2025, 1, 21, 0, 0, 0, 0, loc))
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, _, err = svc.Generate(context.Background(), model.ReportTypeMonthly, time.Date(2025, 1, 15, 0, 0, 0, 0, loc))
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	m.usageRepo.AssertNotCalled(t, "QueryRange", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_Generate_ThresholdsUnavailable(t *testing.T) {
	svc, m, loc := newTestReportService(t)

	periodStart := time.Date(2025, 1, 20, 0, 0, 0, 0, loc)
	periodEnd := periodStart.AddDate(0, 0, 7)

	m.usageRepo.On("QueryRange", mock.Anything, periodStart, periodEnd).
		Return(usagesTotaling(7000), nil)
	m.thresholds.On("GetThresholdTable", mock.Anything, model.ReportTypeWeekly).
		Return(nil, repository.ErrThresholdConfigUnavailable)

	report, alert, err := svc.Generate(context.Background(), model.ReportTypeWeekly, periodStart)

	assert.ErrorIs(t, err, repository.ErrThresholdConfigUnavailable)
	assert.Nil(t, report)
	assert.Nil(t, alert)
	// The whole run fails; nothing is persisted or emitted.
	m.reportRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	m.notifier.AssertNotCalled(t, "SendAlert", mock.Anything, mock.Anything)
}

func TestReportService_Generate_DeliveryFailureDoesNotFailRun(t *testing.T) {
	svc, m, loc := newTestReportService(t)

	periodStart := time.Date(2025, 1, 20, 0, 0, 0, 0, loc)
	periodEnd := periodStart.AddDate(0, 0, 7)

	m.usageRepo.On("QueryRange", mock.Anything, periodStart, periodEnd).
		Return(usagesTotaling(2000), nil)
	m.thresholds.On("GetThresholdTable", mock.Anything, model.ReportTypeWeekly).
		Return(weeklyTable(), nil)
	m.alertRepo.On("RaiseLevel", mock.Anything, model.ReportTypeWeekly, periodStart, model.ThresholdLevel1).
		Return(true, nil)
	m.notifier.On("SendAlert", mock.Anything, mock.Anything).Return(errors.New("push endpoint down"))
	m.reportRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	report, alert, err := svc.Generate(context.Background(), model.ReportTypeWeekly, periodStart)

	require.NoError(t, err)
	assert.NotNil(t, report)
	assert.NotNil(t, alert)
}

func TestReportService_GetByPeriod(t *testing.T) {
	svc, m, loc := newTestReportService(t)

	periodStart := time.Date(2025, 1, 20, 0, 0, 0, 0, loc)
	stored := &model.Report{ReportType: model.ReportTypeWeekly, PeriodStart: periodStart, TotalAmount: 7000}

	m.reportRepo.On("GetByPeriod", mock.Anything, model.ReportTypeWeekly, periodStart).
		Return(stored, nil)

	report, err := svc.GetByPeriod(context.Background(), model.ReportTypeWeekly, periodStart)

	require.NoError(t, err)
	assert.Equal(t, int64(7000), report.TotalAmount)
}

func TestReportService_CurrentPeriodStart(t *testing.T) {
	svc, _, loc := newTestReportService(t)

	// Wednesday 2025-01-22 15:30 JST.
	now := time.Date(2025, 1, 22, 15, 30, 0, 0, loc)

	weekStart := svc.CurrentPeriodStart(model.ReportTypeWeekly, now)
	assert.True(t, weekStart.Equal(time.Date(2025, 1, 20, 0, 0, 0, 0, loc)))

	monthStart := svc.CurrentPeriodStart(model.ReportTypeMonthly, now)
	assert.True(t, monthStart.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, loc)))
}
