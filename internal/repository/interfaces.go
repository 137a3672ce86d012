package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cardwatch/backend/internal/model"
)

//go:generate mockery --name=CardUsageRepositoryInterface --output=../mocks --outpkg=mocks
type CardUsageRepositoryInterface interface {
	Create(ctx context.Context, usage *model.CardUsage) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.CardUsage, error)
	Delete(ctx context.Context, id uuid.UUID) error
	QueryRange(ctx context.Context, start, end time.Time) ([]model.CardUsage, error)
}

//go:generate mockery --name=ReportRepositoryInterface --output=../mocks --outpkg=mocks
type ReportRepositoryInterface interface {
	Save(ctx context.Context, report *model.Report) error
	GetByPeriod(ctx context.Context, reportType model.ReportType, periodStart time.Time) (*model.Report, error)
}

//go:generate mockery --name=AlertStateRepositoryInterface --output=../mocks --outpkg=mocks
type AlertStateRepositoryInterface interface {
	GetLastLevel(ctx context.Context, reportType model.ReportType, periodStart time.Time) (model.ThresholdLevel, error)
	RaiseLevel(ctx context.Context, reportType model.ReportType, periodStart time.Time, level model.ThresholdLevel) (bool, error)
}

//go:generate mockery --name=ThresholdProviderInterface --output=../mocks --outpkg=mocks
type ThresholdProviderInterface interface {
	GetThresholdTable(ctx context.Context, reportType model.ReportType) (*model.ThresholdTable, error)
}

//go:generate mockery --name=PushRepositoryInterface --output=../mocks --outpkg=mocks
type PushRepositoryInterface interface {
	CreateSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetAllSubscriptions(ctx context.Context) ([]model.PushSubscription, error)
	DeleteSubscriptionByEndpoint(ctx context.Context, endpoint string) error
}
