package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cardwatch/backend/internal/extractor"
	"github.com/cardwatch/backend/internal/model"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(emailText string, known *model.CardCompany) (*model.CardUsage, error) {
	args := m.Called(emailText, known)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CardUsage), args.Error(1)
}

type MockCardUsageRepo struct {
	mock.Mock
}

func (m *MockCardUsageRepo) Create(ctx context.Context, usage *model.CardUsage) error {
	args := m.Called(ctx, usage)
	return args.Error(0)
}

func (m *MockCardUsageRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.CardUsage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CardUsage), args.Error(1)
}

func (m *MockCardUsageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCardUsageRepo) QueryRange(ctx context.Context, start, end time.Time) ([]model.CardUsage, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CardUsage), args.Error(1)
}

func TestCardUsageService_CreateFromEmail(t *testing.T) {
	mockExtractor := new(MockExtractor)
	mockRepo := new(MockCardUsageRepo)
	svc := NewCardUsageService(mockExtractor, mockRepo)

	extracted := &model.CardUsage{
		CardName:      "Ｄ　三菱ＵＦＪ－ＪＣＢデビット",
		Amount:        390,
		WhereToUse:    "マツヤ",
		DatetimeOfUse: time.Now(),
		CardCompany:   model.CardCompanyMUFG,
	}

	mockExtractor.On("Extract", "email body", (*model.CardCompany)(nil)).Return(extracted, nil)
	mockRepo.On("Create", mock.Anything, extracted).Return(nil)

	usage, err := svc.CreateFromEmail(context.Background(), "email body", nil)

	require.NoError(t, err)
	assert.Equal(t, extracted, usage)
	mockRepo.AssertExpectations(t)
}

func TestCardUsageService_CreateFromEmail_ExtractionFailure(t *testing.T) {
	mockExtractor := new(MockExtractor)
	mockRepo := new(MockCardUsageRepo)
	svc := NewCardUsageService(mockExtractor, mockRepo)

	mockExtractor.On("Extract", "garbage", (*model.CardCompany)(nil)).
		Return(nil, extractor.ErrUnrecognizedFormat)

	usage, err := svc.CreateFromEmail(context.Background(), "garbage", nil)

	// The extraction error surfaces unchanged and nothing is persisted.
	assert.ErrorIs(t, err, extractor.ErrUnrecognizedFormat)
	assert.Nil(t, usage)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCardUsageService_Get(t *testing.T) {
	mockExtractor := new(MockExtractor)
	mockRepo := new(MockCardUsageRepo)
	svc := NewCardUsageService(mockExtractor, mockRepo)

	id := uuid.New()
	stored := &model.CardUsage{ID: id, Amount: 390}
	mockRepo.On("GetByID", mock.Anything, id).Return(stored, nil)

	usage, err := svc.Get(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, usage.ID)
}

func TestCardUsageService_Delete(t *testing.T) {
	mockExtractor := new(MockExtractor)
	mockRepo := new(MockCardUsageRepo)
	svc := NewCardUsageService(mockExtractor, mockRepo)

	id := uuid.New()
	mockRepo.On("Delete", mock.Anything, id).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), id))
	mockRepo.AssertExpectations(t)
}

func TestCardUsageService_ListRange(t *testing.T) {
	mockExtractor := new(MockExtractor)
	mockRepo := new(MockCardUsageRepo)
	svc := NewCardUsageService(mockExtractor, mockRepo)

	start := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	mockRepo.On("QueryRange", mock.Anything, start, end).
		Return([]model.CardUsage{{Amount: 390}}, nil)

	usages, err := svc.ListRange(context.Background(), start, end)

	require.NoError(t, err)
	assert.Len(t, usages, 1)
}

func TestCardUsageService_ListRange_InvalidRange(t *testing.T) {
	mockExtractor := new(MockExtractor)
	mockRepo := new(MockCardUsageRepo)
	svc := NewCardUsageService(mockExtractor, mockRepo)

	start := time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)

	_, err := svc.ListRange(context.Background(), start, start)

	assert.ErrorIs(t, err, ErrInvalidRange)
	mockRepo.AssertNotCalled(t, "QueryRange", mock.Anything, mock.Anything, mock.Anything)
}
