// Package service implements the business logic layer for CardWatch.
// It contains use cases that orchestrate extraction, persistence, and
// report aggregation.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cardwatch/backend/internal/model"
)

// ErrInvalidRange is returned when a query range end does not follow its start.
var ErrInvalidRange = errors.New("range end is not after start")

// CardUsageExtractorInterface defines the contract for email extraction.
// Implementations must be pure over their inputs and safe for concurrent
// use.
type CardUsageExtractorInterface interface {
	Extract(emailText string, known *model.CardCompany) (*model.CardUsage, error)
}

// CardUsageRepositoryInterface defines the contract for usage persistence.
type CardUsageRepositoryInterface interface {
	Create(ctx context.Context, usage *model.CardUsage) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.CardUsage, error)
	Delete(ctx context.Context, id uuid.UUID) error
	QueryRange(ctx context.Context, start, end time.Time) ([]model.CardUsage, error)
}

// CardUsageService handles the card usage use cases: create-from-email,
// lookup, and delete. Usages are never updated in place; a correction is
// a delete followed by a fresh extraction.
type CardUsageService struct {
	extractor CardUsageExtractorInterface
	repo      CardUsageRepositoryInterface
}

// NewCardUsageService creates a new CardUsageService.
func NewCardUsageService(extractor CardUsageExtractorInterface, repo CardUsageRepositoryInterface) *CardUsageService {
	return &CardUsageService{extractor: extractor, repo: repo}
}

// CreateFromEmail extracts one usage record from raw email text and
// persists it. Extraction failures propagate unchanged and nothing is
// persisted; a malformed email never produces a partial record.
func (s *CardUsageService) CreateFromEmail(ctx context.Context, emailText string, known *model.CardCompany) (*model.CardUsage, error) {
	usage, err := s.extractor.Extract(emailText, known)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, usage); err != nil {
		return nil, fmt.Errorf("creating card usage: %w", err)
	}

	return usage, nil
}

// Get retrieves a usage record by its ID.
// Returns ErrCardUsageNotFound if the record does not exist.
func (s *CardUsageService) Get(ctx context.Context, id uuid.UUID) (*model.CardUsage, error) {
	usage, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting card usage %s: %w", id, err)
	}
	return usage, nil
}

// Delete removes a usage record, e.g. for a user-initiated correction.
func (s *CardUsageService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting card usage %s: %w", id, err)
	}
	return nil
}

// ListRange returns usages with datetime of use in [start, end).
func (s *CardUsageService) ListRange(ctx context.Context, start, end time.Time) ([]model.CardUsage, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: [%s, %s)", ErrInvalidRange, start, end)
	}
	usages, err := s.repo.QueryRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("listing card usages: %w", err)
	}
	return usages, nil
}
