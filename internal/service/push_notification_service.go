package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/cardwatch/backend/internal/config"
	"github.com/cardwatch/backend/internal/logger"
	"github.com/cardwatch/backend/internal/model"
	"github.com/cardwatch/backend/pkg/currency"
)

var ErrVAPIDNotConfigured = errors.New("VAPID keys not configured")

// PushRepositoryInterface defines the contract for push subscription
// storage.
type PushRepositoryInterface interface {
	CreateSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetAllSubscriptions(ctx context.Context) ([]model.PushSubscription, error)
	DeleteSubscriptionByEndpoint(ctx context.Context, endpoint string) error
}

// PushNotificationService delivers spending alerts over Web Push. It
// implements AlertNotifier.
type PushNotificationService struct {
	repo   PushRepositoryInterface
	config *config.Config
}

func NewPushNotificationService(repo PushRepositoryInterface, cfg *config.Config) *PushNotificationService {
	return &PushNotificationService{
		repo:   repo,
		config: cfg,
	}
}

// IsConfigured returns true if VAPID keys are configured
func (s *PushNotificationService) IsConfigured() bool {
	return s.config.VAPIDPublicKey != "" && s.config.VAPIDPrivateKey != ""
}

// GetVAPIDPublicKey returns the public VAPID key for clients
func (s *PushNotificationService) GetVAPIDPublicKey() (string, error) {
	if !s.IsConfigured() {
		return "", ErrVAPIDNotConfigured
	}
	return s.config.VAPIDPublicKey, nil
}

// Subscribe creates or updates a push subscription
func (s *PushNotificationService) Subscribe(ctx context.Context, endpoint, p256dh, auth string, userAgent *string) (*model.PushSubscription, error) {
	if !s.IsConfigured() {
		return nil, ErrVAPIDNotConfigured
	}

	sub := &model.PushSubscription{
		Endpoint:  endpoint,
		P256dh:    p256dh,
		Auth:      auth,
		UserAgent: userAgent,
	}

	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	return sub, nil
}

// Unsubscribe removes a push subscription
func (s *PushNotificationService) Unsubscribe(ctx context.Context, endpoint string) error {
	return s.repo.DeleteSubscriptionByEndpoint(ctx, endpoint)
}

// alertPayload is the JSON body pushed to subscribers.
type alertPayload struct {
	Title       string `json:"title"`
	Body        string `json:"body"`
	ReportType  string `json:"reportType"`
	Level       int    `json:"level"`
	TotalAmount int64  `json:"totalAmount"`
	PeriodStart string `json:"periodStart"`
}

// SendAlert pushes the alert to every registered subscription. Endpoints
// the push service reports as gone are pruned. A partial delivery failure
// does not fail the alert: the event was already recorded by the engine.
func (s *PushNotificationService) SendAlert(ctx context.Context, event *model.AlertEvent) error {
	if !s.IsConfigured() {
		return ErrVAPIDNotConfigured
	}

	subs, err := s.repo.GetAllSubscriptions(ctx)
	if err != nil {
		return fmt.Errorf("listing push subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil
	}

	payload, err := json.Marshal(alertPayload{
		Title:       alertTitle(event),
		Body:        alertBody(event),
		ReportType:  string(event.ReportType),
		Level:       int(event.Level),
		TotalAmount: event.TotalAmount,
		PeriodStart: event.PeriodStart.Format("2006-01-02"),
	})
	if err != nil {
		return fmt.Errorf("encoding alert payload: %w", err)
	}

	log := logger.FromContext(ctx)
	var failed int
	for _, sub := range subs {
		resp, err := webpush.SendNotification(payload, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}, &webpush.Options{
			Subscriber:      s.config.VAPIDSubject,
			VAPIDPublicKey:  s.config.VAPIDPublicKey,
			VAPIDPrivateKey: s.config.VAPIDPrivateKey,
			TTL:             3600,
		})
		if err != nil {
			failed++
			log.Warn("web push send failed", "endpoint", sub.Endpoint, "error", err.Error())
			continue
		}
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			// Subscription expired or revoked by the push service.
			if err := s.repo.DeleteSubscriptionByEndpoint(ctx, sub.Endpoint); err != nil {
				log.Warn("pruning dead subscription failed", "endpoint", sub.Endpoint, "error", err.Error())
			}
		}
		_ = resp.Body.Close()
	}

	if failed == len(subs) {
		return fmt.Errorf("all %d push deliveries failed", failed)
	}
	return nil
}

func alertTitle(event *model.AlertEvent) string {
	period := "週間"
	if event.ReportType == model.ReportTypeMonthly {
		period = "月間"
	}
	return fmt.Sprintf("%sの利用額がレベル%dに達しました", period, event.Level)
}

func alertBody(event *model.AlertEvent) string {
	return fmt.Sprintf("%s〜の合計利用額は%sです",
		event.PeriodStart.Format("2006/01/02"),
		currency.FormatJPY(event.TotalAmount),
	)
}
