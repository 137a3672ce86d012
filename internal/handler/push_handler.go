package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cardwatch/backend/internal/model"
	"github.com/cardwatch/backend/internal/service"
)

type PushServiceInterface interface {
	IsConfigured() bool
	GetVAPIDPublicKey() (string, error)
	Subscribe(ctx context.Context, endpoint, p256dh, auth string, userAgent *string) (*model.PushSubscription, error)
	Unsubscribe(ctx context.Context, endpoint string) error
}

type PushHandler struct {
	service PushServiceInterface
}

func NewPushHandler(service PushServiceInterface) *PushHandler {
	return &PushHandler{service: service}
}

// GetVAPIDPublicKey returns the VAPID public key for push subscription
// @Summary Get VAPID public key
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]string
// @Router /notifications/vapid-public-key [get]
func (h *PushHandler) GetVAPIDPublicKey(w http.ResponseWriter, r *http.Request) {
	key, err := h.service.GetVAPIDPublicKey()
	if err != nil {
		if errors.Is(err, service.ErrVAPIDNotConfigured) {
			respondError(w, http.StatusServiceUnavailable, "Push notifications not configured")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to get VAPID key")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"publicKey": key})
}

type subscribeRequest struct {
	Endpoint  string  `json:"endpoint"`
	P256dh    string  `json:"p256dh"`
	Auth      string  `json:"auth"`
	UserAgent *string `json:"userAgent,omitempty"`
}

// Subscribe creates a new push subscription
// @Summary Subscribe to push notifications
// @Tags notifications
// @Accept json
// @Produce json
// @Param input body subscribeRequest true "Subscription data"
// @Success 201 {object} model.PushSubscription
// @Router /notifications/subscribe [post]
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Endpoint == "" || req.P256dh == "" || req.Auth == "" {
		respondError(w, http.StatusBadRequest, "endpoint, p256dh, and auth are required")
		return
	}

	sub, err := h.service.Subscribe(r.Context(), req.Endpoint, req.P256dh, req.Auth, req.UserAgent)
	if err != nil {
		if errors.Is(err, service.ErrVAPIDNotConfigured) {
			respondError(w, http.StatusServiceUnavailable, "Push notifications not configured")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to subscribe")
		return
	}

	respondJSON(w, http.StatusCreated, sub)
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

// Unsubscribe removes a push subscription
// @Summary Unsubscribe from push notifications
// @Tags notifications
// @Accept json
// @Produce json
// @Param input body unsubscribeRequest true "Subscription endpoint"
// @Success 204
// @Router /notifications/unsubscribe [delete]
func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req unsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Endpoint == "" {
		respondError(w, http.StatusBadRequest, "endpoint is required")
		return
	}

	if err := h.service.Unsubscribe(r.Context(), req.Endpoint); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to unsubscribe")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
