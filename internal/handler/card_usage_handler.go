// Package handler implements HTTP handlers for the CardWatch REST API.
// Each handler validates input, delegates to services, and formats responses.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cardwatch/backend/internal/apperror"
	"github.com/cardwatch/backend/internal/extractor"
	"github.com/cardwatch/backend/internal/model"
	"github.com/cardwatch/backend/internal/repository"
	"github.com/cardwatch/backend/internal/service"
	"github.com/cardwatch/backend/pkg/datetime"
)

// CardUsageHandlerServiceInterface defines the service contract for card usage operations.
// This interface enables dependency injection and testability.
type CardUsageHandlerServiceInterface interface {
	CreateFromEmail(ctx context.Context, emailText string, known *model.CardCompany) (*model.CardUsage, error)
	Get(ctx context.Context, id uuid.UUID) (*model.CardUsage, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListRange(ctx context.Context, start, end time.Time) ([]model.CardUsage, error)
}

// CardUsageHandler handles HTTP requests for card usage operations.
type CardUsageHandler struct {
	service CardUsageHandlerServiceInterface
	loc     *time.Location
}

// NewCardUsageHandler creates a new CardUsageHandler with the given service.
func NewCardUsageHandler(service CardUsageHandlerServiceInterface, loc *time.Location) *CardUsageHandler {
	return &CardUsageHandler{service: service, loc: loc}
}

// CreateCardUsageInput is the request body for creating a card usage from an email.
type CreateCardUsageInput struct {
	EmailText   string `json:"emailText"`
	CardCompany string `json:"cardCompany,omitempty"`
}

// Create godoc
// @Summary Create a card usage from an email
// @Description Extract a card usage record from a notification email body and persist it
// @Tags card-usages
// @Accept json
// @Produce json
// @Param input body CreateCardUsageInput true "Email content"
// @Success 201 {object} model.CardUsage
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /card-usages [post]
func (h *CardUsageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input CreateCardUsageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondAppError(w, apperror.BadRequest("invalid request body: "+err.Error()))
		return
	}

	if input.EmailText == "" {
		respondAppError(w, apperror.ValidationError("emailText", "emailText is required"))
		return
	}

	var known *model.CardCompany
	if input.CardCompany != "" {
		company := model.CardCompany(input.CardCompany)
		if !company.IsValid() {
			respondAppError(w, apperror.ValidationError("cardCompany", "unknown card company: "+input.CardCompany))
			return
		}
		known = &company
	}

	usage, err := h.service.CreateFromEmail(r.Context(), input.EmailText, known)
	if err != nil {
		if errors.Is(err, extractor.ErrUnrecognizedFormat) ||
			errors.Is(err, extractor.ErrFieldExtraction) ||
			errors.Is(err, extractor.ErrEncodingNormalization) {
			respondAppError(w, apperror.Unprocessable(err, "email could not be parsed: "+err.Error()))
			return
		}
		respondAppError(w, apperror.Internal(err))
		return
	}

	respondJSON(w, http.StatusCreated, usage)
}

// Get godoc
// @Summary Get a card usage
// @Description Get a card usage record by ID
// @Tags card-usages
// @Produce json
// @Param id path string true "Card usage ID"
// @Success 200 {object} model.CardUsage
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /card-usages/{id} [get]
func (h *CardUsageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, apperror.BadRequest("invalid card usage ID"))
		return
	}

	usage, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCardUsageNotFound) {
			respondAppError(w, apperror.NotFound("card usage"))
			return
		}
		respondAppError(w, apperror.Internal(err))
		return
	}

	respondJSON(w, http.StatusOK, usage)
}

// Delete godoc
// @Summary Delete a card usage
// @Description Delete a card usage record by ID
// @Tags card-usages
// @Param id path string true "Card usage ID"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /card-usages/{id} [delete]
func (h *CardUsageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondAppError(w, apperror.BadRequest("invalid card usage ID"))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrCardUsageNotFound) {
			respondAppError(w, apperror.NotFound("card usage"))
			return
		}
		respondAppError(w, apperror.Internal(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List godoc
// @Summary List card usages
// @Description Get card usage records within a half-open time range [start, end)
// @Tags card-usages
// @Produce json
// @Param start query string true "Range start (YYYY-MM-DD or RFC 3339)"
// @Param end query string true "Range end (YYYY-MM-DD or RFC 3339)"
// @Success 200 {array} model.CardUsage
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /card-usages [get]
func (h *CardUsageHandler) List(w http.ResponseWriter, r *http.Request) {
	start, err := h.parseTimeParam(r.URL.Query().Get("start"))
	if err != nil {
		respondAppError(w, apperror.ValidationError("start", "start is required (YYYY-MM-DD or RFC 3339)"))
		return
	}
	end, err := h.parseTimeParam(r.URL.Query().Get("end"))
	if err != nil {
		respondAppError(w, apperror.ValidationError("end", "end is required (YYYY-MM-DD or RFC 3339)"))
		return
	}

	usages, err := h.service.ListRange(r.Context(), start, end)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			respondAppError(w, apperror.ValidationError("end", "end must be after start"))
			return
		}
		respondAppError(w, apperror.Internal(err))
		return
	}

	respondJSON(w, http.StatusOK, usages)
}

// parseTimeParam accepts a date or an RFC 3339 timestamp. Bare dates are
// interpreted in the reference timezone.
func (h *CardUsageHandler) parseTimeParam(s string) (time.Time, error) {
	return datetime.ParseTime(s, h.loc)
}
