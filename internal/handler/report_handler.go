package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cardwatch/backend/internal/apperror"
	"github.com/cardwatch/backend/internal/model"
	"github.com/cardwatch/backend/internal/repository"
	"github.com/cardwatch/backend/internal/service"
	"github.com/cardwatch/backend/pkg/datetime"
)

// ReportHandlerServiceInterface defines the service contract for report operations.
type ReportHandlerServiceInterface interface {
	Generate(ctx context.Context, reportType model.ReportType, periodStart time.Time) (*model.Report, *model.AlertEvent, error)
	GetByPeriod(ctx context.Context, reportType model.ReportType, periodStart time.Time) (*model.Report, error)
}

// ReportHandler handles HTTP requests for spending report operations.
type ReportHandler struct {
	service ReportHandlerServiceInterface
	loc     *time.Location
}

// NewReportHandler creates a new ReportHandler with the given service.
func NewReportHandler(service ReportHandlerServiceInterface, loc *time.Location) *ReportHandler {
	return &ReportHandler{service: service, loc: loc}
}

// GenerateReportInput is the request body for generating a report.
type GenerateReportInput struct {
	ReportType  string `json:"reportType"`
	PeriodStart string `json:"periodStart"`
}

// GenerateReportResponse bundles the generated report with the alert
// raised during generation, if any.
type GenerateReportResponse struct {
	Report *model.Report     `json:"report"`
	Alert  *model.AlertEvent `json:"alert,omitempty"`
}

// Generate godoc
// @Summary Generate a spending report
// @Description Aggregate card usages for the given period and evaluate alert thresholds
// @Tags reports
// @Accept json
// @Produce json
// @Param input body GenerateReportInput true "Report period"
// @Success 200 {object} GenerateReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports/generate [post]
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var input GenerateReportInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondAppError(w, apperror.BadRequest("invalid request body: "+err.Error()))
		return
	}

	reportType, periodStart, appErr := h.parsePeriod(input.ReportType, input.PeriodStart)
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}

	report, alert, err := h.service.Generate(r.Context(), reportType, periodStart)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPeriod):
			respondAppError(w, apperror.ValidationError("periodStart", "periodStart is not aligned to a period boundary"))
		case errors.Is(err, repository.ErrThresholdConfigUnavailable):
			respondAppError(w, apperror.Unavailable(err, "alert threshold configuration is unavailable"))
		default:
			respondAppError(w, apperror.Internal(err))
		}
		return
	}

	respondJSON(w, http.StatusOK, GenerateReportResponse{Report: report, Alert: alert})
}

// GetByPeriod godoc
// @Summary Get a spending report
// @Description Get a previously generated report by type and period start
// @Tags reports
// @Produce json
// @Param type query string true "Report type (weekly or monthly)"
// @Param periodStart query string true "Period start date (YYYY-MM-DD)"
// @Success 200 {object} model.Report
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) GetByPeriod(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	reportType, periodStart, appErr := h.parsePeriod(q.Get("type"), q.Get("periodStart"))
	if appErr != nil {
		respondAppError(w, appErr)
		return
	}

	report, err := h.service.GetByPeriod(r.Context(), reportType, periodStart)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			respondAppError(w, apperror.NotFound("report"))
			return
		}
		respondAppError(w, apperror.Internal(err))
		return
	}

	respondJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) parsePeriod(typeParam, startParam string) (model.ReportType, time.Time, *apperror.AppError) {
	reportType := model.ReportType(typeParam)
	if reportType != model.ReportTypeWeekly && reportType != model.ReportTypeMonthly {
		return "", time.Time{}, apperror.ValidationError("reportType", "reportType must be weekly or monthly")
	}

	periodStart, err := time.ParseInLocation(datetime.DateFormat, startParam, h.loc)
	if err != nil {
		return "", time.Time{}, apperror.ValidationError("periodStart", "periodStart must be a date (YYYY-MM-DD)")
	}

	return reportType, periodStart, nil
}
