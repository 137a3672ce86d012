package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cardwatch/backend/internal/model"
)

// ErrThresholdConfigUnavailable means the threshold table for a report
// type could not be read or failed validation. Report generation fails as
// a whole in that case; a report without valid thresholds could silently
// suppress a real alert.
var ErrThresholdConfigUnavailable = errors.New("threshold configuration unavailable")

// ThresholdRepository reads alert threshold tables. Values may be changed
// at runtime by operators, so every call hits the store; nothing is cached
// across aggregation runs.
type ThresholdRepository struct {
	db *sqlx.DB
}

func NewThresholdRepository(db *sqlx.DB) *ThresholdRepository {
	return &ThresholdRepository{db: db}
}

func (r *ThresholdRepository) GetThresholdTable(ctx context.Context, reportType model.ReportType) (*model.ThresholdTable, error) {
	var table model.ThresholdTable
	query := `SELECT report_type, level1, level2, level3 FROM threshold_configs WHERE report_type = $1`
	err := r.db.GetContext(ctx, &table, query, reportType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no table for %s", ErrThresholdConfigUnavailable, reportType)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrThresholdConfigUnavailable, err)
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrThresholdConfigUnavailable, err)
	}
	return &table, nil
}
