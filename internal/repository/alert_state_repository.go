package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cardwatch/backend/internal/model"
)

// AlertStateRepository stores the highest alert level already emitted for
// each (report type, period start). The recorded level only ever
// increases; spending does not un-cross a threshold within a period.
type AlertStateRepository struct {
	db *sqlx.DB
}

func NewAlertStateRepository(db *sqlx.DB) *AlertStateRepository {
	return &AlertStateRepository{db: db}
}

// GetLastLevel returns the last emitted level for the period, or
// ThresholdLevelNone when no alert has been emitted yet.
func (r *AlertStateRepository) GetLastLevel(ctx context.Context, reportType model.ReportType, periodStart time.Time) (model.ThresholdLevel, error) {
	var level int
	query := `SELECT level FROM alert_states WHERE report_type = $1 AND period_start = $2`
	err := r.db.GetContext(ctx, &level, query, reportType, periodStart)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ThresholdLevelNone, nil
	}
	return model.ThresholdLevel(level), err
}

// RaiseLevel records level for the period if and only if it is strictly
// greater than the level already recorded. The single upsert statement is
// the atomic compare-and-raise that keeps concurrent report runs for the
// same period from double-emitting or emitting out of order: exactly one
// of them observes raised == true per level increase.
func (r *AlertStateRepository) RaiseLevel(ctx context.Context, reportType model.ReportType, periodStart time.Time, level model.ThresholdLevel) (raised bool, err error) {
	query := `
		INSERT INTO alert_states (report_type, period_start, level, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (report_type, period_start) DO UPDATE SET
			level = EXCLUDED.level,
			updated_at = NOW()
		WHERE alert_states.level < EXCLUDED.level
		RETURNING level`

	var recorded int
	err = r.db.QueryRowxContext(ctx, query, reportType, periodStart, int(level)).Scan(&recorded)
	if errors.Is(err, sql.ErrNoRows) {
		// Conflict without update: an equal or higher level was already
		// recorded by an earlier or concurrent run.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
