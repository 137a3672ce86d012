package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cardwatch/backend/internal/model"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save upserts the report for its period. Reports are recomputed from
// card usages on every generation run, so the stored row is always the
// latest derivation.
func (r *ReportRepository) Save(ctx context.Context, report *model.Report) error {
	query := `
		INSERT INTO reports (id, report_type, period_start, period_end, total_amount, usage_count, crossed_level, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (report_type, period_start) DO UPDATE SET
			total_amount = EXCLUDED.total_amount,
			usage_count = EXCLUDED.usage_count,
			crossed_level = EXCLUDED.crossed_level,
			generated_at = NOW()
		RETURNING id, generated_at`

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	return r.db.QueryRowxContext(ctx, query,
		report.ID, report.ReportType, report.PeriodStart, report.PeriodEnd,
		report.TotalAmount, report.UsageCount, int(report.CrossedLevel),
	).Scan(&report.ID, &report.GeneratedAt)
}

func (r *ReportRepository) GetByPeriod(ctx context.Context, reportType model.ReportType, periodStart time.Time) (*model.Report, error) {
	var report model.Report
	query := `SELECT * FROM reports WHERE report_type = $1 AND period_start = $2`
	err := r.db.GetContext(ctx, &report, query, reportType, periodStart)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	return &report, err
}
