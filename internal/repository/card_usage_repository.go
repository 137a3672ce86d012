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

var ErrCardUsageNotFound = errors.New("card usage not found")

type CardUsageRepository struct {
	db *sqlx.DB
}

func NewCardUsageRepository(db *sqlx.DB) *CardUsageRepository {
	return &CardUsageRepository{db: db}
}

// Create persists a new usage record and assigns its id. Records are
// immutable after this point; there is deliberately no update path.
func (r *CardUsageRepository) Create(ctx context.Context, usage *model.CardUsage) error {
	query := `
		INSERT INTO card_usages (id, card_name, amount, where_to_use, datetime_of_use, card_company, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at`

	usage.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		usage.ID, usage.CardName, usage.Amount, usage.WhereToUse, usage.DatetimeOfUse, usage.CardCompany,
	).Scan(&usage.CreatedAt)
}

func (r *CardUsageRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CardUsage, error) {
	var usage model.CardUsage
	query := `SELECT * FROM card_usages WHERE id = $1`
	err := r.db.GetContext(ctx, &usage, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCardUsageNotFound
	}
	return &usage, err
}

func (r *CardUsageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM card_usages WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCardUsageNotFound
	}
	return nil
}

// QueryRange returns all usages with datetime_of_use in [start, end),
// oldest first.
func (r *CardUsageRepository) QueryRange(ctx context.Context, start, end time.Time) ([]model.CardUsage, error) {
	var usages []model.CardUsage
	query := `
		SELECT * FROM card_usages
		WHERE datetime_of_use >= $1 AND datetime_of_use < $2
		ORDER BY datetime_of_use, created_at`
	err := r.db.SelectContext(ctx, &usages, query, start, end)
	return usages, err
}
