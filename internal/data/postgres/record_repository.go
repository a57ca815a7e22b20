package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Starkiller645/economist/internal/domain/record"
	"github.com/Starkiller645/economist/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// RecordRepository implements the record.Repository interface for PostgreSQL
type RecordRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewRecordRepository creates a new PostgreSQL record repository
func NewRecordRepository(logger *slog.Logger, db *persistence.PostgresDB) record.Repository {
	return &RecordRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *RecordRepository) WithTx(tx pgx.Tx) record.Repository {
	return &RecordRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Insert stores a daily valuation record dated today (UTC). The delta value
// and growth direction come back from the database's generated columns.
func (r *RecordRepository) Insert(ctx context.Context, currencyID int64, openingValue, closingValue float64) (*record.Record, error) {
	query := `
		INSERT INTO records (record_date, currency_id, opening_value, closing_value)
		VALUES ($1, $2, $3, $4)
		RETURNING record_id, record_date, delta_value, growth
	`

	rec := &record.Record{
		CurrencyID:   currencyID,
		OpeningValue: openingValue,
		ClosingValue: closingValue,
	}

	recordDate := time.Now().UTC().Truncate(24 * time.Hour)
	err := r.querier.QueryRow(ctx, query, recordDate, currencyID, openingValue, closingValue).Scan(
		&rec.ID,
		&rec.Date,
		&rec.DeltaValue,
		&rec.Growth,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, record.ErrDuplicateRecord{CurrencyID: currencyID, Date: recordDate}
		}
		r.logger.Error("Failed to insert record", "currency_id", currencyID, "error", err)
		return nil, fmt.Errorf("failed to insert record: %w", err)
	}

	return rec, nil
}

// ListRecent returns up to limit records for a currency, most recent first
func (r *RecordRepository) ListRecent(ctx context.Context, currencyID int64, limit int) ([]record.Record, error) {
	query := `
		SELECT record_id, record_date, currency_id, opening_value, closing_value, delta_value, growth
		FROM records
		WHERE currency_id = $1
		ORDER BY record_date DESC
		LIMIT $2
	`

	rows, err := r.querier.Query(ctx, query, currencyID, limit)
	if err != nil {
		r.logger.Error("Failed to list records", "currency_id", currencyID, "error", err)
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []record.Record
	for rows.Next() {
		var rec record.Record
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.CurrencyID, &rec.OpeningValue, &rec.ClosingValue, &rec.DeltaValue, &rec.Growth); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate record rows: %w", err)
	}

	return records, nil
}
