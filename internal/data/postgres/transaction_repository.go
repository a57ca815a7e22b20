package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Starkiller645/economist/internal/domain/currency"
	"github.com/Starkiller645/economist/internal/domain/transaction"
	"github.com/Starkiller645/economist/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// TransactionRepository implements the transaction.Repository interface for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so the currency mutation and
// its audit entry commit atomically.
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// ApplyReserveDelta adjusts a currency's gold reserves and records the audit entry
func (r *TransactionRepository) ApplyReserveDelta(ctx context.Context, currencyCode string, amount int64, initiator string) (*transaction.Transaction, error) {
	return r.applyDelta(ctx, currencyCode, amount, initiator, true)
}

// ApplyCirculationDelta adjusts a currency's circulation and records the audit entry
func (r *TransactionRepository) ApplyCirculationDelta(ctx context.Context, currencyCode string, amount int64, initiator string) (*transaction.Transaction, error) {
	return r.applyDelta(ctx, currencyCode, amount, initiator, false)
}

func (r *TransactionRepository) applyDelta(ctx context.Context, currencyCode string, amount int64, initiator string, reserves bool) (*transaction.Transaction, error) {
	if amount == 0 {
		return nil, transaction.ErrZeroDelta
	}

	column := "circulation"
	if reserves {
		column = "reserves"
	}

	updateQuery := `UPDATE currencies SET ` + column + ` = ` + column + ` + $1 WHERE currency_code = $2 RETURNING currency_id`

	var currencyID int64
	err := r.querier.QueryRow(ctx, updateQuery, amount, currencyCode).Scan(&currencyID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, currency.ErrCurrencyNotFound{Code: currencyCode}
		}
		r.logger.Error("Failed to apply currency delta", "code", currencyCode, "column", column, "error", err)
		return nil, fmt.Errorf("failed to apply %s delta: %w", column, err)
	}

	insertQuery := `
		INSERT INTO transactions (transaction_date, currency_id, delta_` + column + `, initiator)
		VALUES ($1, $2, $3, $4)
		RETURNING transaction_id
	`

	tx := &transaction.Transaction{
		Date:       time.Now().UTC(),
		CurrencyID: currencyID,
		Initiator:  initiator,
	}
	if reserves {
		tx.DeltaReserves = &amount
	} else {
		tx.DeltaCirculation = &amount
	}

	err = r.querier.QueryRow(ctx, insertQuery, tx.Date, currencyID, amount, initiator).Scan(&tx.ID)
	if err != nil {
		r.logger.Error("Failed to record transaction", "code", currencyCode, "column", column, "error", err)
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	return tx, nil
}

// GetByID retrieves a transaction by its identifier
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	query := `
		SELECT transaction_id, transaction_date, currency_id, delta_reserves, delta_circulation, initiator
		FROM transactions
		WHERE transaction_id = $1
	`

	var tx transaction.Transaction
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&tx.ID,
		&tx.Date,
		&tx.CurrencyID,
		&tx.DeltaReserves,
		&tx.DeltaCirculation,
		&tx.Initiator,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{ID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &tx, nil
}

// ListByCurrency returns the most recent transactions for a currency
func (r *TransactionRepository) ListByCurrency(ctx context.Context, currencyID int64, limit int) ([]transaction.Transaction, error) {
	query := `
		SELECT transaction_id, transaction_date, currency_id, delta_reserves, delta_circulation, initiator
		FROM transactions
		WHERE currency_id = $1
		ORDER BY transaction_date DESC
		LIMIT $2
	`

	rows, err := r.querier.Query(ctx, query, currencyID, limit)
	if err != nil {
		r.logger.Error("Failed to list transactions", "currency_id", currencyID, "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []transaction.Transaction
	for rows.Next() {
		var tx transaction.Transaction
		if err := rows.Scan(&tx.ID, &tx.Date, &tx.CurrencyID, &tx.DeltaReserves, &tx.DeltaCirculation, &tx.Initiator); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction rows: %w", err)
	}

	return transactions, nil
}
