package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Starkiller645/economist/internal/domain/currency"
	"github.com/Starkiller645/economist/internal/domain/transaction"
)

func TestTransactionRepository_ApplyReserveDelta(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: newTestLogger()}

	t.Run("updates balance and records audit entry", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE currencies SET reserves = reserves \+ \$1 WHERE currency_code = \$2`).
			WithArgs(int64(-20), "TKD").
			WillReturnRows(pgxmock.NewRows([]string{"currency_id"}).AddRow(int64(7)))
		mock.ExpectQuery(`INSERT INTO transactions \(transaction_date, currency_id, delta_reserves, initiator\)`).
			WithArgs(pgxmock.AnyArg(), int64(7), int64(-20), "alice").
			WillReturnRows(pgxmock.NewRows([]string{"transaction_id"}).AddRow(int64(42)))

		tx, err := repo.ApplyReserveDelta(ctx, "TKD", -20, "alice")
		require.NoError(t, err)

		assert.Equal(t, int64(42), tx.ID)
		assert.Equal(t, int64(7), tx.CurrencyID)
		require.NotNil(t, tx.DeltaReserves)
		assert.Equal(t, int64(-20), *tx.DeltaReserves)
		assert.Nil(t, tx.DeltaCirculation)
		assert.Equal(t, int64(-20), tx.Delta())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown currency", func(t *testing.T) {
		mock.ExpectQuery(`UPDATE currencies SET reserves = reserves \+ \$1 WHERE currency_code = \$2`).
			WithArgs(int64(10), "XXX").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.ApplyReserveDelta(ctx, "XXX", 10, "alice")
		var notFound currency.ErrCurrencyNotFound
		assert.ErrorAs(t, err, &notFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero delta never reaches the database", func(t *testing.T) {
		_, err := repo.ApplyReserveDelta(ctx, "TKD", 0, "alice")
		assert.ErrorIs(t, err, transaction.ErrZeroDelta)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTransactionRepository_ApplyCirculationDelta(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: newTestLogger()}

	mock.ExpectQuery(`UPDATE currencies SET circulation = circulation \+ \$1 WHERE currency_code = \$2`).
		WithArgs(int64(500), "TKD").
		WillReturnRows(pgxmock.NewRows([]string{"currency_id"}).AddRow(int64(7)))
	mock.ExpectQuery(`INSERT INTO transactions \(transaction_date, currency_id, delta_circulation, initiator\)`).
		WithArgs(pgxmock.AnyArg(), int64(7), int64(500), "alice").
		WillReturnRows(pgxmock.NewRows([]string{"transaction_id"}).AddRow(int64(43)))

	tx, err := repo.ApplyCirculationDelta(ctx, "TKD", 500, "alice")
	require.NoError(t, err)

	require.NotNil(t, tx.DeltaCirculation)
	assert.Equal(t, int64(500), *tx.DeltaCirculation)
	assert.Nil(t, tx.DeltaReserves)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &TransactionRepository{querier: mock, logger: newTestLogger()}

	query := `SELECT transaction_id, transaction_date, currency_id, delta_reserves, delta_circulation, initiator`

	t.Run("found", func(t *testing.T) {
		delta := int64(500)
		date := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

		mock.ExpectQuery(query).
			WithArgs(int64(42)).
			WillReturnRows(pgxmock.NewRows([]string{
				"transaction_id", "transaction_date", "currency_id", "delta_reserves", "delta_circulation", "initiator",
			}).AddRow(int64(42), date, int64(7), &delta, (*int64)(nil), "alice"))

		tx, err := repo.GetByID(ctx, 42)
		require.NoError(t, err)
		assert.Equal(t, int64(500), tx.Delta())
		assert.Equal(t, "alice", tx.Initiator)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(int64(99)).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(ctx, 99)
		var notFound transaction.ErrTransactionNotFound
		assert.ErrorAs(t, err, &notFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
