package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Starkiller645/economist/internal/domain/record"
)

func TestRecordRepository_Insert(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &RecordRepository{querier: mock, logger: newTestLogger()}

	query := `INSERT INTO records \(record_date, currency_id, opening_value, closing_value\)`
	today := time.Now().UTC().Truncate(24 * time.Hour)

	t.Run("returns generated delta and growth", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(pgxmock.AnyArg(), int64(7), 2.0, 3.0).
			WillReturnRows(pgxmock.NewRows([]string{"record_id", "record_date", "delta_value", "growth"}).
				AddRow(int64(42), today, 1.0, int16(1)))

		rec, err := repo.Insert(ctx, 7, 2.0, 3.0)
		require.NoError(t, err)

		assert.Equal(t, int64(42), rec.ID)
		assert.Equal(t, int64(7), rec.CurrencyID)
		assert.Equal(t, 2.0, rec.OpeningValue)
		assert.Equal(t, 3.0, rec.ClosingValue)
		assert.Equal(t, 1.0, rec.DeltaValue)
		assert.Equal(t, int16(1), rec.Growth)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("second record on the same trading day", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(pgxmock.AnyArg(), int64(7), 2.0, 2.0).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Insert(ctx, 7, 2.0, 2.0)
		var dup record.ErrDuplicateRecord
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, int64(7), dup.CurrencyID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecordRepository_ListRecent(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &RecordRepository{querier: mock, logger: newTestLogger()}

	query := `SELECT record_id, record_date, currency_id, opening_value, closing_value, delta_value, growth`
	day := func(offset int) time.Time {
		return time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}

	t.Run("most recent first", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(int64(7), 14).
			WillReturnRows(pgxmock.NewRows([]string{
				"record_id", "record_date", "currency_id", "opening_value", "closing_value", "delta_value", "growth",
			}).
				AddRow(int64(2), day(0), int64(7), 2.5, 3.0, 0.5, int16(1)).
				AddRow(int64(1), day(-1), int64(7), 2.5, 2.5, 0.0, int16(0)))

		records, err := repo.ListRecent(ctx, 7, 14)
		require.NoError(t, err)

		require.Len(t, records, 2)
		assert.Equal(t, int64(2), records[0].ID)
		assert.True(t, records[0].Date.After(records[1].Date))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no history", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(int64(8), 14).
			WillReturnRows(pgxmock.NewRows([]string{
				"record_id", "record_date", "currency_id", "opening_value", "closing_value", "delta_value", "growth",
			}))

		records, err := repo.ListRecent(ctx, 8, 14)
		require.NoError(t, err)
		assert.Empty(t, records)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
