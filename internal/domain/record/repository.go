package record

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Repository manages daily valuation record persistence
type Repository interface {
	// Insert stores a new record dated today (UTC) and returns the stored
	// row including its generated id, delta value and growth direction.
	Insert(ctx context.Context, currencyID int64, openingValue, closingValue float64) (*Record, error)

	// ListRecent returns up to limit records for the currency, most recent first.
	ListRecent(ctx context.Context, currencyID int64, limit int) ([]Record, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrDuplicateRecord indicates a second record for the same currency and
// trading day, rejected by the storage uniqueness constraint.
type ErrDuplicateRecord struct {
	CurrencyID int64
	Date       time.Time
}

func (e ErrDuplicateRecord) Error() string {
	return fmt.Sprintf("record already exists for currency %d on %s", e.CurrencyID, e.Date.Format("2006-01-02"))
}
