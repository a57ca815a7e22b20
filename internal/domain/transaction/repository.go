package transaction

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
)

// Repository manages the audit trail of reserve and circulation deltas.
// Apply* methods mutate the currency row and insert the matching audit entry.
type Repository interface {
	// ApplyReserveDelta adds amount (possibly negative) to the currency's
	// gold reserves and records the transaction.
	ApplyReserveDelta(ctx context.Context, currencyCode string, amount int64, initiator string) (*Transaction, error)

	// ApplyCirculationDelta adds amount (possibly negative) to the currency's
	// circulation and records the transaction.
	ApplyCirculationDelta(ctx context.Context, currencyCode string, amount int64, initiator string) (*Transaction, error)

	GetByID(ctx context.Context, id int64) (*Transaction, error)
	ListByCurrency(ctx context.Context, currencyID int64, limit int) ([]Transaction, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates missing transaction
type ErrTransactionNotFound struct {
	ID int64
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + strconv.FormatInt(e.ID, 10)
}
