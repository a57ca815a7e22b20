package transaction

import (
	"errors"
	"time"
)

// ErrZeroDelta indicates an attempted transaction with no effect.
var ErrZeroDelta = errors.New("transaction delta cannot be zero")

// Transaction is an immutable audit entry for a single reserve or
// circulation delta. Exactly one of DeltaReserves / DeltaCirculation is set.
type Transaction struct {
	ID               int64     `json:"transaction_id"`
	Date             time.Time `json:"transaction_date"`
	CurrencyID       int64     `json:"currency_id"`
	DeltaReserves    *int64    `json:"delta_reserves,omitempty"`
	DeltaCirculation *int64    `json:"delta_circulation,omitempty"`
	Initiator        string    `json:"initiator"`
}

// Delta returns whichever delta is set on this transaction.
func (t *Transaction) Delta() int64 {
	if t.DeltaReserves != nil {
		return *t.DeltaReserves
	}
	if t.DeltaCirculation != nil {
		return *t.DeltaCirculation
	}
	return 0
}
