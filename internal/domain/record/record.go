package record

import (
	"time"
)

// Record is a persisted daily valuation snapshot for one currency.
// DeltaValue and Growth are derived by the database from the opening and
// closing values, never written directly.
type Record struct {
	ID           int64     `json:"record_id"`
	Date         time.Time `json:"record_date"`
	CurrencyID   int64     `json:"currency_id"`
	OpeningValue float64   `json:"opening_value"`
	ClosingValue float64   `json:"closing_value"`
	DeltaValue   float64   `json:"delta_value"`
	Growth       int16     `json:"growth"` // -1 decline, 0 flat, +1 gain
}

// GrowthOf derives the tri-state growth direction from a value delta.
func GrowthOf(delta float64) int16 {
	switch {
	case delta > 0:
		return 1
	case delta < 0:
		return -1
	default:
		return 0
	}
}
