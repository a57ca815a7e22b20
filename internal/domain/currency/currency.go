package currency

import (
	"errors"
)

// Common errors
var (
	ErrInvalidCode    = errors.New("currency code must be exactly three letters")
	ErrEmptyName      = errors.New("currency name cannot be empty")
	ErrEmptyState     = errors.New("nation/state cannot be empty")
	ErrEmptyOwner     = errors.New("currency owner cannot be empty")
	ErrNegativeAmount = errors.New("initial circulation and reserves cannot be negative")
)

// Currency is a tracked virtual monetary unit backed by gold reserves.
// Value is derived from reserves and circulation; the database recomputes it
// on every read via a generated column, so it is never written directly.
type Currency struct {
	ID          int64   `json:"currency_id"`
	Code        string  `json:"currency_code"`
	Name        string  `json:"currency_name"`
	State       string  `json:"state"`
	Circulation int64   `json:"circulation"`
	Reserves    int64   `json:"reserves"`
	Owner       string  `json:"owner"`
	Value       float64 `json:"value"`
}

// New validates inputs and builds a currency ready for insertion.
// The ID and Value fields are assigned by the repository.
func New(code, name, state string, circulation, reserves int64, owner string) (*Currency, error) {
	if len(code) != 3 {
		return nil, ErrInvalidCode
	}
	if name == "" {
		return nil, ErrEmptyName
	}
	if state == "" {
		return nil, ErrEmptyState
	}
	if owner == "" {
		return nil, ErrEmptyOwner
	}
	if circulation < 0 || reserves < 0 {
		return nil, ErrNegativeAmount
	}

	return &Currency{
		Code:        code,
		Name:        name,
		State:       state,
		Circulation: circulation,
		Reserves:    reserves,
		Owner:       owner,
		Value:       ComputeValue(reserves, circulation),
	}, nil
}

// ComputeValue derives a currency's value from its gold reserves and
// circulation. The value is exactly 0 when either input is non-positive.
func ComputeValue(reserves, circulation int64) float64 {
	if reserves <= 0 || circulation <= 0 {
		return 0
	}
	return float64(reserves) / float64(circulation)
}

// OwnedBy reports whether the given identity may mutate this currency.
func (c *Currency) OwnedBy(identity string) bool {
	return c.Owner == identity
}
