package currency

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// SortKey selects the column used to order currency listings.
// Keys map to a whitelisted column set so the sort can never inject SQL.
type SortKey string

const (
	SortByName        SortKey = "currency_name"
	SortByCode        SortKey = "currency_code"
	SortByState       SortKey = "state"
	SortByReserves    SortKey = "reserves"
	SortByCirculation SortKey = "circulation"
	SortByValue       SortKey = "value"
)

// MetaField names a mutable metadata attribute of a currency.
type MetaField string

const (
	MetaName  MetaField = "currency_name"
	MetaState MetaField = "state"
	MetaCode  MetaField = "currency_code"
	MetaOwner MetaField = "owner"
)

// Repository defines currency persistence operations
type Repository interface {
	Create(ctx context.Context, c *Currency) error
	GetByID(ctx context.Context, id int64) (*Currency, error)
	GetByCode(ctx context.Context, code string) (*Currency, error)

	// List returns at most limit currencies with deterministic ordering by
	// the given key. Numeric keys sort descending, text keys ascending.
	List(ctx context.Context, limit int, sort SortKey) ([]Currency, error)

	// UpdateMeta renames a single metadata field and returns the stored row.
	UpdateMeta(ctx context.Context, code string, field MetaField, value string) (*Currency, error)

	// Delete removes a currency; its transactions and records cascade.
	Delete(ctx context.Context, code string) error

	WithTx(tx pgx.Tx) Repository
}

// ErrCurrencyNotFound indicates missing currency
type ErrCurrencyNotFound struct {
	Code string
}

func (e ErrCurrencyNotFound) Error() string {
	return "currency not found: " + e.Code
}

// ErrDuplicateCode indicates currency code uniqueness violation
type ErrDuplicateCode struct {
	Code string
}

func (e ErrDuplicateCode) Error() string {
	return "currency code already in use: " + e.Code
}
