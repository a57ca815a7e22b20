// Package postgres provides PostgreSQL implementations of the domain
// repositories. Derived columns (currency value, record delta and growth) are
// generated by the database, so every read returns them freshly computed.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Starkiller645/economist/internal/domain/currency"
	"github.com/Starkiller645/economist/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const currencyColumns = "currency_id, currency_code, currency_name, state, circulation, reserves, owner, value"

// CurrencyRepository implements the currency.Repository interface for PostgreSQL
type CurrencyRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewCurrencyRepository creates a new PostgreSQL currency repository
func NewCurrencyRepository(logger *slog.Logger, db *persistence.PostgresDB) currency.Repository {
	return &CurrencyRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *CurrencyRepository) WithTx(tx pgx.Tx) currency.Repository {
	return &CurrencyRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new currency and fills in its generated id and value.
func (r *CurrencyRepository) Create(ctx context.Context, c *currency.Currency) error {
	query := `
		INSERT INTO currencies (currency_code, currency_name, state, circulation, reserves, owner)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING currency_id, value
	`

	err := r.querier.QueryRow(ctx, query,
		c.Code,
		c.Name,
		c.State,
		c.Circulation,
		c.Reserves,
		c.Owner,
	).Scan(&c.ID, &c.Value)
	if err != nil {
		if isUniqueViolation(err) {
			return currency.ErrDuplicateCode{Code: c.Code}
		}
		r.logger.Error("Failed to create currency", "code", c.Code, "error", err)
		return fmt.Errorf("failed to create currency: %w", err)
	}

	return nil
}

// GetByID retrieves a currency by its numeric identifier
func (r *CurrencyRepository) GetByID(ctx context.Context, id int64) (*currency.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_id = $1`

	c, err := r.scanCurrency(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, currency.ErrCurrencyNotFound{Code: "#" + strconv.FormatInt(id, 10)}
		}
		r.logger.Error("Failed to get currency", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get currency: %w", err)
	}

	return c, nil
}

// GetByCode retrieves a currency by its three-letter code
func (r *CurrencyRepository) GetByCode(ctx context.Context, code string) (*currency.Currency, error) {
	query := `SELECT ` + currencyColumns + ` FROM currencies WHERE currency_code = $1`

	c, err := r.scanCurrency(r.querier.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, currency.ErrCurrencyNotFound{Code: code}
		}
		r.logger.Error("Failed to get currency", "code", code, "error", err)
		return nil, fmt.Errorf("failed to get currency: %w", err)
	}

	return c, nil
}

// List returns at most limit currencies ordered by the given sort key.
// The key is mapped onto a whitelisted column; anything else falls back to
// the currency code, keeping snapshot ordering deterministic.
func (r *CurrencyRepository) List(ctx context.Context, limit int, sort currency.SortKey) ([]currency.Currency, error) {
	orderBy := "currency_code ASC"
	switch sort {
	case currency.SortByName:
		orderBy = "currency_name ASC"
	case currency.SortByCode:
		orderBy = "currency_code ASC"
	case currency.SortByState:
		orderBy = "state ASC"
	case currency.SortByReserves:
		orderBy = "reserves DESC"
	case currency.SortByCirculation:
		orderBy = "circulation DESC"
	case currency.SortByValue:
		orderBy = "value DESC"
	}

	query := `SELECT ` + currencyColumns + ` FROM currencies ORDER BY ` + orderBy + ` LIMIT $1`

	rows, err := r.querier.Query(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list currencies", "sort", string(sort), "error", err)
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	defer rows.Close()

	var currencies []currency.Currency
	for rows.Next() {
		var c currency.Currency
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.State, &c.Circulation, &c.Reserves, &c.Owner, &c.Value); err != nil {
			return nil, fmt.Errorf("failed to scan currency row: %w", err)
		}
		currencies = append(currencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate currency rows: %w", err)
	}

	return currencies, nil
}

// UpdateMeta renames one metadata field and returns the stored row.
func (r *CurrencyRepository) UpdateMeta(ctx context.Context, code string, field currency.MetaField, value string) (*currency.Currency, error) {
	var column string
	switch field {
	case currency.MetaName:
		column = "currency_name"
	case currency.MetaState:
		column = "state"
	case currency.MetaCode:
		column = "currency_code"
	case currency.MetaOwner:
		column = "owner"
	default:
		return nil, fmt.Errorf("unknown currency metadata field: %s", field)
	}

	query := `UPDATE currencies SET ` + column + ` = $1 WHERE currency_code = $2 RETURNING ` + currencyColumns

	c, err := r.scanCurrency(r.querier.QueryRow(ctx, query, value, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, currency.ErrCurrencyNotFound{Code: code}
		}
		if isUniqueViolation(err) {
			return nil, currency.ErrDuplicateCode{Code: value}
		}
		r.logger.Error("Failed to update currency metadata", "code", code, "field", string(field), "error", err)
		return nil, fmt.Errorf("failed to update currency metadata: %w", err)
	}

	return c, nil
}

// Delete removes a currency; transactions and records cascade at the database.
func (r *CurrencyRepository) Delete(ctx context.Context, code string) error {
	query := `DELETE FROM currencies WHERE currency_code = $1`

	result, err := r.querier.Exec(ctx, query, code)
	if err != nil {
		r.logger.Error("Failed to delete currency", "code", code, "error", err)
		return fmt.Errorf("failed to delete currency: %w", err)
	}

	if result.RowsAffected() == 0 {
		return currency.ErrCurrencyNotFound{Code: code}
	}

	return nil
}

func (r *CurrencyRepository) scanCurrency(row pgx.Row) (*currency.Currency, error) {
	var c currency.Currency
	err := row.Scan(&c.ID, &c.Code, &c.Name, &c.State, &c.Circulation, &c.Reserves, &c.Owner, &c.Value)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint error
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
