package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stockmarket/internal/apperrors"
	"stockmarket/internal/model"
)

// StockRepository provides data access methods for the stock table.
// It is the sole writer of stock rows; mutation happens through the service
// layer inside a transaction via WithTx.
type StockRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewStockRepository creates a new StockRepository with the provided database connection.
func NewStockRepository(db *sql.DB) *StockRepository {
	return &StockRepository{db: db}
}

// WithTx returns a copy of the repository that executes against the given transaction.
func (r *StockRepository) WithTx(tx *sql.Tx) *StockRepository {
	return &StockRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *StockRepository) getQuerier() interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const stockColumns = "id, symbol, name, current_price, change_percent, volume, market_cap, sector, is_active, last_updated"

func scanStock(row interface{ Scan(dest ...any) error }) (model.Stock, error) {
	var s model.Stock
	var sector sql.NullString

	err := row.Scan(
		&s.ID,
		&s.Symbol,
		&s.Name,
		&s.CurrentPrice,
		&s.ChangePercent,
		&s.Volume,
		&s.MarketCap,
		&sector,
		&s.IsActive,
		&s.LastUpdated,
	)
	if err != nil {
		return model.Stock{}, err
	}
	s.Sector = sector.String
	return s, nil
}

// GetBySymbol retrieves the stock row for a symbol.
// Returns apperrors.ErrStockNotFound if no row exists.
func (r *StockRepository) GetBySymbol(ctx context.Context, symbol string) (model.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE symbol = ?`

	row := r.getQuerier().QueryRowContext(ctx, query, symbol)
	stock, err := scanStock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Stock{}, apperrors.ErrStockNotFound
	}
	if err != nil {
		return model.Stock{}, fmt.Errorf("failed to query stock table: %w", err)
	}

	return stock, nil
}

// GetAll retrieves all active stock rows ordered by symbol.
// Returns an empty slice if the table is empty.
func (r *StockRepository) GetAll(ctx context.Context) ([]model.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE is_active = TRUE ORDER BY symbol ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock table: %w", err)
	}
	defer rows.Close()

	stocks := []model.Stock{}

	for rows.Next() {
		stock, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock table results: %w", err)
		}
		stocks = append(stocks, stock)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock table: %w", err)
	}

	return stocks, nil
}

// TopMovers retrieves up to limit stocks ranked by change percent.
// descending=true returns the biggest gainers first, false the biggest
// losers. Ties are broken by id ascending so ordering is stable.
func (r *StockRepository) TopMovers(ctx context.Context, limit int, descending bool) ([]model.Stock, error) {
	if limit <= 0 {
		return nil, apperrors.ErrInvalidLimit
	}

	direction := "ASC"
	if descending {
		direction = "DESC"
	}

	//#nosec G202 -- Safe: direction is one of two fixed literals, not user input
	query := `SELECT ` + stockColumns + ` FROM stock
		WHERE is_active = TRUE
		ORDER BY change_percent ` + direction + `, id ASC
		LIMIT ?`

	rows, err := r.getQuerier().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock table: %w", err)
	}
	defer rows.Close()

	stocks := []model.Stock{}

	for rows.Next() {
		stock, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stock table results: %w", err)
		}
		stocks = append(stocks, stock)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock table: %w", err)
	}

	return stocks, nil
}

// LatestUpdated retrieves the single most recently updated row across the
// whole table, ordering by last_updated descending with ties broken
// arbitrarily. Returns apperrors.ErrStockNotFound for an empty table.
func (r *StockRepository) LatestUpdated(ctx context.Context) (model.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock ORDER BY last_updated DESC LIMIT 1`

	row := r.getQuerier().QueryRowContext(ctx, query)
	stock, err := scanStock(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Stock{}, apperrors.ErrStockNotFound
	}
	if err != nil {
		return model.Stock{}, fmt.Errorf("failed to query stock table: %w", err)
	}

	return stock, nil
}

// Insert creates a new stock row.
func (r *StockRepository) Insert(ctx context.Context, stock model.Stock) error {
	query := `
		INSERT INTO stock (id, symbol, name, current_price, change_percent, volume, market_cap, sector, is_active, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		stock.ID,
		stock.Symbol,
		stock.Name,
		stock.CurrentPrice,
		stock.ChangePercent,
		stock.Volume,
		stock.MarketCap,
		stock.Sector,
		stock.IsActive,
		stock.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to insert into stock table: %w", err)
	}

	return nil
}

// Update overwrites every mutable field of an existing stock row.
// The row is addressed by id; symbol is rewritten along with the rest so the
// full-replace contract holds field by field.
func (r *StockRepository) Update(ctx context.Context, stock model.Stock) error {
	query := `
		UPDATE stock
		SET symbol = ?, name = ?, current_price = ?, change_percent = ?, volume = ?, market_cap = ?, sector = ?, is_active = ?, last_updated = ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		stock.Symbol,
		stock.Name,
		stock.CurrentPrice,
		stock.ChangePercent,
		stock.Volume,
		stock.MarketCap,
		stock.Sector,
		stock.IsActive,
		stock.LastUpdated,
		stock.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update stock table: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrStockNotFound
	}

	return nil
}
