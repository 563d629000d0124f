package testutil

import (
	"database/sql"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"stockmarket/internal/cache"
	"stockmarket/internal/model"
	"stockmarket/internal/repository"
	"stockmarket/internal/service"
	"stockmarket/internal/yahoo"
)

// DefaultSymbols is the batch symbol list used by test services.
var DefaultSymbols = []string{"AAPL", "MSFT", "GOOGL"}

// NewTestLogger returns a logger that discards all output.
func NewTestLogger(t *testing.T) *logrus.Logger {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// NewTestStockService creates a StockService wired to the given database and
// Yahoo client, with zero fetch pacing and UTC as the market time zone.
func NewTestStockService(t *testing.T, db *sql.DB, yahooClient yahoo.Client) *service.StockService {
	t.Helper()

	return NewTestStockServiceWithSymbols(t, db, yahooClient, DefaultSymbols)
}

// NewTestStockServiceWithSymbols creates a StockService with a custom batch
// symbol list.
func NewTestStockServiceWithSymbols(t *testing.T, db *sql.DB, yahooClient yahoo.Client, symbols []string) *service.StockService {
	t.Helper()

	stockRepo := repository.NewStockRepository(db)
	histCache := cache.New[[]model.HistoricalBar](time.Minute)

	return service.NewStockService(
		db,
		stockRepo,
		yahooClient,
		histCache,
		NewTestLogger(t),
		symbols,
		0, // no pacing between fetches in tests
		time.UTC,
	)
}

// NewTestSystemService creates a SystemService for the given database.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}
